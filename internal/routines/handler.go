package routines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type handlerRepo interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Get(ctx context.Context, userID, id int) (*Routine, error)
	List(ctx context.Context, userID int) ([]Routine, error)
	Delete(ctx context.Context, userID, id int) error
	GetCursor(ctx context.Context, userID int) (*Cursor, error)
	SaveCursor(ctx context.Context, userID int, cursor Cursor) error
}

type Handler struct {
	repo  handlerRepo
	clock clock.Clock
}

func NewHandler(repo handlerRepo, clk clock.Clock) *Handler {
	return &Handler{
		repo:  repo,
		clock: clk,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("new routine, unmarshal json params: %s", err)
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}
	routine.UserID = userID

	if err := routine.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	addedRoutine, err := handler.repo.Add(ctx, routine)
	if err != nil {
		log.Errorf("failed to add routine for user %d: %s", userID, err)
		http.Error(w, "error, failed to add routine", http.StatusInternalServerError)
		return
	}

	routineJson, err := json.Marshal(addedRoutine)
	if err != nil {
		log.Errorf("failed to marshal added routine: %s", err)
		http.Error(w, "error, failed to add routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid routine id", http.StatusBadRequest)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine %d: %s", id, err)
		http.Error(w, "error, failed to get routine", http.StatusInternalServerError)
		return
	}

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal routine: %s", err)
		http.Error(w, "error, failed to get routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, routineJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	routinesList, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list routines for user %d: %s", userID, err)
		http.Error(w, "error, failed to list routines", http.StatusInternalServerError)
		return
	}

	routinesJson, err := json.Marshal(routinesList)
	if err != nil {
		log.Errorf("failed to marshal routines: %s", err)
		http.Error(w, "error, failed to list routines", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, routinesJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid routine id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete routine %d: %s", id, err)
		http.Error(w, "error, failed to delete routine", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":`+strconv.Itoa(id)+`}`)
}

// HandleSelect points the user's cursor at the first planned workout of
// the given routine.
func (handler *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.select")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid routine id", http.StatusBadRequest)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine %d: %s", id, err)
		http.Error(w, "error, failed to select routine", http.StatusInternalServerError)
		return
	}

	cursor, err := Start(routine)
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("weeks", "routine has no planned workouts"))
		return
	}

	if err := handler.repo.SaveCursor(ctx, userID, cursor); err != nil {
		log.Errorf("failed to save routine cursor for user %d: %s", userID, err)
		http.Error(w, "error, failed to select routine", http.StatusInternalServerError)
		return
	}

	handler.writeCursorState(w, routine, cursor)
}

// HandleAdvance moves the user's cursor one workout forward or back and
// returns the workout now pointed at.
func (handler *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.advance")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	direction := vars["direction"]
	if direction != "next" && direction != "prev" {
		writeValidationError(w, pkg.NewValidationError("direction", "must be one of: next, prev"))
		return
	}

	cursor, err := handler.repo.GetCursor(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCursorNotFound) {
			http.Error(w, "no routine selected", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine cursor for user %d: %s", userID, err)
		http.Error(w, "error, failed to advance routine", http.StatusInternalServerError)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, cursor.RoutineID)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine %d: %s", cursor.RoutineID, err)
		http.Error(w, "error, failed to advance routine", http.StatusInternalServerError)
		return
	}

	// routine edits can leave a stale cursor behind, pull it back in range
	current := Clamp(routine, *cursor)

	var moved Cursor
	switch direction {
	case "next":
		moved, err = Advance(routine, current)
		if err == nil {
			now := handler.clock.Now()
			moved.LastCompleted = &now
		}
	case "prev":
		moved, err = Rewind(routine, current)
		if err == nil {
			moved.LastCompleted = current.LastCompleted
		}
	}
	if err != nil {
		log.Errorf("failed to advance routine %d for user %d: %s", routine.ID, userID, err)
		writeValidationError(w, pkg.NewValidationError("direction", "routine has no planned workouts"))
		return
	}

	if err := handler.repo.SaveCursor(ctx, userID, moved); err != nil {
		log.Errorf("failed to save routine cursor for user %d: %s", userID, err)
		http.Error(w, "error, failed to advance routine", http.StatusInternalServerError)
		return
	}

	handler.writeCursorState(w, routine, moved)
}

// HandleCurrent returns the workout the cursor currently points at,
// without moving it.
func (handler *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.current")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	cursor, err := handler.repo.GetCursor(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCursorNotFound) {
			http.Error(w, "no routine selected", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine cursor for user %d: %s", userID, err)
		http.Error(w, "error, failed to get current workout", http.StatusInternalServerError)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, cursor.RoutineID)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get routine %d: %s", cursor.RoutineID, err)
		http.Error(w, "error, failed to get current workout", http.StatusInternalServerError)
		return
	}

	handler.writeCursorState(w, routine, Clamp(routine, *cursor))
}

type cursorStateResponse struct {
	Cursor  Cursor   `json:"cursor"`
	Workout *Workout `json:"workout"`
}

func (handler *Handler) writeCursorState(w http.ResponseWriter, routine *Routine, cursor Cursor) {
	workout, err := Current(routine, cursor)
	if err != nil {
		log.Errorf("failed to resolve workout at cursor for routine %d: %s", routine.ID, err)
		http.Error(w, "error, failed to resolve current workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(cursorStateResponse{
		Cursor:  cursor,
		Workout: workout,
	})
	if err != nil {
		log.Errorf("failed to marshal cursor state: %s", err)
		http.Error(w, "error, failed to resolve current workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func writeValidationError(w http.ResponseWriter, err error) {
	if ve, ok := pkg.AsValidationError(err); ok {
		resp, _ := json.Marshal(map[string]map[string]string{
			"errors": {ve.Field: ve.Rule},
		})
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
