package bodyweight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

const dateLayout = "2006-01-02"

type handlerRepo interface {
	Save(ctx context.Context, entry Entry) (*Entry, error)
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]Entry, error)
	Delete(ctx context.Context, userID, id int) error
}

type Handler struct {
	repo     handlerRepo
	feedback *Feedback
	metrics  *metrics.Manager
}

func NewHandler(repo handlerRepo, feedback *Feedback, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		feedback: feedback,
		metrics:  metricsManager,
	}
}

// HandleSave stores a measurement and reconciles the profile with the
// newest entry.
func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.save")
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

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("save weight entry, unmarshal json params: %s", err)
		http.Error(w, "save weight entry failed", http.StatusBadRequest)
		return
	}
	entry.UserID = userID

	if err := entry.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	savedEntry, err := handler.repo.Save(ctx, entry)
	if err != nil {
		log.Errorf("failed to save weight entry for user %d: %s", userID, err)
		http.Error(w, "error, failed to save weight entry", http.StatusInternalServerError)
		return
	}

	if err := handler.feedback.Reconcile(ctx, userID); err != nil {
		log.Errorf("failed to reconcile profile body composition for user %d: %s", userID, err)
		http.Error(w, "error, failed to save weight entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWeightEntries.Inc()

	entryJson, err := json.Marshal(savedEntry)
	if err != nil {
		log.Errorf("failed to marshal saved weight entry: %s", err)
		http.Error(w, "error, failed to save weight entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	from, err := time.Parse(dateLayout, query.Get("from"))
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("from", "must be formatted as 2006-01-02"))
		return
	}
	to, err := time.Parse(dateLayout, query.Get("to"))
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("to", "must be formatted as 2006-01-02"))
		return
	}

	entries, err := handler.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		log.Errorf("failed to list weight entries for user %d: %s", userID, err)
		http.Error(w, "error, failed to list weight entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = make([]Entry, 0)
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal weight entries: %s", err)
		http.Error(w, "error, failed to list weight entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bodyweight.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid weight entry id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "weight entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete weight entry %d: %s", id, err)
		http.Error(w, "error, failed to delete weight entry", http.StatusInternalServerError)
		return
	}

	// deleting can change which entry is the latest
	if err := handler.feedback.Reconcile(ctx, userID); err != nil {
		log.Errorf("failed to reconcile profile body composition for user %d: %s", userID, err)
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":`+strconv.Itoa(id)+`}`)
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
