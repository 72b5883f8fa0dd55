package cardio

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
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/timewindow"
	"github.com/2beens/fitlog/pkg"
)

type handlerRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	Delete(ctx context.Context, userID, id int) error
}

type Handler struct {
	repo     handlerRepo
	analyzer *Analyzer
	clock    clock.Clock
	metrics  *metrics.Manager
}

func NewHandler(repo handlerRepo, analyzer *Analyzer, clk clock.Clock, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		clock:    clk,
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.cardio.add")
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
		log.Tracef("new cardio entry, unmarshal json params: %s", err)
		http.Error(w, "add cardio entry failed", http.StatusBadRequest)
		return
	}
	entry.UserID = userID

	if err := entry.Validate(handler.clock.Now()); err != nil {
		writeValidationError(w, err)
		return
	}

	addedEntry, err := handler.repo.Add(ctx, entry)
	if err != nil {
		log.Errorf("failed to add cardio entry for user %d: %s", userID, err)
		http.Error(w, "error, failed to add cardio entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterCardioEntries.Inc()

	entryJson, err := json.Marshal(addedEntry)
	if err != nil {
		log.Errorf("failed to marshal added cardio entry: %s", err)
		http.Error(w, "error, failed to add cardio entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.cardio.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid cardio entry id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "cardio entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete cardio entry %d: %s", id, err)
		http.Error(w, "error, failed to delete cardio entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":`+strconv.Itoa(id)+`}`)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.cardio.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	tag, err := timewindow.ParseTag(vars["tag"])
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("tag", "must be one of: week, month, year"))
		return
	}

	summary, err := handler.analyzer.Summarize(ctx, userID, tag)
	if err != nil {
		log.Errorf("failed to summarize cardio for user %d: %s", userID, err)
		http.Error(w, "error, failed to summarize cardio", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGraphsRendered.Inc()

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal cardio summary: %s", err)
		http.Error(w, "error, failed to summarize cardio", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
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
