package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
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
	Save(ctx context.Context, entry FoodEntry) (*FoodEntry, error)
	Get(ctx context.Context, userID int, date time.Time) (*FoodEntry, error)
	Delete(ctx context.Context, userID int, date time.Time) error
}

type catalogClient interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Fetch(ctx context.Context, foodID string) (json.RawMessage, error)
}

type Handler struct {
	repo       handlerRepo
	summarizer *Summarizer
	catalog    catalogClient
	metrics    *metrics.Manager
}

func NewHandler(repo handlerRepo, summarizer *Summarizer, catalog catalogClient, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:       repo,
		summarizer: summarizer,
		catalog:    catalog,
		metrics:    metricsManager,
	}
}

// HandleSave rewrites the user's food log for one day.
func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.save")
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

	var entry FoodEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("save food entry, unmarshal json params: %s", err)
		http.Error(w, "save food entry failed", http.StatusBadRequest)
		return
	}
	entry.UserID = userID

	if err := entry.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	savedEntry, err := handler.repo.Save(ctx, entry)
	if err != nil {
		log.Errorf("failed to save food entry for user %d: %s", userID, err)
		http.Error(w, "error, failed to save food entry", http.StatusInternalServerError)
		return
	}

	entryJson, err := json.Marshal(savedEntry)
	if err != nil {
		log.Errorf("failed to marshal saved food entry: %s", err)
		http.Error(w, "error, failed to save food entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entryJson)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	date, err := time.Parse(dateLayout, vars["date"])
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("date", "must be formatted as 2006-01-02"))
		return
	}

	entry, err := handler.repo.Get(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "food entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get food entry for user %d: %s", userID, err)
		http.Error(w, "error, failed to get food entry", http.StatusInternalServerError)
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal food entry: %s", err)
		http.Error(w, "error, failed to get food entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entryJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	date, err := time.Parse(dateLayout, vars["date"])
	if err != nil {
		writeValidationError(w, pkg.NewValidationError("date", "must be formatted as 2006-01-02"))
		return
	}

	if err := handler.repo.Delete(ctx, userID, date); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "food entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete food entry for user %d: %s", userID, err)
		http.Error(w, "error, failed to delete food entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":"`+vars["date"]+`"}`)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.summarizer.Summarize(ctx, userID)
	if err != nil {
		log.Errorf("failed to summarize nutrition for user %d: %s", userID, err)
		http.Error(w, "error, failed to summarize nutrition", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGraphsRendered.Add(2)

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal nutrition summary: %s", err)
		http.Error(w, "error, failed to summarize nutrition", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}

// HandleCatalogSearch proxies a free-text food search to the remote
// catalog. When the catalog is down the client gets an empty payload, the
// food log itself does not depend on the lookup.
func (handler *Handler) HandleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.catalogSearch")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeValidationError(w, pkg.NewValidationError("query", "must not be empty"))
		return
	}

	result, err := handler.catalog.Search(ctx, query)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			log.Warnf("food catalog search %q failed: %s", query, err)
			pkg.WriteJSONResponseOK(w, `{}`)
			return
		}
		log.Errorf("food catalog search %q: %s", query, err)
		http.Error(w, "error, food catalog search failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, result)
}

func (handler *Handler) HandleCatalogFood(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.catalogFood")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	foodID := vars["id"]
	if foodID == "" {
		writeValidationError(w, pkg.NewValidationError("id", "must not be empty"))
		return
	}

	result, err := handler.catalog.Fetch(ctx, foodID)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			log.Warnf("food catalog fetch %s failed: %s", foodID, err)
			pkg.WriteJSONResponseOK(w, `{}`)
			return
		}
		log.Errorf("food catalog fetch %s: %s", foodID, err)
		http.Error(w, "error, food catalog fetch failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, result)
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
