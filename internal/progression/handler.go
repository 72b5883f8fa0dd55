package progression

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	grapher *Grapher
	metrics *metrics.Manager
}

func NewHandler(grapher *Grapher, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		grapher: grapher,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.graph")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	stat := vars["stat"]

	months := 0
	if monthsParam := r.URL.Query().Get("months"); monthsParam != "" {
		var err error
		if months, err = strconv.Atoi(monthsParam); err != nil {
			http.Error(w, "invalid months", http.StatusBadRequest)
			return
		}
	}

	graph, err := handler.grapher.Graph(ctx, userID, stat, months)
	if err != nil {
		if ve, ok := pkg.AsValidationError(err); ok {
			resp, _ := json.Marshal(map[string]map[string]string{
				"errors": {ve.Field: ve.Rule},
			})
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusBadRequest)
			return
		}
		if errors.Is(err, graphs.ErrEmptySeries) {
			pkg.WriteJSONResponseOK(w, `{"graph":""}`)
			return
		}
		log.Errorf("failed to render progression graph %q for user %d: %s", stat, userID, err)
		http.Error(w, "error, failed to render progression graph", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGraphsRendered.Inc()

	respJson, err := json.Marshal(map[string]string{"graph": graph})
	if err != nil {
		log.Errorf("failed to marshal progression graph response: %s", err)
		http.Error(w, "error, failed to render progression graph", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
