package calendar

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	annotator *Annotator
}

func NewHandler(annotator *Annotator) *Handler {
	return &Handler{
		annotator: annotator,
	}
}

func (handler *Handler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.month")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	weeks, err := handler.annotator.Annotate(ctx, userID, year, time.Month(month))
	if err != nil {
		if ve, ok := pkg.AsValidationError(err); ok {
			resp, _ := json.Marshal(map[string]map[string]string{
				"errors": {ve.Field: ve.Rule},
			})
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusBadRequest)
			return
		}
		log.Errorf("failed to annotate calendar %d-%d for user %d: %s", year, month, userID, err)
		http.Error(w, "error, failed to annotate calendar", http.StatusInternalServerError)
		return
	}

	weeksJson, err := json.Marshal(weeks)
	if err != nil {
		log.Errorf("failed to marshal calendar weeks: %s", err)
		http.Error(w, "error, failed to annotate calendar", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, weeksJson)
}
