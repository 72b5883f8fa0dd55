package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/units"
	"github.com/2beens/fitlog/pkg"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userProfile, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile %d: %s", userID, err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(userProfile)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}

func (handler *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.updateSettings")
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

	var settings Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		log.Tracef("update settings, unmarshal json params: %s", err)
		http.Error(w, "update settings failed", http.StatusBadRequest)
		return
	}

	if settings.FirstWeekday < 0 || settings.FirstWeekday > 6 {
		writeValidationError(w, pkg.NewValidationError("firstWeekday", "must be between 0 and 6"))
		return
	}

	if err := handler.repo.UpdateSettings(ctx, userID, settings); err != nil {
		log.Errorf("failed to update settings for user %d: %s", userID, err)
		http.Error(w, "error, failed to update settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated":true}`)
}

func (handler *Handler) HandleUpdateUnits(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.updateUnits")
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

	var params struct {
		DistanceUnit string `json:"distanceUnit"`
		WeightUnit   string `json:"weightUnit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("update units, unmarshal json params: %s", err)
		http.Error(w, "update units failed", http.StatusBadRequest)
		return
	}

	if params.DistanceUnit != units.DistanceUnitMiles && params.DistanceUnit != units.DistanceUnitKilometers {
		writeValidationError(w, pkg.NewValidationError("distanceUnit", "must be one of: mi, km"))
		return
	}
	if params.WeightUnit != units.WeightUnitLbs && params.WeightUnit != units.WeightUnitKg {
		writeValidationError(w, pkg.NewValidationError("weightUnit", "must be one of: Lbs, Kg"))
		return
	}

	if err := handler.repo.UpdateUnits(ctx, userID, params.DistanceUnit, params.WeightUnit); err != nil {
		log.Errorf("failed to update units for user %d: %s", userID, err)
		http.Error(w, "error, failed to update units", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated":true}`)
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
