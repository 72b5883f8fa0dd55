package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"
)

type templateHandlerRepo interface {
	Add(ctx context.Context, template Template) (*Template, error)
	GetByName(ctx context.Context, userID int, name string) (*Template, error)
	List(ctx context.Context, userID int) ([]Template, error)
	Update(ctx context.Context, userID int, template Template) (*Template, error)
	Delete(ctx context.Context, userID, id int) error
}

type sessionService interface {
	SaveSession(ctx context.Context, session Session) (*Session, error)
	MaterializeTemplate(ctx context.Context, userID int, name string) (*SessionPlan, error)
}

type Handler struct {
	templates templateHandlerRepo
	service   sessionService
}

func NewHandler(templates templateHandlerRepo, service sessionService) *Handler {
	return &Handler{
		templates: templates,
		service:   service,
	}
}

func (handler *Handler) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.saveSession")
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

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new workout session, unmarshal json params: %s", err)
		http.Error(w, "save workout session failed", http.StatusBadRequest)
		return
	}
	session.UserID = userID

	saved, err := handler.service.SaveSession(ctx, session)
	if err != nil {
		if ve, ok := pkg.AsValidationError(err); ok {
			handler.writeValidationError(w, ve)
			return
		}
		log.Errorf("failed to save workout session for user %d: %s", userID, err)
		http.Error(w, "error, failed to save workout session", http.StatusInternalServerError)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved workout session: %s", err)
		http.Error(w, "error, failed to save workout session", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleMaterialize(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.materialize")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	plan, err := handler.service.MaterializeTemplate(ctx, userID, vars["name"])
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to materialize template [%s]: %s", vars["name"], err)
		http.Error(w, "error, failed to materialize template", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("failed to marshal session plan: %s", err)
		http.Error(w, "error, failed to materialize template", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}

func (handler *Handler) HandleAddTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addTemplate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var template Template
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		log.Tracef("new workout template, unmarshal json params: %s", err)
		http.Error(w, "add workout template failed", http.StatusBadRequest)
		return
	}
	template.UserID = userID

	if err := template.Validate(); err != nil {
		if ve, ok := pkg.AsValidationError(err); ok {
			handler.writeValidationError(w, ve)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.templates.Add(ctx, template)
	if err != nil {
		log.Errorf("failed to add workout template [%s]: %s", template.Name, err)
		http.Error(w, "error, failed to add workout template", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added workout template: %s", err)
		http.Error(w, "error, failed to add workout template", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.getTemplate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	template, err := handler.templates.GetByName(ctx, userID, vars["name"])
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout template [%s]: %s", vars["name"], err)
		http.Error(w, "error, failed to get workout template", http.StatusInternalServerError)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("failed to marshal workout template: %s", err)
		http.Error(w, "error, failed to get workout template", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templateJson)
}

func (handler *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listTemplates")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	templates, err := handler.templates.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list workout templates for user %d: %s", userID, err)
		http.Error(w, "error, failed to list workout templates", http.StatusInternalServerError)
		return
	}

	templatesJson, err := json.Marshal(templates)
	if err != nil {
		log.Errorf("failed to marshal workout templates: %s", err)
		http.Error(w, "error, failed to list workout templates", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templatesJson)
}

func (handler *Handler) HandleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.updateTemplate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var template Template
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		log.Tracef("update workout template, unmarshal json params: %s", err)
		http.Error(w, "update workout template failed", http.StatusBadRequest)
		return
	}

	if err := template.Validate(); err != nil {
		if ve, ok := pkg.AsValidationError(err); ok {
			handler.writeValidationError(w, ve)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.templates.Update(ctx, userID, template)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update workout template [%s]: %s", template.Name, err)
		http.Error(w, "error, failed to update workout template", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated workout template: %s", err)
		http.Error(w, "error, failed to update workout template", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteTemplate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout template id", http.StatusBadRequest)
		return
	}

	if err := handler.templates.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout template %d: %s", id, err)
		http.Error(w, "error, failed to delete workout template", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":`+strconv.Itoa(id)+`}`)
}

func (handler *Handler) writeValidationError(w http.ResponseWriter, ve *pkg.ValidationError) {
	resp, _ := json.Marshal(map[string]map[string]string{
		"errors": {ve.Field: ve.Rule},
	})
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusBadRequest)
}
