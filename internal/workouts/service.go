package workouts

import (
	"context"
	"fmt"

	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type sessionStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	AddTx(ctx context.Context, tx pgx.Tx, session Session) (*Session, error)
}

type templateStore interface {
	Get(ctx context.Context, userID, id int) (*Template, error)
	GetByName(ctx context.Context, userID int, name string) (*Template, error)
}

type profileStore interface {
	Get(ctx context.Context, userID int) (*profile.Profile, error)
}

type fiveRepMaxEngine interface {
	ApplySet(
		ctx context.Context,
		tx pgx.Tx,
		userID int,
		exerciseName string,
		weight float64,
		reps int,
		templateID int,
	) (bool, float64, error)
}

// Service wires session persistence to the strength engine: saving a
// session may push exercise five rep maxes up and refresh the enclosing
// template's snapshots, all within one transaction.
type Service struct {
	sessions  sessionStore
	templates templateStore
	profiles  profileStore
	engine    fiveRepMaxEngine
	metrics   *metrics.Manager
}

func NewService(
	sessions sessionStore,
	templates templateStore,
	profiles profileStore,
	engine fiveRepMaxEngine,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		sessions:  sessions,
		templates: templates,
		profiles:  profiles,
		engine:    engine,
		metrics:   metricsManager,
	}
}

// SaveSession persists the session and its sets. When the user has
// auto_update_five_rep_max enabled, every set is run through the strength
// engine inside the same transaction. An engine failure never fails the
// session write: the set stays persisted and the update is skipped with
// a warning (each engine call runs in its own savepoint).
func (s *Service) SaveSession(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.service.saveSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", session.UserID))
	span.SetAttributes(attribute.Int("sets", len(session.Sets)))

	if err := session.Validate(); err != nil {
		return nil, err
	}

	userProfile, err := s.profiles.Get(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	tx, err := s.sessions.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	saved, err := s.sessions.AddTx(ctx, tx, session)
	if err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}

	if userProfile.Settings.AutoUpdateFiveRepMax {
		for _, set := range saved.Sets {
			if applyErr := s.applySetInSavepoint(ctx, tx, saved, set); applyErr != nil {
				log.Warnf(
					"five rep max update skipped for set [%s %0.2f x %d]: %s",
					set.Exercise, set.Weight, set.Reps, applyErr,
				)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.metrics.CounterWorkoutSets.Add(float64(len(saved.Sets)))

	return saved, nil
}

func (s *Service) applySetInSavepoint(ctx context.Context, tx pgx.Tx, session *Session, set Set) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	_, _, err = s.engine.ApplySet(
		ctx, nested,
		session.UserID, set.Exercise, set.Weight, set.Reps,
		session.TemplateID,
	)
	if err != nil {
		_ = nested.Rollback(ctx)
		return err
	}

	return nested.Commit(ctx)
}

// MaterializeTemplate resolves the named template (user's own or a
// shared default) into a concrete session plan.
func (s *Service) MaterializeTemplate(ctx context.Context, userID int, name string) (_ *SessionPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.service.materializeTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("template.name", name))

	template, err := s.templates.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	return Materialize(ctx, template), nil
}
