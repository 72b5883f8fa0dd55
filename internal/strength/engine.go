package strength

import (
	"context"
	"fmt"

	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=engine_mocks_test.go -package=strength_test

type exerciseStore interface {
	GetByNameTx(ctx context.Context, tx pgx.Tx, userID int, name string) (*Exercise, error)
	CloneForUserTx(ctx context.Context, tx pgx.Tx, userID int, exercise Exercise) (*Exercise, error)
	UpdateFiveRepMaxTx(ctx context.Context, tx pgx.Tx, exerciseID int, fiveRepMax float64) error
	DefaultUserID() int
}

type snapshotStore interface {
	UpdateFiveRepMaxSnapshotTx(ctx context.Context, tx pgx.Tx, templateID int, exerciseName string, fiveRepMax float64) error
}

// Engine applies the five rep max update rule for completed sets. The
// estimate only ever moves up, a weaker set never lowers it.
type Engine struct {
	exercises exerciseStore
	snapshots snapshotStore
	metrics   *metrics.Manager
}

func NewEngine(exercises exerciseStore, snapshots snapshotStore, metricsManager *metrics.Manager) *Engine {
	return &Engine{
		exercises: exercises,
		snapshots: snapshots,
		metrics:   metricsManager,
	}
}

// ApplySet checks whether the set's Epley five rep max estimate beats the
// exercise's current one and, if so, writes it back and propagates it into
// the enclosing workout template's snapshot. Both writes share the given
// transaction so a partial update is never visible. templateID <= 0 skips
// propagation. Returns whether an update happened and the resulting value.
func (e *Engine) ApplySet(
	ctx context.Context,
	tx pgx.Tx,
	userID int,
	exerciseName string,
	weight float64,
	reps int,
	templateID int,
) (_ bool, _ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strength.engine.applySet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("exercise.name", exerciseName))

	exercise, err := e.exercises.GetByNameTx(ctx, tx, userID, exerciseName)
	if err != nil {
		return false, 0, fmt.Errorf("get exercise %q: %w", exerciseName, err)
	}

	candidate := FiveRepMax(weight, reps)
	if candidate > MaxFiveRepMax {
		log.Warnf(
			"five rep max estimate %.2f for %q exceeds the allowed maximum, capping",
			candidate, exerciseName,
		)
		candidate = MaxFiveRepMax
	}

	if candidate <= exercise.FiveRepMax {
		return false, exercise.FiveRepMax, nil
	}

	// editing a shared default exercise clones it for the user first
	if exercise.UserID == e.exercises.DefaultUserID() && userID != e.exercises.DefaultUserID() {
		clone, err := e.exercises.CloneForUserTx(ctx, tx, userID, *exercise)
		if err != nil {
			return false, 0, fmt.Errorf("clone default exercise %q: %w", exerciseName, err)
		}
		exercise = clone
	}

	if err := e.exercises.UpdateFiveRepMaxTx(ctx, tx, exercise.ID, candidate); err != nil {
		return false, 0, fmt.Errorf("update five rep max: %w", err)
	}

	if templateID > 0 {
		if err := e.snapshots.UpdateFiveRepMaxSnapshotTx(ctx, tx, templateID, exercise.Name, candidate); err != nil {
			return false, 0, fmt.Errorf("propagate five rep max snapshot: %w", err)
		}
	}

	e.metrics.CounterFiveRepMaxUpdates.Inc()
	span.SetAttributes(attribute.Float64("five_rep_max.new", candidate))

	return true, candidate, nil
}
