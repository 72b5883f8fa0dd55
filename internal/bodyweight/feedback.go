package bodyweight

import (
	"context"
	"errors"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type entriesRepo interface {
	Latest(ctx context.Context, userID int) (*Entry, error)
}

type profileUpdater interface {
	UpdateBodyComposition(ctx context.Context, userID int, bodyWeight, bodyFat float64) error
}

// Feedback copies the latest body measurement into the user profile.
// It is the only writer of profile body composition, so the profile
// always mirrors the newest entry by date, regardless of save order.
type Feedback struct {
	entries  entriesRepo
	profiles profileUpdater
}

func NewFeedback(entries entriesRepo, profiles profileUpdater) *Feedback {
	return &Feedback{
		entries:  entries,
		profiles: profiles,
	}
}

// Reconcile pushes the most recent measurement into the profile. Safe to
// repeat, a second run with the same latest entry writes the same values.
func (f *Feedback) Reconcile(ctx context.Context, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "bodyweight.feedback.reconcile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	latest, err := f.entries.Latest(ctx, userID)
	if errors.Is(err, ErrEntryNotFound) {
		log.Tracef("no weight entries for user %d, nothing to reconcile", userID)
		return nil
	}
	if err != nil {
		return err
	}

	return f.profiles.UpdateBodyComposition(ctx, userID, latest.BodyWeight, latest.BodyFat)
}
