package workouts

import (
	"context"

	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// PlannedSet is a concrete weight and rep prescription produced from a
// template plan.
type PlannedSet struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// SessionPlan is a fully materialized template, ready to be performed.
type SessionPlan struct {
	TemplateID   int          `json:"templateId"`
	TemplateName string       `json:"templateName"`
	Sets         []PlannedSet `json:"sets"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// Materialize turns a template into concrete sets by applying each plan
// set's modifier to the plan's five rep max snapshot. Sets with a
// modifier that cannot be resolved are skipped with a warning rather
// than failing the whole plan.
func Materialize(ctx context.Context, template *Template) *SessionPlan {
	_, span := tracing.GlobalTracer.Start(ctx, "workouts.materialize")
	defer span.End()
	span.SetAttributes(attribute.String("template.name", template.Name))

	plan := &SessionPlan{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Sets:         make([]PlannedSet, 0),
	}

	for _, exercisePlan := range template.Plans {
		for _, set := range exercisePlan.Sets {
			var weight float64
			switch set.Modifier {
			case strength.ModifierExact:
				weight = set.Amount
			case strength.ModifierPercentage:
				weight = (set.Amount / 100) * exercisePlan.FiveRepMaxSnapshot
			case strength.ModifierIncrement:
				weight = exercisePlan.FiveRepMaxSnapshot + set.Amount
			case strength.ModifierDecrement:
				weight = exercisePlan.FiveRepMaxSnapshot - set.Amount
			default:
				warning := "skipped set with unknown modifier " + string(set.Modifier) +
					" in plan " + exercisePlan.Name
				log.Warnf("materialize template [%s]: %s", template.Name, warning)
				plan.Warnings = append(plan.Warnings, warning)
				continue
			}

			plan.Sets = append(plan.Sets, PlannedSet{
				Exercise: exercisePlan.Name,
				Weight:   weight,
				Reps:     set.Reps,
			})
		}
	}

	return plan
}
