package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTemplateNotFound = errors.New("workout template not found")

type TemplateRepo struct {
	db            *pgxpool.Pool
	defaultUserID int
}

func NewTemplateRepo(db *pgxpool.Pool, defaultUserID int) *TemplateRepo {
	return &TemplateRepo{
		db:            db,
		defaultUserID: defaultUserID,
	}
}

func (r *TemplateRepo) Add(ctx context.Context, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", template.UserID))

	configJson, err := json.Marshal(template.Plans)
	if err != nil {
		return nil, fmt.Errorf("marshal template config: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_template (user_id, name, config)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		template.UserID, template.Name, configJson,
	).Scan(&template.ID)
	if err != nil {
		return nil, fmt.Errorf("insert workout template: %w", err)
	}

	span.SetAttributes(attribute.Int("template.id", template.ID))
	return &template, nil
}

// GetByName resolves a template name for the user, falling back to the
// shared default-owned one.
func (r *TemplateRepo) GetByName(ctx context.Context, userID int, name string) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.getByName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("template.name", name))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, config
			FROM workout_template
			WHERE name = $1 AND user_id IN ($2, $3)
		ORDER BY (user_id = $2) DESC
		LIMIT 1;`,
		name, userID, r.defaultUserID,
	)
	return r.scanTemplate(row)
}

func (r *TemplateRepo) Get(ctx context.Context, userID, id int) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("template.id", id))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, config
			FROM workout_template
			WHERE id = $1 AND user_id IN ($2, $3);`,
		id, userID, r.defaultUserID,
	)
	return r.scanTemplate(row)
}

func (r *TemplateRepo) List(ctx context.Context, userID int) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT ON (name) id, user_id, name, config
			FROM workout_template
			WHERE user_id IN ($1, $2)
		ORDER BY name, (user_id = $1) DESC;`,
		userID, r.defaultUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if templates == nil {
		templates = make([]Template, 0)
	}
	return templates, nil
}

// Update edits a template for the given user, cloning a default-owned
// one first (copy on write).
func (r *TemplateRepo) Update(ctx context.Context, userID int, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	existing, err := r.GetByName(ctx, userID, template.Name)
	if err != nil {
		return nil, err
	}

	if existing.UserID == r.defaultUserID && userID != r.defaultUserID {
		template.UserID = userID
		return r.Add(ctx, template)
	}

	configJson, err := json.Marshal(template.Plans)
	if err != nil {
		return nil, fmt.Errorf("marshal template config: %w", err)
	}

	template.ID = existing.ID
	template.UserID = existing.UserID
	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_template SET config = $1 WHERE id = $2;`,
		configJson, template.ID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTemplateNotFound
	}
	return &template, nil
}

func (r *TemplateRepo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("template.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_template WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// UpdateFiveRepMaxSnapshotTx rewrites the snapshot inside every plan of
// the template that references the given exercise, within an open
// transaction. Shares the transaction of the strength engine's exercise
// write so the two never diverge.
func (r *TemplateRepo) UpdateFiveRepMaxSnapshotTx(
	ctx context.Context,
	tx pgx.Tx,
	templateID int,
	exerciseName string,
	fiveRepMax float64,
) error {
	var configJson []byte
	err := tx.QueryRow(
		ctx,
		`SELECT config FROM workout_template WHERE id = $1 FOR UPDATE;`,
		templateID,
	).Scan(&configJson)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTemplateNotFound
	}
	if err != nil {
		return err
	}

	var plans []ExercisePlan
	if err := json.Unmarshal(configJson, &plans); err != nil {
		return fmt.Errorf("unmarshal template config: %w", err)
	}

	touched := false
	for i := range plans {
		if plans[i].Name == exerciseName {
			plans[i].FiveRepMaxSnapshot = fiveRepMax
			touched = true
		}
	}
	if !touched {
		return nil
	}

	updatedJson, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("marshal template config: %w", err)
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE workout_template SET config = $1 WHERE id = $2;`,
		updatedJson, templateID,
	); err != nil {
		return err
	}
	return nil
}

func (r *TemplateRepo) scanTemplate(row pgx.Row) (*Template, error) {
	var template Template
	var configJson []byte
	err := row.Scan(&template.ID, &template.UserID, &template.Name, &configJson)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(configJson) > 0 {
		if err := json.Unmarshal(configJson, &template.Plans); err != nil {
			return nil, fmt.Errorf("unmarshal template config: %w", err)
		}
	}
	if template.Plans == nil {
		template.Plans = make([]ExercisePlan, 0)
	}
	return &template, nil
}
