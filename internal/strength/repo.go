package strength

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// querier is satisfied by both the pool and a transaction, so the same
// queries can run inside the engine's transaction scope.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db            *pgxpool.Pool
	defaultUserID int
}

func NewRepo(db *pgxpool.Pool, defaultUserID int) *Repo {
	return &Repo{
		db:            db,
		defaultUserID: defaultUserID,
	}
}

func (r *Repo) DefaultUserID() int {
	return r.defaultUserID
}

func (r *Repo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", exercise.UserID))

	exercise.Name = NormalizeName(exercise.Name)
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise
			(user_id, name, five_rep_max, default_weight, default_reps, default_modifier)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		exercise.UserID, exercise.Name, exercise.FiveRepMax,
		exercise.DefaultWeight, exercise.DefaultReps, string(exercise.DefaultModifier),
	).Scan(&exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

// GetByName resolves an exercise name for the user, falling back to the
// shared default-owned row when the user has no row of that name.
func (r *Repo) GetByName(ctx context.Context, userID int, name string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.getByName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("exercise.name", name))

	return r.getByName(ctx, r.db, userID, name)
}

// GetByNameTx is GetByName inside an open transaction.
func (r *Repo) GetByNameTx(ctx context.Context, tx pgx.Tx, userID int, name string) (*Exercise, error) {
	return r.getByName(ctx, tx, userID, name)
}

func (r *Repo) getByName(ctx context.Context, q querier, userID int, name string) (*Exercise, error) {
	row := q.QueryRow(
		ctx,
		`SELECT id, user_id, name, five_rep_max, default_weight, default_reps, default_modifier
			FROM exercise
			WHERE name = $1 AND user_id IN ($2, $3)
		ORDER BY (user_id = $2) DESC
		LIMIT 1;`,
		NormalizeName(name), userID, r.defaultUserID,
	)

	var e Exercise
	var modifier string
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.FiveRepMax, &e.DefaultWeight, &e.DefaultReps, &modifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	e.DefaultModifier = Modifier(modifier)
	return &e, nil
}

// List returns the user's exercises together with the shared defaults,
// user-owned rows shadowing defaults of the same name.
func (r *Repo) List(ctx context.Context, userID int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT ON (name)
			id, user_id, name, five_rep_max, default_weight, default_reps, default_modifier
			FROM exercise
			WHERE user_id IN ($1, $2)
		ORDER BY name, (user_id = $1) DESC;`,
		userID, r.defaultUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		var modifier string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.FiveRepMax, &e.DefaultWeight, &e.DefaultReps, &modifier); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		e.DefaultModifier = Modifier(modifier)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if exercises == nil {
		exercises = make([]Exercise, 0)
	}
	return exercises, nil
}

// Update edits an exercise for the given user. Editing a default-owned
// row does not touch it, a user-owned clone is written instead and
// returned (copy on write).
func (r *Repo) Update(ctx context.Context, userID int, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))

	existing, err := r.getByName(ctx, r.db, userID, exercise.Name)
	if err != nil {
		return nil, err
	}

	if existing.UserID == r.defaultUserID && userID != r.defaultUserID {
		exercise.UserID = userID
		return r.Add(ctx, exercise)
	}

	exercise.ID = existing.ID
	exercise.UserID = existing.UserID
	exercise.Name = NormalizeName(exercise.Name)
	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise SET
			five_rep_max = $1, default_weight = $2, default_reps = $3, default_modifier = $4
		WHERE id = $5;`,
		exercise.FiveRepMax, exercise.DefaultWeight, exercise.DefaultReps,
		string(exercise.DefaultModifier), exercise.ID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrExerciseNotFound
	}
	return &exercise, nil
}

// CloneForUserTx writes a user-owned copy of a default-owned exercise
// within an open transaction and returns the clone.
func (r *Repo) CloneForUserTx(ctx context.Context, tx pgx.Tx, userID int, exercise Exercise) (*Exercise, error) {
	exercise.UserID = userID
	err := tx.QueryRow(
		ctx,
		`INSERT INTO exercise
			(user_id, name, five_rep_max, default_weight, default_reps, default_modifier)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		exercise.UserID, exercise.Name, exercise.FiveRepMax,
		exercise.DefaultWeight, exercise.DefaultReps, string(exercise.DefaultModifier),
	).Scan(&exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("clone exercise: %w", err)
	}
	return &exercise, nil
}

// UpdateFiveRepMaxTx writes a new five rep max within an open transaction.
func (r *Repo) UpdateFiveRepMaxTx(ctx context.Context, tx pgx.Tx, exerciseID int, fiveRepMax float64) error {
	tag, err := tx.Exec(
		ctx,
		`UPDATE exercise SET five_rep_max = $1 WHERE id = $2;`,
		fiveRepMax, exerciseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.strength.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
