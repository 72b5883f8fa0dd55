package routines

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

var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrCursorNotFound  = errors.New("routine cursor not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", routine.UserID))

	weeksJson, err := json.Marshal(routine.Weeks)
	if err != nil {
		return nil, fmt.Errorf("marshal routine weeks: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO routine (user_id, name, weeks)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		routine.UserID, routine.Name, weeksJson,
	).Scan(&routine.ID)
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}

	span.SetAttributes(attribute.Int("routine.id", routine.ID))
	return &routine, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("routine.id", id))

	var routine Routine
	var weeksJson []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, weeks FROM routine WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&routine.ID, &routine.UserID, &routine.Name, &weeksJson)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoutineNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(weeksJson, &routine.Weeks); err != nil {
		return nil, fmt.Errorf("unmarshal routine weeks: %w", err)
	}
	return &routine, nil
}

func (r *Repo) List(ctx context.Context, userID int) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, weeks FROM routine WHERE user_id = $1 ORDER BY name ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var routinesList []Routine
	for rows.Next() {
		var routine Routine
		var weeksJson []byte
		if err := rows.Scan(&routine.ID, &routine.UserID, &routine.Name, &weeksJson); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(weeksJson, &routine.Weeks); err != nil {
			return nil, fmt.Errorf("unmarshal routine weeks: %w", err)
		}
		routinesList = append(routinesList, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if routinesList == nil {
		routinesList = make([]Routine, 0)
	}
	return routinesList, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("routine.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routine WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

// GetCursor returns the user's single routine cursor.
func (r *Repo) GetCursor(ctx context.Context, userID int) (_ *Cursor, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.getCursor")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var cursor Cursor
	err = r.db.QueryRow(
		ctx,
		`SELECT routine_id, week_number, day_number, workout_index, last_completed
			FROM routine_cursor
			WHERE user_id = $1;`,
		userID,
	).Scan(&cursor.RoutineID, &cursor.WeekNumber, &cursor.DayNumber, &cursor.WorkoutIndex, &cursor.LastCompleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCursorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

// SaveCursor upserts the user's cursor position.
func (r *Repo) SaveCursor(ctx context.Context, userID int, cursor Cursor) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.saveCursor")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO routine_cursor (user_id, routine_id, week_number, day_number, workout_index, last_completed)
			VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			routine_id = EXCLUDED.routine_id,
			week_number = EXCLUDED.week_number,
			day_number = EXCLUDED.day_number,
			workout_index = EXCLUDED.workout_index,
			last_completed = EXCLUDED.last_completed;`,
		userID, cursor.RoutineID, cursor.WeekNumber, cursor.DayNumber, cursor.WorkoutIndex, cursor.LastCompleted,
	)
	return err
}
