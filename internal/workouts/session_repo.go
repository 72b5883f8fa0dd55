package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionNotFound = errors.New("workout session not found")

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{
		db: db,
	}
}

func (r *SessionRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// AddTx inserts the session and its sets within an open transaction.
// Set order is preserved through an explicit position column.
func (r *SessionRepo) AddTx(ctx context.Context, tx pgx.Tx, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", session.UserID))

	var templateID *int
	if session.TemplateID > 0 {
		templateID = &session.TemplateID
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_session (user_id, template_id, session_date, total_time_seconds)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		session.UserID, templateID, session.Date, session.TotalTimeSeconds,
	).Scan(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("insert workout session: %w", err)
	}

	for i := range session.Sets {
		set := &session.Sets[i]
		err = tx.QueryRow(
			ctx,
			`INSERT INTO workout_set (session_id, position, exercise, weight, reps)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
			session.ID, i, set.Exercise, set.Weight, set.Reps,
		).Scan(&set.ID)
		if err != nil {
			return nil, fmt.Errorf("insert workout set %d: %w", i, err)
		}
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))
	return &session, nil
}

func (r *SessionRepo) Get(ctx context.Context, userID, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	var session Session
	var templateID *int
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, template_id, session_date, total_time_seconds
			FROM workout_session
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&session.ID, &session.UserID, &templateID, &session.Date, &session.TotalTimeSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if templateID != nil {
		session.TemplateID = *templateID
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise, weight, reps
			FROM workout_set
			WHERE session_id = $1
		ORDER BY position ASC;`,
		session.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	session.Sets = make([]Set, 0)
	for rows.Next() {
		var set Set
		if err := rows.Scan(&set.ID, &set.Exercise, &set.Weight, &set.Reps); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		session.Sets = append(session.Sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &session, nil
}

// ListDays returns the distinct days within [from, to] on which the user
// logged at least one workout session.
func (r *SessionRepo) ListDays(ctx context.Context, userID int, from, to time.Time) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.listDays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT session_date::date
			FROM workout_session
			WHERE user_id = $1 AND session_date >= $2 AND session_date <= $3
		ORDER BY 1 ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return days, nil
}

// ExerciseDailyAverages returns, for each day within [from, to] on which
// the user did the given exercise, the average set weight of that day.
// Used by the progression graphs.
func (r *SessionRepo) ExerciseDailyAverages(
	ctx context.Context,
	userID int,
	exercise string,
	from, to time.Time,
) (_ map[time.Time]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sessions.exerciseDailyAverages")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("exercise", exercise))

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.session_date::date, AVG(wset.weight)
			FROM workout_session ws
			JOIN workout_set wset ON wset.session_id = ws.id
			WHERE ws.user_id = $1 AND wset.exercise = $2
				AND ws.session_date >= $3 AND ws.session_date <= $4
		GROUP BY 1
		ORDER BY 1 ASC;`,
		userID, exercise, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	averages := make(map[time.Time]float64)
	for rows.Next() {
		var day time.Time
		var avg float64
		if err := rows.Scan(&day, &avg); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		averages[day] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return averages, nil
}
