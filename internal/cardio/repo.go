package cardio

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

var ErrEntryNotFound = errors.New("cardio entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.cardio.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO cardio_entry (user_id, started_at, duration_seconds, distance)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		entry.UserID, entry.StartedAt, entry.DurationSeconds, entry.Distance,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("insert cardio entry: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", entry.ID))
	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.cardio.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entry.id", id))

	var entry Entry
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, started_at, duration_seconds, distance
			FROM cardio_entry
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.StartedAt, &entry.DurationSeconds, &entry.Distance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.cardio.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("entry.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM cardio_entry WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListRange returns the user's entries whose start instant falls within
// [from, to], oldest first.
func (r *Repo) ListRange(ctx context.Context, userID int, from, to time.Time) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.cardio.listRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("from", from.String()))
	span.SetAttributes(attribute.String("to", to.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, started_at, duration_seconds, distance
			FROM cardio_entry
			WHERE user_id = $1 AND started_at >= $2 AND started_at <= $3
		ORDER BY started_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.StartedAt, &e.DurationSeconds, &e.Distance); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if entries == nil {
		entries = make([]Entry, 0)
	}
	return entries, nil
}
