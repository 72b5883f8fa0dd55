package bodyweight

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

var ErrEntryNotFound = errors.New("weight entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Save writes the user's measurement for the entry's day, replacing any
// existing one.
func (r *Repo) Save(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO weight_entry (user_id, entry_date, body_weight, body_fat)
			VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			body_weight = EXCLUDED.body_weight,
			body_fat = EXCLUDED.body_fat
		RETURNING id;`,
		entry.UserID, entry.Date, entry.BodyWeight, entry.BodyFat,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("save weight entry: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", entry.ID))
	return &entry, nil
}

// Latest returns the user's most recent measurement by entry date.
func (r *Repo) Latest(ctx context.Context, userID int) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var entry Entry
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, entry_date, body_weight, body_fat
			FROM weight_entry
			WHERE user_id = $1
			ORDER BY entry_date DESC
			LIMIT 1;`,
		userID,
	).Scan(&entry.ID, &entry.UserID, &entry.Date, &entry.BodyWeight, &entry.BodyFat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRange returns measurements with entry_date in [from, to], ordered
// by date ascending.
func (r *Repo) ListRange(ctx context.Context, userID int, from, to time.Time) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.listRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, entry_date, body_weight, body_fat
			FROM weight_entry
			WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
			ORDER BY entry_date ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Date, &entry.BodyWeight, &entry.BodyFat); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return entries, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.bodyweight.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM weight_entry WHERE id = $1 AND user_id = $2;`,
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
