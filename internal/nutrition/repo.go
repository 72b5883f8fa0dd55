package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEntryNotFound = errors.New("food entry not found")
	ErrEntryExists   = errors.New("food entry for that day already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry FoodEntry) (_ *FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	itemsJson, err := json.Marshal(entry.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal food items: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO food_entry (user_id, entry_date, items)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		entry.UserID, entry.Date, itemsJson,
	).Scan(&entry.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEntryExists
		}
		return nil, fmt.Errorf("insert food entry: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", entry.ID))
	return &entry, nil
}

// Save rewrites the user's food log for the entry's day in one statement,
// creating the day row when it does not exist yet.
func (r *Repo) Save(ctx context.Context, entry FoodEntry) (_ *FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	itemsJson, err := json.Marshal(entry.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal food items: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO food_entry (user_id, entry_date, items)
			VALUES ($1, $2, $3)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			items = EXCLUDED.items
		RETURNING id;`,
		entry.UserID, entry.Date, itemsJson,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("save food entry: %w", err)
	}

	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, userID int, date time.Time) (_ *FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entry FoodEntry
	var itemsJson []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, entry_date, items
			FROM food_entry
			WHERE user_id = $1 AND entry_date = $2;`,
		userID, date,
	).Scan(&entry.ID, &entry.UserID, &entry.Date, &itemsJson)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJson, &entry.Items); err != nil {
		return nil, fmt.Errorf("unmarshal food items: %w", err)
	}
	return &entry, nil
}

// ListRange returns the user's food entries with entry_date in [from, to],
// ordered by date ascending.
func (r *Repo) ListRange(ctx context.Context, userID int, from, to time.Time) (_ []FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.listRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, entry_date, items
			FROM food_entry
			WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
			ORDER BY entry_date ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var entries []FoodEntry
	for rows.Next() {
		var entry FoodEntry
		var itemsJson []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Date, &itemsJson); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(itemsJson, &entry.Items); err != nil {
			return nil, fmt.Errorf("unmarshal food items: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return entries, nil
}

func (r *Repo) Delete(ctx context.Context, userID int, date time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM food_entry WHERE user_id = $1 AND entry_date = $2;`,
		userID, date,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
