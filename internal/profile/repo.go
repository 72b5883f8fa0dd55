package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const profileColumns = `
	id, username, distance_unit, weight_unit, body_weight, body_fat,
	auto_update_five_rep_max, show_rest_timer, show_workout_timer, first_weekday,
	created_at`

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	row := r.db.QueryRow(
		ctx,
		`SELECT `+profileColumns+` FROM user_profile WHERE id = $1;`,
		userID,
	)
	return r.scanProfile(row)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	row := r.db.QueryRow(
		ctx,
		`SELECT `+profileColumns+` FROM user_profile WHERE username = $1;`,
		username,
	)
	return r.scanProfile(row)
}

func (r *Repo) Add(ctx context.Context, p Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO user_profile
			(username, distance_unit, weight_unit, body_weight, body_fat,
			auto_update_five_rep_max, show_rest_timer, show_workout_timer, first_weekday, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;`,
		p.Username, p.DistanceUnit, p.WeightUnit, p.BodyWeight, p.BodyFat,
		p.Settings.AutoUpdateFiveRepMax, p.Settings.ShowRestTimer, p.Settings.ShowWorkoutTimer,
		p.Settings.FirstWeekday, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", p.ID))
	return &p, nil
}

// GetCredentials returns the user ID and stored password hash for the
// given username, for login checks. An unknown username is not an
// error, it comes back with found == false.
func (r *Repo) GetCredentials(ctx context.Context, username string) (userID int, passwordHash string, found bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.getCredentials")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`SELECT id, password_hash FROM user_profile WHERE username = $1;`,
		username,
	).Scan(&userID, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}
	return userID, passwordHash, true, nil
}

// SetPassword stores a new bcrypt hash for the user.
func (r *Repo) SetPassword(ctx context.Context, userID int, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.setPassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE user_profile SET password_hash = $1 WHERE id = $2;`,
		passwordHash, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateBodyComposition writes the body weight and body fat values coming
// from the latest weight entry. This is the only write path for those
// two profile fields.
func (r *Repo) UpdateBodyComposition(ctx context.Context, userID int, bodyWeight, bodyFat float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.updateBodyComposition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE user_profile SET body_weight = $1, body_fat = $2 WHERE id = $3;`,
		bodyWeight, bodyFat, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *Repo) UpdateSettings(ctx context.Context, userID int, s Settings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.updateSettings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE user_profile SET
			auto_update_five_rep_max = $1, show_rest_timer = $2,
			show_workout_timer = $3, first_weekday = $4
		WHERE id = $5;`,
		s.AutoUpdateFiveRepMax, s.ShowRestTimer, s.ShowWorkoutTimer, s.FirstWeekday, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *Repo) UpdateUnits(ctx context.Context, userID int, distanceUnit, weightUnit string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.updateUnits")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE user_profile SET distance_unit = $1, weight_unit = $2 WHERE id = $3;`,
		distanceUnit, weightUnit, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *Repo) scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.Username, &p.DistanceUnit, &p.WeightUnit, &p.BodyWeight, &p.BodyFat,
		&p.Settings.AutoUpdateFiveRepMax, &p.Settings.ShowRestTimer, &p.Settings.ShowWorkoutTimer,
		&p.Settings.FirstWeekday, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
