package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors the handlers translate into user-visible responses.
var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("already exists")
)

// userStore persists accounts.
type userStore interface {
	createUser(ctx context.Context, u *user) error
	getUserByUsername(ctx context.Context, username string) (user, error)
}

// recordStore persists health records. Every read and write is scoped to the
// owning user; a mismatched id/user pair surfaces as errNotFound, never as
// another user's data.
type recordStore interface {
	createRecord(ctx context.Context, rec healthRecord) (healthRecord, error)
	getRecordForUser(ctx context.Context, id int64, userID string) (healthRecord, error)
	listRecordsForUser(ctx context.Context, userID string) ([]healthRecord, error)
	updateRecord(ctx context.Context, rec healthRecord) (healthRecord, error)
	deleteRecordForUser(ctx context.Context, id int64, userID string) error
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* ─── Postgres implementation ────────────────────────────────────────── */

// pgStore implements userStore and recordStore over a pgx connection pool.
type pgStore struct {
	pool *pgxpool.Pool
}

func newPGStore(pool *pgxpool.Pool) *pgStore {
	return &pgStore{pool: pool}
}

func (s *pgStore) createUser(ctx context.Context, u *user) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash)
		 VALUES (@id, @username, @passwordHash)
		 RETURNING created_at`,
		pgx.NamedArgs{"id": u.ID, "username": u.Username, "passwordHash": u.PasswordHash},
	).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("username %q: %w", u.Username, errDuplicate)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *pgStore) getUserByUsername(ctx context.Context, username string) (user, error) {
	u, err := queryOne[user](ctx, s.pool,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if errors.Is(err, pgx.ErrNoRows) {
		return user{}, errNotFound
	}
	if err != nil {
		return user{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *pgStore) createRecord(ctx context.Context, rec healthRecord) (healthRecord, error) {
	created, err := queryOne[healthRecord](ctx, s.pool,
		`INSERT INTO health_records (user_id, gender, weight_kg, height_cm, bmi, calories, steps, speed_kmh)
		 VALUES (@userID, @gender, @weightKG, @heightCM, @bmi, @calories, @steps, @speedKMH)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": rec.UserID, "gender": rec.Gender,
			"weightKG": rec.WeightKG, "heightCM": rec.HeightCM,
			"bmi": rec.BMI, "calories": rec.Calories,
			"steps": rec.Steps, "speedKMH": rec.SpeedKMH,
		})
	if err != nil {
		return healthRecord{}, fmt.Errorf("create record: %w", err)
	}
	return created, nil
}

func (s *pgStore) getRecordForUser(ctx context.Context, id int64, userID string) (healthRecord, error) {
	rec, err := queryOne[healthRecord](ctx, s.pool,
		"SELECT * FROM health_records WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return healthRecord{}, errNotFound
	}
	if err != nil {
		return healthRecord{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (s *pgStore) listRecordsForUser(ctx context.Context, userID string) ([]healthRecord, error) {
	records, err := queryMany[healthRecord](ctx, s.pool,
		`SELECT * FROM health_records
		 WHERE user_id = @userID
		 ORDER BY created_at ASC, id ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// updateRecord overwrites all user-editable fields and both derived fields.
// created_at is deliberately not in the SET list — it is immutable.
func (s *pgStore) updateRecord(ctx context.Context, rec healthRecord) (healthRecord, error) {
	updated, err := queryOne[healthRecord](ctx, s.pool,
		`UPDATE health_records SET
			gender    = @gender,
			weight_kg = @weightKG,
			height_cm = @heightCM,
			bmi       = @bmi,
			calories  = @calories,
			steps     = @steps,
			speed_kmh = @speedKMH
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": rec.ID, "userID": rec.UserID, "gender": rec.Gender,
			"weightKG": rec.WeightKG, "heightCM": rec.HeightCM,
			"bmi": rec.BMI, "calories": rec.Calories,
			"steps": rec.Steps, "speedKMH": rec.SpeedKMH,
		})
	if errors.Is(err, pgx.ErrNoRows) {
		return healthRecord{}, errNotFound
	}
	if err != nil {
		return healthRecord{}, fmt.Errorf("update record: %w", err)
	}
	return updated, nil
}

func (s *pgStore) deleteRecordForUser(ctx context.Context, id int64, userID string) error {
	result, err := s.pool.Exec(ctx,
		"DELETE FROM health_records WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}
