package user

import (
	"context"
	"errors"
	"strings"

	"hotelmart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const userColumns = `id::text, last_name, room_number, password_hash, is_admin, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (last_name, room_number, password_hash, is_admin)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, u.LastName, strings.TrimSpace(u.RoomNumber), u.PasswordHash, u.IsAdmin))
}

func (r *postgresRepo) GetByRoomNumber(ctx context.Context, roomNumber string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE room_number = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(roomNumber)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1::uuid LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.LastName, &u.RoomNumber, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).Error("user repo: scan")
		return nil, err
	}
	return &u, nil
}
