package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type shortlinkDB struct {
	FullURL     string `db:"full_url"`
	ShortURL    string `db:"short_url"`
	AdminKey    string `db:"admin_key"`
	CreatedAt   int64  `db:"created_at"`
	AccessCount int64  `db:"access_count"`
}

func (s *shortlinkDB) toEntity() *entity.Shortlink {
	return &entity.Shortlink{
		FullURL:     s.FullURL,
		ShortURL:    s.ShortURL,
		AdminKey:    s.AdminKey,
		CreatedAt:   s.CreatedAt,
		AccessCount: s.AccessCount,
	}
}

type ShortlinkRepository struct {
	db *sqlx.DB
}

func NewShortlinkRepository(db *sqlx.DB) *ShortlinkRepository {
	return &ShortlinkRepository{db: db}
}

func (r *ShortlinkRepository) Exists(ctx context.Context, shortURL string) (bool, error) {
	const op = "adapter.repository.postgres.ShortlinkRepository.Exists"
	const query = `SELECT EXISTS (SELECT 1 FROM shortlinks WHERE short_url = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, shortURL); err != nil {
		return false, fmt.Errorf("%s: failed to query shortlinks table: %w", op, err)
	}

	return exists, nil
}

func (r *ShortlinkRepository) Save(ctx context.Context, link *entity.Shortlink) (*entity.Shortlink, error) {
	const op = "adapter.repository.postgres.ShortlinkRepository.Save"
	const query = `INSERT INTO shortlinks(full_url, short_url, admin_key, created_at, access_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	var saved shortlinkDB

	err := r.db.GetContext(ctx, &saved, query,
		link.FullURL, link.ShortURL, link.AdminKey, link.CreatedAt, link.AccessCount)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into shortlinks table: %w", op, err)
	}

	return saved.toEntity(), nil
}

// RetrieveAndIncrement returns the full URL and bumps access_count in one statement.
func (r *ShortlinkRepository) RetrieveAndIncrement(ctx context.Context, shortURL string) (string, error) {
	const op = "adapter.repository.postgres.ShortlinkRepository.RetrieveAndIncrement"
	const query = `UPDATE shortlinks SET access_count = access_count + 1 WHERE short_url = $1 RETURNING full_url`

	var fullURL string

	if err := r.db.GetContext(ctx, &fullURL, query, shortURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrShortlinkNotFound)
		}

		return "", fmt.Errorf("%s: failed to update shortlinks table row: %w", op, err)
	}

	return fullURL, nil
}

func (r *ShortlinkRepository) RetrieveByKey(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error) {
	const op = "adapter.repository.postgres.ShortlinkRepository.RetrieveByKey"
	const query = `SELECT * FROM shortlinks WHERE short_url = $1 AND admin_key = $2`

	var link shortlinkDB

	if err := r.db.GetContext(ctx, &link, query, shortURL, adminKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortlinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from shortlinks table: %w", op, err)
	}

	return link.toEntity(), nil
}

// Remove deletes the shortlink matching both values. Removing nothing is not an error.
func (r *ShortlinkRepository) Remove(ctx context.Context, shortURL, adminKey string) error {
	const op = "adapter.repository.postgres.ShortlinkRepository.Remove"
	const query = `DELETE FROM shortlinks WHERE short_url = $1 AND admin_key = $2`

	if _, err := r.db.ExecContext(ctx, query, shortURL, adminKey); err != nil {
		return fmt.Errorf("%s: failed to delete from shortlinks table: %w", op, err)
	}

	return nil
}
