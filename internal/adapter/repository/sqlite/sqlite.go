// Package sqlite implements the shortlink repository on top of a local SQLite
// database file. It is meant for development and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func isUniqueViolationError(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Extended result codes disabled.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	default:
		return false
	}
}

type shortlinkRow struct {
	FullURL     string `db:"full_url"`
	ShortURL    string `db:"short_url"`
	AdminKey    string `db:"admin_key"`
	CreatedAt   int64  `db:"created_at"`
	AccessCount int64  `db:"access_count"`
}

func (s *shortlinkRow) toEntity() *entity.Shortlink {
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
	const op = "adapter.repository.sqlite.ShortlinkRepository.Exists"
	const query = `SELECT EXISTS (SELECT 1 FROM shortlinks WHERE short_url = ?)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, shortURL); err != nil {
		return false, fmt.Errorf("%s: failed to query shortlinks table: %w", op, err)
	}

	return exists, nil
}

func (r *ShortlinkRepository) Save(ctx context.Context, link *entity.Shortlink) (*entity.Shortlink, error) {
	const op = "adapter.repository.sqlite.ShortlinkRepository.Save"
	const query = `INSERT INTO shortlinks(full_url, short_url, admin_key, created_at, access_count)
		VALUES (?, ?, ?, ?, ?)
		RETURNING full_url, short_url, admin_key, created_at, access_count`

	var saved shortlinkRow

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

func (r *ShortlinkRepository) RetrieveAndIncrement(ctx context.Context, shortURL string) (string, error) {
	const op = "adapter.repository.sqlite.ShortlinkRepository.RetrieveAndIncrement"
	const query = `UPDATE shortlinks SET access_count = access_count + 1 WHERE short_url = ? RETURNING full_url`

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
	const op = "adapter.repository.sqlite.ShortlinkRepository.RetrieveByKey"
	const query = `SELECT full_url, short_url, admin_key, created_at, access_count
		FROM shortlinks WHERE short_url = ? AND admin_key = ?`

	var link shortlinkRow

	if err := r.db.GetContext(ctx, &link, query, shortURL, adminKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortlinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from shortlinks table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *ShortlinkRepository) Remove(ctx context.Context, shortURL, adminKey string) error {
	const op = "adapter.repository.sqlite.ShortlinkRepository.Remove"
	const query = `DELETE FROM shortlinks WHERE short_url = ? AND admin_key = ?`

	if _, err := r.db.ExecContext(ctx, query, shortURL, adminKey); err != nil {
		return fmt.Errorf("%s: failed to delete from shortlinks table: %w", op, err)
	}

	return nil
}
