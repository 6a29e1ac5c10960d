package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const defaultMaxRetries = 5

var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

type shortlinkRepository interface {
	Exists(ctx context.Context, shortURL string) (bool, error)
	Save(ctx context.Context, link *entity.Shortlink) (*entity.Shortlink, error)
	RetrieveAndIncrement(ctx context.Context, shortURL string) (string, error)
	RetrieveByKey(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error)
	Remove(ctx context.Context, shortURL, adminKey string) error
}

type codeGenerator interface {
	ShortCode() (string, error)
	AdminKey() (string, error)
}

type Option func(*ShortlinkUseCase)

// WithMaxRetries bounds the number of generated short codes tried before giving up.
func WithMaxRetries(n int) Option {
	return func(uc *ShortlinkUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *ShortlinkUseCase) {
		uc.now = now
	}
}

type ShortlinkUseCase struct {
	repo       shortlinkRepository
	gen        codeGenerator
	maxRetries int
	now        func() time.Time
}

func New(repo shortlinkRepository, gen codeGenerator, opts ...Option) *ShortlinkUseCase {
	uc := &ShortlinkUseCase{
		repo:       repo,
		gen:        gen,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Create stores a new shortlink for fullURL. When shortURL is nil a code is
// generated; otherwise the requested code is used and must be free.
// The returned shortlink is the only place the admin key is handed out unprompted.
func (uc *ShortlinkUseCase) Create(ctx context.Context, fullURL string, shortURL *string) (*entity.Shortlink, error) {
	const op = "usecase.ShortlinkUseCase.Create"

	if strings.TrimSpace(fullURL) == "" {
		return nil, fmt.Errorf("%s: no full url provided: %w", op, entity.ErrInvalidInput)
	}

	if shortURL != nil && *shortURL == "" {
		return nil, fmt.Errorf("%s: empty short url requested: %w", op, entity.ErrInvalidInput)
	}

	if shortURL != nil && entity.IsReservedShortURL(*shortURL) {
		return nil, fmt.Errorf("%s: reserved short url requested: %w", op, entity.ErrInvalidInput)
	}

	adminKey, err := uc.gen.AdminKey()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate admin key: %w", op, err)
	}

	link := &entity.Shortlink{
		FullURL:   fullURL,
		AdminKey:  adminKey,
		CreatedAt: uc.now().Unix(),
	}

	if shortURL != nil {
		link.ShortURL = *shortURL

		saved, err := uc.repo.Save(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to save shortlink: %w", op, err)
		}

		return saved, nil
	}

	for i := 0; i < uc.maxRetries; i++ {
		code, err := uc.gen.ShortCode()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		// Would be shadowed by a fixed route and never resolve.
		if entity.IsReservedShortURL(code) {
			continue
		}

		exists, err := uc.repo.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to check short code: %w", op, err)
		}
		if exists {
			continue
		}

		link.ShortURL = code

		saved, err := uc.repo.Save(ctx, link)
		if err != nil {
			// Lost a race with a concurrent creator.
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to save shortlink: %w", op, err)
		}

		return saved, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Resolve returns the full URL behind shortURL and counts the access.
func (uc *ShortlinkUseCase) Resolve(ctx context.Context, shortURL string) (string, error) {
	const op = "usecase.ShortlinkUseCase.Resolve"

	fullURL, err := uc.repo.RetrieveAndIncrement(ctx, shortURL)
	if err != nil {
		return "", fmt.Errorf("%s: failed to resolve short url: %w", op, err)
	}

	return fullURL, nil
}

func (uc *ShortlinkUseCase) GetStats(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error) {
	const op = "usecase.ShortlinkUseCase.GetStats"

	link, err := uc.authorize(ctx, shortURL, adminKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// Delete removes the shortlink, freeing shortURL for reuse.
func (uc *ShortlinkUseCase) Delete(ctx context.Context, shortURL, adminKey string) error {
	const op = "usecase.ShortlinkUseCase.Delete"

	if _, err := uc.authorize(ctx, shortURL, adminKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.repo.Remove(ctx, shortURL, adminKey); err != nil {
		return fmt.Errorf("%s: failed to delete shortlink: %w", op, err)
	}

	return nil
}

func (uc *ShortlinkUseCase) authorize(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error) {
	if shortURL == "" || adminKey == "" {
		return nil, entity.ErrUnauthorized
	}

	link, err := uc.repo.RetrieveByKey(ctx, shortURL, adminKey)
	if err != nil {
		if errors.Is(err, entity.ErrShortlinkNotFound) {
			return nil, entity.ErrUnauthorized
		}

		return nil, fmt.Errorf("failed to retrieve shortlink: %w", err)
	}

	return link, nil
}
