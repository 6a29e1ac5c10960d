package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockShortlinkRepository struct {
	mock.Mock
}

func NewMockShortlinkRepository(t testingT) *MockShortlinkRepository {
	m := &MockShortlinkRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (r *MockShortlinkRepository) Exists(ctx context.Context, shortURL string) (bool, error) {
	args := r.Called(ctx, shortURL)
	return args.Bool(0), args.Error(1)
}

func (r *MockShortlinkRepository) Save(ctx context.Context, link *entity.Shortlink) (*entity.Shortlink, error) {
	args := r.Called(ctx, link)
	saved, _ := args.Get(0).(*entity.Shortlink)
	return saved, args.Error(1)
}

func (r *MockShortlinkRepository) RetrieveAndIncrement(ctx context.Context, shortURL string) (string, error) {
	args := r.Called(ctx, shortURL)
	return args.String(0), args.Error(1)
}

func (r *MockShortlinkRepository) RetrieveByKey(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error) {
	args := r.Called(ctx, shortURL, adminKey)
	link, _ := args.Get(0).(*entity.Shortlink)
	return link, args.Error(1)
}

func (r *MockShortlinkRepository) Remove(ctx context.Context, shortURL, adminKey string) error {
	args := r.Called(ctx, shortURL, adminKey)
	return args.Error(0)
}

type MockCodeGenerator struct {
	mock.Mock
}

func NewMockCodeGenerator(t testingT) *MockCodeGenerator {
	m := &MockCodeGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (g *MockCodeGenerator) ShortCode() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}

func (g *MockCodeGenerator) AdminKey() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}
