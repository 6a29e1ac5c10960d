package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type MockShortlinkUseCase struct {
	mock.Mock
}

func NewMockShortlinkUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockShortlinkUseCase {
	m := &MockShortlinkUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockShortlinkUseCase) Create(ctx context.Context, fullURL string, shortURL *string) (*entity.Shortlink, error) {
	args := m.Called(ctx, fullURL, shortURL)

	link, _ := args.Get(0).(*entity.Shortlink)
	return link, args.Error(1)
}

func (m *MockShortlinkUseCase) Resolve(ctx context.Context, shortURL string) (string, error) {
	args := m.Called(ctx, shortURL)
	return args.String(0), args.Error(1)
}

func (m *MockShortlinkUseCase) GetStats(ctx context.Context, shortURL, adminKey string) (*entity.Shortlink, error) {
	args := m.Called(ctx, shortURL, adminKey)

	link, _ := args.Get(0).(*entity.Shortlink)
	return link, args.Error(1)
}

func (m *MockShortlinkUseCase) Delete(ctx context.Context, shortURL, adminKey string) error {
	args := m.Called(ctx, shortURL, adminKey)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
