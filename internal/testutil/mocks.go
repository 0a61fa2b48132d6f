package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/stretchr/testify/mock"
)

// VerifyAllMocks asserts the expectations of every mock passed in.
func VerifyAllMocks(t *testing.T, mocks ...any) {
	t.Helper()

	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(mock.TestingT) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// MockSearchCache implements cache.SearchCache.
type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1), args.Error(2)
}

func (m *MockSearchCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockSearchCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockChampionRepository implements repository.ChampionRepository.
type MockChampionRepository struct {
	mock.Mock
}

func (m *MockChampionRepository) Get(ctx context.Context, identifier string) (*domain.Champion, error) {
	args := m.Called(ctx, identifier)
	champion, _ := args.Get(0).(*domain.Champion)
	return champion, args.Error(1)
}

func (m *MockChampionRepository) All(ctx context.Context) ([]*domain.Champion, error) {
	args := m.Called(ctx)
	champions, _ := args.Get(0).([]*domain.Champion)
	return champions, args.Error(1)
}

// MockCatalogWriter implements repository.CatalogWriter.
type MockCatalogWriter struct {
	mock.Mock
}

func (m *MockCatalogWriter) UpsertEntries(ctx context.Context, entries []*domain.CatalogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockCatalogWriter) Count(ctx context.Context, kind domain.CatalogKind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}
