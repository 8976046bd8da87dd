package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoestudio/enroll-api/internal/models"
	appErrors "github.com/yoestudio/enroll-api/pkg/errors"
)

type mockGroupLister struct {
	groups []models.Group
	err    error
	calls  int
}

func (m *mockGroupLister) List(ctx context.Context) ([]models.Group, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func TestCatalogServiceListDerivesAvailability(t *testing.T) {
	repo := &mockGroupLister{groups: []models.Group{
		{ID: "ucr_una_1_3", SeatCapacity: 6, SeatsOccupied: 2},
		{ID: "ucr_una_tec_10_12", SeatCapacity: 6, SeatsOccupied: 6},
	}}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 4, views[0].SeatsAvailable)
	assert.Equal(t, 0, views[1].SeatsAvailable)
}

func TestCatalogServiceListUsesCache(t *testing.T) {
	repo := &mockGroupLister{groups: []models.Group{{ID: "ucr_una_1_3", SeatCapacity: 6}}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewCatalogService(repo, cache, zap.NewNop())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestCatalogServiceInvalidateDropsCache(t *testing.T) {
	repo := &mockGroupLister{groups: []models.Group{{ID: "ucr_una_1_3", SeatCapacity: 6}}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewCatalogService(repo, cache, zap.NewNop())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestCatalogServiceListRepositoryError(t *testing.T) {
	repo := &mockGroupLister{err: errors.New("db down")}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceInvalidateNilSafe(t *testing.T) {
	var svc *CatalogService
	svc.Invalidate(context.Background())
}
