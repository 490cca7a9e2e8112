package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/withonly-sujal/bloodbank-api/pkg/errors"
)

func jsonEncode(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func jsonDecode(data []byte, dest interface{}) error {
	return json.Unmarshal(data, dest)
}

type mockDashboardRepo struct {
	donors int
	bags   int
	calls  int
}

func (m *mockDashboardRepo) DonorCount(ctx context.Context) (int, error) {
	m.calls++
	return m.donors, nil
}

func (m *mockDashboardRepo) AvailableBagCount(ctx context.Context) (int, error) {
	return m.bags, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if _, ok := m.entries[key]; !ok {
		return appErrors.ErrCacheMiss
	}
	return jsonDecode(m.entries[key], dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	data, err := jsonEncode(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = make(map[string][]byte)
	return nil
}

func TestDashboardServiceStats(t *testing.T) {
	repo := &mockDashboardRepo{donors: 12, bags: 30}
	svc := NewDashboardService(repo, nil, nil, DashboardServiceConfig{})

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, stats.DonorCount)
	assert.Equal(t, 30, stats.StockCount)
}

func TestDashboardServiceStatsCached(t *testing.T) {
	repo := &mockDashboardRepo{donors: 12, bags: 30}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil, DashboardServiceConfig{})

	_, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 12, stats.DonorCount)
	assert.Equal(t, 1, repo.calls)
}
