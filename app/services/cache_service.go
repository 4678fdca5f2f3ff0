package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/address-normalizer/app/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCacheService cache in-memory dạng LRU có TTL
type MemoryCacheService struct {
	cache  *expirable.LRU[string, *models.NormalizationResult]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCacheService tạo mới MemoryCacheService. ttl <= 0 nghĩa là không hết hạn.
func NewMemoryCacheService(size int, ttl time.Duration) *MemoryCacheService {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCacheService{
		cache: expirable.NewLRU[string, *models.NormalizationResult](size, nil, ttl),
	}
}

// Get lấy kết quả từ cache
func (cs *MemoryCacheService) Get(_ context.Context, key string) (*models.NormalizationResult, bool, error) {
	result, ok := cs.cache.Get(key)
	if !ok {
		cs.misses.Add(1)
		return nil, false, nil
	}
	cs.hits.Add(1)
	return result, true, nil
}

// Set lưu kết quả vào cache
func (cs *MemoryCacheService) Set(_ context.Context, key string, result *models.NormalizationResult) error {
	cs.cache.Add(key, result)
	return nil
}

// Delete xóa item khỏi cache
func (cs *MemoryCacheService) Delete(_ context.Context, key string) error {
	cs.cache.Remove(key)
	return nil
}

// Clear xóa toàn bộ cache
func (cs *MemoryCacheService) Clear(_ context.Context) error {
	cs.cache.Purge()
	return nil
}

// GetStats lấy thống kê cache
func (cs *MemoryCacheService) GetStats(_ context.Context) (*CacheStats, error) {
	hits, misses := cs.hits.Load(), cs.misses.Load()
	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(cs.cache.Len()),
	}, nil
}

// Close không cần thiết cho in-memory cache
func (cs *MemoryCacheService) Close() error {
	return nil
}
