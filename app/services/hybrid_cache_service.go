package services

import (
	"context"
	"errors"

	"github.com/address-normalizer/app/models"
	"go.uber.org/zap"
)

// HybridCacheService LRU in-process (L1) đứng trước một cache chia sẻ (L2, thường là Redis)
type HybridCacheService struct {
	local  *MemoryCacheService // L1 - nhanh, theo tiến trình
	shared ICacheService       // L2 - chia sẻ giữa các instance
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(local *MemoryCacheService, shared ICacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{local: local, shared: shared, logger: logger}
}

// Get thử L1 trước. Hit ở L2 được chép lên L1. Lỗi L2 được coi như miss.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.NormalizationResult, bool, error) {
	if result, found, _ := hcs.local.Get(ctx, key); found {
		return result, true, nil
	}

	result, found, err := hcs.shared.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("Lỗi cache L2, coi như miss", zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	_ = hcs.local.Set(ctx, key, result)
	hcs.logger.Debug("L2 cache hit", zap.String("key", key))
	return result, true, nil
}

// Set lưu vào cả hai tầng
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.NormalizationResult) error {
	_ = hcs.local.Set(ctx, key, result)
	if err := hcs.shared.Set(ctx, key, result); err != nil {
		hcs.logger.Warn("Lỗi lưu vào cache L2", zap.Error(err))
		return err
	}
	return nil
}

// Delete xóa key khỏi cả hai tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return errors.Join(hcs.local.Delete(ctx, key), hcs.shared.Delete(ctx, key))
}

// Clear xóa toàn bộ cả hai tầng
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := errors.Join(hcs.local.Clear(ctx), hcs.shared.Clear(ctx)); err != nil {
		return err
	}
	hcs.logger.Info("Cleared hybrid cache")
	return nil
}

// GetStats cộng dồn hit/miss của hai tầng. L2 lỗi thì chỉ trả về L1.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	localStats, _ := hcs.local.GetStats(ctx)
	sharedStats, err := hcs.shared.GetStats(ctx)
	if err != nil {
		hcs.logger.Warn("Không lấy được thống kê cache L2", zap.Error(err))
		return localStats, nil
	}

	hits := localStats.TotalHits + sharedStats.TotalHits
	misses := sharedStats.TotalMiss
	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: sharedStats.TotalItems,
	}, nil
}

// Close đóng cả hai tầng
func (hcs *HybridCacheService) Close() error {
	return errors.Join(hcs.local.Close(), hcs.shared.Close())
}
