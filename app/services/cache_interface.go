package services

import (
	"context"
	"strconv"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/helpers/utils"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface định nghĩa các method cần thiết cho cache kết quả chuẩn hóa
type ICacheService interface {
	// Get lấy kết quả từ cache
	Get(ctx context.Context, key string) (*models.NormalizationResult, bool, error)

	// Set lưu kết quả vào cache
	Set(ctx context.Context, key string, result *models.NormalizationResult) error

	// Delete xóa một key
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

// CacheKey khóa cache cho một lượt chuẩn hóa. Đổi dataVersion khi nạp lại dữ liệu tham chiếu.
func CacheKey(dataVersion string, skipAI bool, raw string) string {
	return utils.Fingerprint(dataVersion, strconv.FormatBool(skipAI), raw)
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
