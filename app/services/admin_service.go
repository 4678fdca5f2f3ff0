package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ErrNoIndexer backend hiện tại không có index để dựng lại
var ErrNoIndexer = errors.New("store has no index to rebuild")

// Indexer backend có index dựng lại được (MeiliStore)
type Indexer interface {
	BuildIndexes() error
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	Uptime      string            `json:"uptime"`
	Records     int64             `json:"records"`
	Jobs        int               `json:"jobs"`
	DataVersion string            `json:"data_version"`
	Cache       *CacheStats       `json:"cache,omitempty"`
	MemoryUsage map[string]uint64 `json:"memory_usage"`
}

// AdminService service quản lý admin functions
type AdminService struct {
	addresses *AddressService
	cache     ICacheService
	indexer   Indexer
	logger    *zap.Logger
}

// NewAdminService tạo mới AdminService. cache và indexer có thể nil.
func NewAdminService(addresses *AddressService, cache ICacheService, indexer Indexer, logger *zap.Logger) *AdminService {
	return &AdminService{
		addresses: addresses,
		cache:     cache,
		indexer:   indexer,
		logger:    logger,
	}
}

// GetSystemStats lấy thống kê hệ thống
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	records, err := as.addresses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		Uptime:      time.Since(as.addresses.GetStartTime()).Round(time.Second).String(),
		Records:     records,
		Jobs:        as.addresses.JobCount(),
		DataVersion: as.addresses.dataVersion,
		MemoryUsage: map[string]uint64{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         uint64(m.NumGC),
		},
	}

	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			as.logger.Warn("Không lấy được thống kê cache", zap.Error(err))
		} else {
			stats.Cache = cacheStats
		}
	}
	return stats, nil
}

// ClearCache xóa cache kết quả
func (as *AdminService) ClearCache(ctx context.Context) error {
	if as.cache == nil {
		return nil
	}
	if err := as.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	as.logger.Info("Đã xóa cache kết quả")
	return nil
}

// BuildIndexes dựng lại index của store
func (as *AdminService) BuildIndexes() error {
	if as.indexer == nil {
		return ErrNoIndexer
	}
	start := time.Now()
	if err := as.indexer.BuildIndexes(); err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}
	as.logger.Info("Đã dựng lại index", zap.Duration("took", time.Since(start)))
	return nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
