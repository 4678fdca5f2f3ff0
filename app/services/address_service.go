package services

import (
	"context"
	"time"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/parser"
	"go.uber.org/zap"
)

// AddressService nối parser với cache kết quả và bulk job
type AddressService struct {
	parser      *parser.AddressParser
	cache       ICacheService
	bulk        *BulkService
	dataVersion string
	logger      *zap.Logger
	startTime   time.Time
}

// AddressServiceConfig cấu hình AddressService
type AddressServiceConfig struct {
	DataVersion string // thành phần của khóa cache, đổi khi nạp lại dữ liệu tham chiếu
	Jobs        JobStoreConfig
}

// NewAddressService tạo mới AddressService. cache có thể nil.
func NewAddressService(p *parser.AddressParser, cache ICacheService, config AddressServiceConfig, logger *zap.Logger) *AddressService {
	as := &AddressService{
		parser:      p,
		cache:       cache,
		dataVersion: config.DataVersion,
		logger:      logger,
		startTime:   time.Now(),
	}
	as.bulk = NewBulkService(NewMemoryJobStore(config.Jobs), as, logger)
	return as
}

// Normalize implements Normalizer
func (as *AddressService) Normalize(ctx context.Context, raw string, skipAI bool) *models.NormalizationResult {
	result, _ := as.NormalizeAddress(ctx, raw, skipAI)
	return result
}

// NormalizeAddress chuẩn hóa một địa chỉ, đọc/ghi cache. Chỉ kết quả thành công được cache.
func (as *AddressService) NormalizeAddress(ctx context.Context, raw string, skipAI bool) (*models.NormalizationResult, bool) {
	key := CacheKey(as.dataVersion, skipAI, raw)
	if as.cache != nil {
		cached, found, err := as.cache.Get(ctx, key)
		if err != nil {
			as.logger.Warn("Lỗi đọc cache", zap.Error(err))
		} else if found {
			return cached, true
		}
	}

	result := as.parser.Normalize(ctx, raw, parser.NormalizeOptions{SkipAI: skipAI})

	if as.cache != nil && result.Success {
		if err := as.cache.Set(ctx, key, result); err != nil {
			as.logger.Warn("Lỗi ghi cache", zap.Error(err))
		}
	}
	return result, false
}

// Search tìm ứng viên
func (as *AddressService) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	return as.parser.Search(ctx, query, limit)
}

// Details các đơn vị con của một bản ghi
func (as *AddressService) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	return as.parser.Details(ctx, mgmtNo)
}

// StartJob khởi chạy bulk job
func (as *AddressService) StartJob(rows []string, skipAI bool) (JobStatus, error) {
	return as.bulk.Start(rows, skipAI)
}

// RunJob chạy bulk job đồng bộ
func (as *AddressService) RunJob(rows []string, skipAI bool) (JobStatus, []*models.NormalizationResult, error) {
	status, err := as.bulk.Run(rows, skipAI)
	if err != nil {
		return JobStatus{}, nil, err
	}
	results, err := as.bulk.Results(status.JobID)
	return status, results, err
}

// GetJobStatus lấy trạng thái job
func (as *AddressService) GetJobStatus(jobID string) (JobStatus, error) {
	return as.bulk.Status(jobID)
}

// GetJobResults lấy kết quả job
func (as *AddressService) GetJobResults(jobID string) ([]*models.NormalizationResult, error) {
	return as.bulk.Results(jobID)
}

// GetJobResultsStream lấy kết quả job dưới dạng channel để stream
func (as *AddressService) GetJobResultsStream(ctx context.Context, jobID string) (<-chan *models.NormalizationResult, error) {
	return as.bulk.ResultsStream(ctx, jobID)
}

// CancelJob yêu cầu dừng job
func (as *AddressService) CancelJob(jobID string) error {
	return as.bulk.Cancel(jobID)
}

// JobCount số job đang giữ
func (as *AddressService) JobCount() int {
	return as.bulk.jobs.Len()
}

// Count số bản ghi tham chiếu
func (as *AddressService) Count(ctx context.Context) (int64, error) {
	return as.parser.Count(ctx)
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}
