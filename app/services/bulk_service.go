package services

import (
	"context"
	"time"

	"github.com/address-normalizer/app/models"
	"go.uber.org/zap"
)

// Normalizer một lượt chuẩn hóa, do AddressService cung cấp cho bulk runner
type Normalizer interface {
	Normalize(ctx context.Context, raw string, skipAI bool) *models.NormalizationResult
}

// BulkService chạy bulk job trên goroutine riêng, ghi tiến độ vào JobStore
type BulkService struct {
	jobs       JobStore
	normalizer Normalizer
	logger     *zap.Logger
}

// NewBulkService tạo mới BulkService
func NewBulkService(jobs JobStore, normalizer Normalizer, logger *zap.Logger) *BulkService {
	return &BulkService{jobs: jobs, normalizer: normalizer, logger: logger}
}

// Start đăng ký job và chạy nền. Trả về ngay với trạng thái ban đầu.
func (bs *BulkService) Start(rows []string, skipAI bool) (JobStatus, error) {
	status, err := bs.jobs.Create(len(rows), skipAI)
	if err != nil {
		return JobStatus{}, err
	}

	go bs.run(status.JobID, rows, skipAI)
	return status, nil
}

// Run chạy đồng bộ, dùng cho CLI và test. Trả về trạng thái cuối cùng.
func (bs *BulkService) Run(rows []string, skipAI bool) (JobStatus, error) {
	status, err := bs.jobs.Create(len(rows), skipAI)
	if err != nil {
		return JobStatus{}, err
	}
	bs.run(status.JobID, rows, skipAI)
	return bs.jobs.Get(status.JobID)
}

func (bs *BulkService) run(jobID string, rows []string, skipAI bool) {
	start := time.Now()
	ctx := context.Background()

	results := make([]*models.NormalizationResult, 0, len(rows))
	for i, raw := range rows {
		if bs.jobs.Cancelled(jobID) {
			bs.logger.Info("Bulk job bị hủy",
				zap.String("job_id", jobID),
				zap.Int("processed", i))
			break
		}

		results = append(results, bs.normalizer.Normalize(ctx, raw, skipAI))
		if err := bs.jobs.Update(jobID, i+1); err != nil {
			bs.logger.Warn("Không cập nhật được tiến độ job", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	if err := bs.jobs.Finish(jobID, results); err != nil {
		bs.logger.Error("Không lưu được kết quả job", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	bs.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total_addresses", len(rows)),
		zap.Int("processed", len(results)),
		zap.Duration("took", time.Since(start)))
}

// Status bản chụp trạng thái job
func (bs *BulkService) Status(jobID string) (JobStatus, error) {
	return bs.jobs.Get(jobID)
}

// Results kết quả của job. Job chưa dừng trả về nil, không lỗi.
func (bs *BulkService) Results(jobID string) ([]*models.NormalizationResult, error) {
	return bs.jobs.Results(jobID)
}

// ResultsStream kết quả job dưới dạng channel để stream. Channel đóng khi gửi hết
// hoặc khi ctx bị hủy (client ngắt kết nối), goroutine gửi không bị treo.
func (bs *BulkService) ResultsStream(ctx context.Context, jobID string) (<-chan *models.NormalizationResult, error) {
	results, err := bs.jobs.Results(jobID)
	if err != nil {
		return nil, err
	}

	ch := make(chan *models.NormalizationResult, 100)
	go func() {
		defer close(ch)
		for _, r := range results {
			if ctx.Err() != nil {
				return
			}
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Cancel yêu cầu dừng job
func (bs *BulkService) Cancel(jobID string) error {
	return bs.jobs.Cancel(jobID)
}
