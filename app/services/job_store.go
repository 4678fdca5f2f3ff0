package services

import (
	"errors"
	"sync"
	"time"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/helpers/utils"
)

// Trạng thái của bulk job
const (
	JobStatusRunning   = "running"
	JobStatusDone      = "done"
	JobStatusCancelled = "cancelled"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrTooManyJobs = errors.New("too many jobs")
	ErrJobFinished = errors.New("job already finished")
)

// JobStatus trạng thái của job
type JobStatus struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	SkipAI    bool      `json:"skip_ai"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished job đã dừng (xong hoặc bị hủy)
func (s JobStatus) Finished() bool {
	return s.Status == JobStatusDone || s.Status == JobStatusCancelled
}

// JobStore registry của bulk job. Mọi method an toàn khi gọi đồng thời.
type JobStore interface {
	Create(total int, skipAI bool) (JobStatus, error)
	Get(jobID string) (JobStatus, error)
	Update(jobID string, processed int) error
	Cancel(jobID string) error
	Cancelled(jobID string) bool
	Finish(jobID string, results []*models.NormalizationResult) error
	Results(jobID string) ([]*models.NormalizationResult, error)
	Len() int
}

// JobStoreConfig giới hạn của MemoryJobStore
type JobStoreConfig struct {
	TTL     time.Duration // job đã dừng quá TTL bị dọn ở lần Create kế tiếp
	MaxJobs int
}

// DefaultJobStoreConfig giá trị mặc định
func DefaultJobStoreConfig() JobStoreConfig {
	return JobStoreConfig{TTL: time.Hour, MaxJobs: 100}
}

type jobEntry struct {
	status    JobStatus
	cancelled bool
	results   []*models.NormalizationResult
}

// MemoryJobStore lưu job trong map, bảo vệ bằng một mutex duy nhất
type MemoryJobStore struct {
	mu     sync.Mutex
	jobs   map[string]*jobEntry
	config JobStoreConfig
	now    func() time.Time
}

// NewMemoryJobStore tạo mới MemoryJobStore
func NewMemoryJobStore(config JobStoreConfig) *MemoryJobStore {
	def := DefaultJobStoreConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.MaxJobs <= 0 {
		config.MaxJobs = def.MaxJobs
	}
	return &MemoryJobStore{
		jobs:   make(map[string]*jobEntry),
		config: config,
		now:    time.Now,
	}
}

// Create đăng ký job mới ở trạng thái running
func (s *MemoryJobStore) Create(total int, skipAI bool) (JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if len(s.jobs) >= s.config.MaxJobs {
		return JobStatus{}, ErrTooManyJobs
	}

	status := JobStatus{
		JobID:     utils.GenerateJobID(),
		Status:    JobStatusRunning,
		Total:     total,
		SkipAI:    skipAI,
		Message:   "Đang xử lý...",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[status.JobID] = &jobEntry{status: status}
	return status, nil
}

// sweepLocked dọn các job đã dừng và quá TTL. Job đang chạy không bao giờ bị dọn.
func (s *MemoryJobStore) sweepLocked(now time.Time) {
	for id, e := range s.jobs {
		if e.status.Finished() && now.Sub(e.status.UpdatedAt) > s.config.TTL {
			delete(s.jobs, id)
		}
	}
}

// Get trả về bản chụp trạng thái
func (s *MemoryJobStore) Get(jobID string) (JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return JobStatus{}, ErrJobNotFound
	}
	return e.status, nil
}

// Update cập nhật tiến độ
func (s *MemoryJobStore) Update(jobID string, processed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if e.status.Finished() {
		return ErrJobFinished
	}
	e.status.Processed = processed
	if e.status.Total > 0 {
		e.status.Progress = float64(processed) / float64(e.status.Total)
	}
	e.status.UpdatedAt = s.now()
	return nil
}

// Cancel yêu cầu dừng job. Runner kiểm tra cờ này trước mỗi dòng.
func (s *MemoryJobStore) Cancel(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if e.status.Finished() {
		return ErrJobFinished
	}
	e.cancelled = true
	return nil
}

// Cancelled job đã được yêu cầu dừng hay chưa
func (s *MemoryJobStore) Cancelled(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	return !ok || e.cancelled
}

// Finish lưu kết quả và chuyển job sang done hoặc cancelled
func (s *MemoryJobStore) Finish(jobID string, results []*models.NormalizationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if e.status.Finished() {
		return ErrJobFinished
	}

	e.results = results
	e.status.Processed = len(results)
	e.status.UpdatedAt = s.now()
	if e.cancelled {
		e.status.Status = JobStatusCancelled
		e.status.Message = "Đã hủy"
	} else {
		e.status.Status = JobStatusDone
		e.status.Progress = 1
		e.status.Message = "Hoàn thành xử lý"
	}
	return nil
}

// Results kết quả của job đã dừng
func (s *MemoryJobStore) Results(jobID string) ([]*models.NormalizationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	if !e.status.Finished() {
		return nil, nil
	}
	return e.results, nil
}

// Len số job đang giữ
func (s *MemoryJobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
