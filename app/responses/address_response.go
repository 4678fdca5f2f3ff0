package responses

import (
	"github.com/address-normalizer/app/models"
)

// NormalizeAddressResponse response chuẩn hóa địa chỉ đơn lẻ
type NormalizeAddressResponse struct {
	DataVersion      string                      `json:"data_version"`       // Phiên bản dữ liệu tham chiếu
	Result           *models.NormalizationResult `json:"result"`             // Kết quả chuẩn hóa
	ProcessingTimeMs int64                       `json:"processing_time_ms"` // Thời gian xử lý (ms)
	CacheHit         bool                        `json:"cache_hit"`          // Có hit cache không
}

// SearchAddressResponse response tra cứu ứng viên
type SearchAddressResponse struct {
	Query      string             `json:"query"`
	Candidates []models.Candidate `json:"candidates"`
	Total      int                `json:"total"`
}

// AddressDetailsResponse response đơn vị con của một bản ghi
type AddressDetailsResponse struct {
	MgmtNo  string                 `json:"mgmt_no"`
	Details []models.AddressDetail `json:"details"`
}

// BulkNormalizeResponse response tạo bulk job
type BulkNormalizeResponse struct {
	JobID          string `json:"job_id"`          // ID của job
	TotalAddresses int    `json:"total_addresses"` // Tổng số địa chỉ
	Message        string `json:"message"`         // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID     string  `json:"job_id"`    // ID của job
	Status    string  `json:"status"`    // running, done, cancelled
	Progress  float64 `json:"progress"`  // Tiến độ (0.0 - 1.0)
	Processed int     `json:"processed"` // Số địa chỉ đã xử lý
	Total     int     `json:"total"`     // Tổng số địa chỉ
	SkipAI    bool    `json:"skip_ai"`
	Message   string  `json:"message"` // Thông báo
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
