package controllers

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/address-normalizer/app/requests"
	"github.com/address-normalizer/app/responses"
	"github.com/address-normalizer/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version phiên bản API trả về ở health check
const Version = "1.0.0"

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	dataVersion    string
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, dataVersion string, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		dataVersion:    dataVersion,
		logger:         logger,
	}
}

// NormalizeAddress chuẩn hóa địa chỉ đơn lẻ. Không match vẫn trả về 200 với success=false.
func (ac *AddressController) NormalizeAddress(c *gin.Context) {
	var req requests.NormalizeAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	startTime := time.Now()
	result, cacheHit := ac.addressService.NormalizeAddress(c.Request.Context(), req.Address, req.SkipAI)

	c.JSON(http.StatusOK, responses.NormalizeAddressResponse{
		DataVersion:      ac.dataVersion,
		Result:           result,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		CacheHit:         cacheHit,
	})
}

// SearchAddresses tra cứu ứng viên
func (ac *AddressController) SearchAddresses(c *gin.Context) {
	var req requests.SearchAddressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Thiếu tham số q")
		return
	}

	candidates, err := ac.addressService.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		ac.logger.Error("Lỗi tra cứu ứng viên", zap.String("query", req.Query), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "SEARCH_ERROR", "Lỗi tra cứu ứng viên")
		return
	}

	c.JSON(http.StatusOK, responses.SearchAddressResponse{
		Query:      req.Query,
		Candidates: candidates,
		Total:      len(candidates),
	})
}

// GetDetails các đơn vị con của một bản ghi
func (ac *AddressController) GetDetails(c *gin.Context) {
	mgmtNo := c.Param("mgmtNo")

	details, err := ac.addressService.Details(c.Request.Context(), mgmtNo)
	if err != nil {
		ac.logger.Error("Lỗi tra chi tiết", zap.String("mgmt_no", mgmtNo), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "DETAILS_ERROR", "Lỗi tra chi tiết địa chỉ")
		return
	}

	c.JSON(http.StatusOK, responses.AddressDetailsResponse{MgmtNo: mgmtNo, Details: details})
}

// BulkNormalize tạo bulk job
func (ac *AddressController) BulkNormalize(c *gin.Context) {
	var req requests.BulkNormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	status, err := ac.addressService.StartJob(req.Addresses, req.SkipAI)
	if errors.Is(err, services.ErrTooManyJobs) {
		writeError(c, http.StatusTooManyRequests, "TOO_MANY_JOBS", "Quá nhiều job đang được giữ, thử lại sau")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "JOB_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusAccepted, responses.BulkNormalizeResponse{
		JobID:          status.JobID,
		TotalAddresses: status.Total,
		Message:        "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	status, err := ac.addressService.GetJobStatus(c.Param("jobID"))
	if err != nil {
		writeJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:     status.JobID,
		Status:    status.Status,
		Progress:  status.Progress,
		Processed: status.Processed,
		Total:     status.Total,
		SkipAI:    status.SkipAI,
		Message:   status.Message,
	})
}

// GetJobResults lấy kết quả job, hỗ trợ ?format=ndjson&gzip=1
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")

	status, err := ac.addressService.GetJobStatus(jobID)
	if err != nil {
		writeJobError(c, err)
		return
	}
	if !status.Finished() {
		writeError(c, http.StatusConflict, "JOB_RUNNING", "Job chưa hoàn thành")
		return
	}

	if c.Query("format") == "ndjson" {
		ac.streamNDJSONResults(c, jobID, c.Query("gzip") == "1")
		return
	}

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		writeJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy kết quả thành công",
		Data:      results,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// CancelJob yêu cầu dừng job
func (ac *AddressController) CancelJob(c *gin.Context) {
	jobID := c.Param("jobID")
	if err := ac.addressService.CancelJob(jobID); err != nil {
		writeJobError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã yêu cầu hủy job",
		Data:      gin.H{"job_id": jobID},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	storeStatus := "healthy"
	status := http.StatusOK
	if _, err := ac.addressService.Count(c.Request.Context()); err != nil {
		storeStatus = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, responses.HealthCheckResponse{
		Status:    storeStatus,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).Round(time.Second).String(),
		Version:   Version,
		Services: map[string]string{
			"store": storeStatus,
		},
	})
}

// streamNDJSONResults stream kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AddressController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	resultChannel, err := ac.addressService.GetJobResultsStream(c.Request.Context(), jobID)
	if err != nil {
		writeJobError(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{ResponseWriter: c.Writer, gzWriter: gzWriter}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for result := range resultChannel {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			break
		}
		writer.Flush()
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) Flush() {
	_ = w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}

func writeJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		writeError(c, http.StatusNotFound, "JOB_NOT_FOUND", "Không tìm thấy job")
	case errors.Is(err, services.ErrJobFinished):
		writeError(c, http.StatusConflict, "JOB_FINISHED", "Job đã kết thúc")
	default:
		writeError(c, http.StatusInternalServerError, "JOB_ERROR", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString(RequestIDKey),
	})
}
