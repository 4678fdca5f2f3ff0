package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/address-normalizer/app/responses"
	"github.com/address-normalizer/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey khóa trong gin.Context chứa id của request
const RequestIDKey = "request_id"

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi lấy thống kê", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "STATS_ERROR", "Không lấy được thống kê")
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy thống kê thành công",
		Data:      stats,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// InvalidateCache xóa cache kết quả
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if err := ac.adminService.ClearCache(c.Request.Context()); err != nil {
		ac.logger.Error("Lỗi xóa cache", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "CACHE_ERROR", "Không xóa được cache")
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã xóa cache",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// BuildIndexes dựng lại index của store
func (ac *AdminController) BuildIndexes(c *gin.Context) {
	err := ac.adminService.BuildIndexes()
	if errors.Is(err, services.ErrNoIndexer) {
		writeError(c, http.StatusNotImplemented, "NO_INDEXER", "Store hiện tại không có index")
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi build indexes", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "INDEX_ERROR", "Không dựng được index")
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Đã dựng lại index",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
