//go:build !libpostal

package external

import "go.uber.org/zap"

// NewLibpostalCorrector khi build không có tag libpostal thì trả về NoopCorrector
func NewLibpostalCorrector(logger *zap.Logger) Corrector {
	logger.Warn("libpostal không được build kèm, dùng NoopCorrector")
	return NoopCorrector{}
}
