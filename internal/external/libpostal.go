//go:build libpostal

package external

import (
	"context"
	"strings"

	"github.com/openvenues/gopostal/expand"
	"go.uber.org/zap"
)

// LibpostalCorrector dùng bản mở rộng đầu tiên của libpostal (ngôn ngữ "ko") làm chuỗi sửa.
// Cần build với tag libpostal và thư viện C libpostal.
type LibpostalCorrector struct {
	logger *zap.Logger
}

// NewLibpostalCorrector tạo mới LibpostalCorrector
func NewLibpostalCorrector(logger *zap.Logger) Corrector {
	return &LibpostalCorrector{logger: logger}
}

// Correct implements Corrector
func (c *LibpostalCorrector) Correct(_ context.Context, raw string) string {
	opts := expand.GetDefaultExpansionOptions()
	opts.Languages = []string{"ko"}

	expansions := expand.ExpandAddressOptions(raw, opts)
	for _, e := range expansions {
		if e = strings.TrimSpace(e); e != "" && e != raw {
			c.logger.Debug("libpostal expansion", zap.String("raw", raw), zap.String("expanded", e))
			return e
		}
	}
	return raw
}
