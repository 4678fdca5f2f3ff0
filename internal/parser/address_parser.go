package parser

import (
	"context"
	"strings"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/external"
	"github.com/address-normalizer/internal/search"
	"go.uber.org/zap"
)

// Config cấu hình AddressParser
type Config struct {
	UseAI   bool // cho phép lượt thứ hai qua Corrector
	Matcher MatcherConfig
	Search  SearchConfig
}

// NormalizeOptions tùy chọn cho một lượt chuẩn hóa
type NormalizeOptions struct {
	SkipAI bool // bulk caller không muốn gọi AI; không match thì trả về needs_review
}

// AddressParser điểm vào chính: chuẩn hóa, tìm ứng viên, tra chi tiết
type AddressParser struct {
	store     search.Store
	matcher   *AddressMatcher
	searcher  *CandidateSearcher
	corrector external.Corrector
	useAI     bool
	logger    *zap.Logger
}

// NewAddressParser tạo mới AddressParser. Store nil là lỗi cấu hình.
func NewAddressParser(store search.Store, corrector external.Corrector, config Config, logger *zap.Logger) (*AddressParser, error) {
	matcher, err := NewAddressMatcher(store, config.Matcher, logger)
	if err != nil {
		return nil, err
	}
	searcher, err := NewCandidateSearcher(store, config.Search, logger)
	if err != nil {
		return nil, err
	}
	if corrector == nil {
		corrector = external.NoopCorrector{}
	}

	return &AddressParser{
		store:     store,
		matcher:   matcher,
		searcher:  searcher,
		corrector: corrector,
		useAI:     config.UseAI,
		logger:    logger,
	}, nil
}

// Normalize chuẩn hóa một địa chỉ. Không bao giờ trả về nil: mọi lỗi được chuyển thành
// kết quả Success=false kèm thông báo.
func (ap *AddressParser) Normalize(ctx context.Context, raw string, opts NormalizeOptions) *models.NormalizationResult {
	if strings.TrimSpace(raw) == "" {
		return Assemble(NotFound{Reason: ReasonEmptyInput}, AssembleOptions{SkipAI: opts.SkipAI})
	}

	m, ok := ap.match(ctx, raw)
	if !ok {
		return Assemble(NotFound{Reason: ReasonLookupFailed}, AssembleOptions{})
	}
	if Found(m) {
		return Assemble(m, AssembleOptions{})
	}

	if opts.SkipAI {
		return Assemble(m, AssembleOptions{SkipAI: true})
	}
	if !ap.useAI {
		return Assemble(m, AssembleOptions{})
	}

	corrected := strings.TrimSpace(ap.corrector.Correct(ctx, raw))
	if corrected == "" || corrected == strings.TrimSpace(raw) {
		return Assemble(m, AssembleOptions{})
	}

	retry, ok := ap.match(ctx, corrected)
	if !ok {
		return Assemble(NotFound{Reason: ReasonLookupFailed}, AssembleOptions{})
	}
	if !Found(retry) {
		ap.logger.Info("Không tìm thấy địa chỉ kể cả sau khi AI sửa",
			zap.String("raw", raw),
			zap.String("corrected", corrected))
		return Assemble(retry, AssembleOptions{})
	}
	return Assemble(retry, AssembleOptions{AICorrected: true, CorrectedText: corrected})
}

// match gọi matcher; ok=false khi store lỗi (đã log)
func (ap *AddressParser) match(ctx context.Context, raw string) (Match, bool) {
	m, err := ap.matcher.Match(ctx, raw)
	if err != nil {
		ap.logger.Error("Lỗi tra cứu địa chỉ", zap.String("raw", raw), zap.Error(err))
		return nil, false
	}
	return m, true
}

// NormalizeAll chuẩn hóa lần lượt từng dòng
func (ap *AddressParser) NormalizeAll(ctx context.Context, raws []string, opts NormalizeOptions) []*models.NormalizationResult {
	results := make([]*models.NormalizationResult, len(raws))
	for i, raw := range raws {
		results[i] = ap.Normalize(ctx, raw, opts)
	}
	return results
}

// Search tìm ứng viên cho tra cứu tương tác
func (ap *AddressParser) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	return ap.searcher.Search(ctx, query, limit)
}

// Details các đơn vị con của một bản ghi
func (ap *AddressParser) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	return ap.store.Details(ctx, mgmtNo)
}

// Count số bản ghi tham chiếu
func (ap *AddressParser) Count(ctx context.Context) (int64, error) {
	return ap.store.Count(ctx)
}
