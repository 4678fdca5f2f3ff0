package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/normalizer"
	"github.com/address-normalizer/internal/search"
	"go.uber.org/zap"
)

// MatchStrategy tầng matcher đã cho ra kết quả
type MatchStrategy string

const (
	MatchStrategyExact           MatchStrategy = "exact"
	MatchStrategyFuzzy           MatchStrategy = "fuzzy"
	MatchStrategyBuilding        MatchStrategy = "building"
	MatchStrategyGeneric         MatchStrategy = "generic"
	MatchStrategyGenericBuilding MatchStrategy = "generic_building"
	MatchStrategyReference       MatchStrategy = "reference_building"
)

// Lý do NotFound
const (
	ReasonEmptyInput   = "empty_input"
	ReasonNoMatch      = "no_match"
	ReasonLookupFailed = "lookup_failed"
)

// Match kết quả của matcher: Matched, Ambiguous hoặc NotFound
type Match interface {
	isMatch()
}

// Matched đúng một dòng
type Matched struct {
	Record   models.AddressMaster
	Strategy MatchStrategy
}

// Ambiguous một tầng trả về nhiều dòng. Best là dòng đầu tiên theo thứ tự của store.
type Ambiguous struct {
	Best     models.AddressMaster
	Rows     []models.AddressMaster
	Strategy MatchStrategy
}

// NotFound không tầng nào có kết quả
type NotFound struct {
	Reason string
}

func (Matched) isMatch()   {}
func (Ambiguous) isMatch() {}
func (NotFound) isMatch()  {}

// Found match có bản ghi hay không
func Found(m Match) bool {
	switch m.(type) {
	case Matched, Ambiguous:
		return true
	}
	return false
}

// MatcherConfig giới hạn số dòng cho từng tầng
type MatcherConfig struct {
	ExactLimit    int
	FuzzyLimit    int
	BuildingLimit int
}

// DefaultMatcherConfig giá trị mặc định
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{ExactLimit: 10, FuzzyLimit: 5, BuildingLimit: 5}
}

// AddressMatcher chạy các tầng matching trên store
type AddressMatcher struct {
	store  search.Store
	config MatcherConfig
	logger *zap.Logger
}

// NewAddressMatcher tạo mới AddressMatcher
func NewAddressMatcher(store search.Store, config MatcherConfig, logger *zap.Logger) (*AddressMatcher, error) {
	if store == nil {
		return nil, search.ErrNilStore
	}
	def := DefaultMatcherConfig()
	if config.ExactLimit <= 0 {
		config.ExactLimit = def.ExactLimit
	}
	if config.FuzzyLimit <= 0 {
		config.FuzzyLimit = def.FuzzyLimit
	}
	if config.BuildingLimit <= 0 {
		config.BuildingLimit = def.BuildingLimit
	}
	return &AddressMatcher{store: store, config: config, logger: logger}, nil
}

// Match tiền xử lý raw rồi chạy các tầng theo thứ tự, dừng ở tầng đầu tiên có kết quả
func (am *AddressMatcher) Match(ctx context.Context, raw string) (Match, error) {
	start := time.Now()

	prepared := normalizer.Prepare(raw)
	if len(prepared.Tokens) == 0 && prepared.RefBuilding == "" {
		return NotFound{Reason: ReasonEmptyInput}, nil
	}

	tiers := am.plan(prepared)
	if len(tiers) == 0 {
		return NotFound{Reason: ReasonNoMatch}, nil
	}

	m, err := am.runPlan(ctx, tiers)
	if err != nil {
		return nil, err
	}

	am.logger.Debug("Đã match địa chỉ",
		zap.String("raw", raw),
		zap.Strings("tokens", prepared.Tokens),
		zap.Bool("found", Found(m)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// plan chọn các tầng cho một đầu vào đã tiền xử lý
func (am *AddressMatcher) plan(p normalizer.Prepared) []tier {
	if len(p.Tokens) < 2 {
		if p.RefBuilding != "" {
			return planReferenceBuilding(p.RefBuilding)
		}
		return nil
	}

	hints := ExtractHints(p.Tokens, p.AltDistrict)
	road := ParseRoad(p.Tokens)
	if lit := roadName(p.LiteralTokens); lit != road.Name {
		road.Literal = lit
	}

	var tiers []tier
	if road.Name != "" {
		tiers = append(tiers, planRoadTiers(road, hints, p.RefBuilding, am.config)...)
	}
	return append(tiers, planGeneric(analyzeGeneric(p.Working, p.AltDistrict))...)
}

// runPlan thực thi từng step, trả về ngay khi có dòng
func (am *AddressMatcher) runPlan(ctx context.Context, tiers []tier) (Match, error) {
	for _, t := range tiers {
		for _, s := range t.steps {
			rows, err := am.execute(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", t.strategy, s.name, err)
			}
			if len(rows) == 0 {
				continue
			}

			am.logger.Debug("Tầng matcher có kết quả",
				zap.String("strategy", string(t.strategy)),
				zap.String("step", s.name),
				zap.Int("rows", len(rows)))

			if len(rows) == 1 {
				return Matched{Record: rows[0], Strategy: t.strategy}, nil
			}
			return Ambiguous{Best: rows[0], Rows: rows, Strategy: t.strategy}, nil
		}
	}
	return NotFound{Reason: ReasonNoMatch}, nil
}

func (am *AddressMatcher) execute(ctx context.Context, s step) ([]models.AddressMaster, error) {
	if s.limit > 1 {
		return am.store.Find(ctx, s.filter, s.limit)
	}
	rec, err := am.store.First(ctx, s.filter)
	if err != nil || rec == nil {
		return nil, err
	}
	return []models.AddressMaster{*rec}, nil
}
