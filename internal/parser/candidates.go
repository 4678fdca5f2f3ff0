package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/normalizer"
	"github.com/address-normalizer/internal/search"
	"go.uber.org/zap"
)

var (
	reDigitsOnly  = regexp.MustCompile(`^\d+$`)
	reDetailDong  = regexp.MustCompile(`^\d+동$`)
	reNumericDong = regexp.MustCompile(`^\d+동?$`)
)

// SearchConfig cấu hình Candidate Search
type SearchConfig struct {
	DefaultLimit int // limit khi caller truyền <= 0
	MaxLimit     int // trần của limit
	FetchFactor  int // số dòng lấy về = limit * FetchFactor
}

// DefaultSearchConfig giá trị mặc định
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{DefaultLimit: 10, MaxLimit: 50, FetchFactor: 5}
}

// CandidateSearcher tìm nhiều ứng viên cho tra cứu tương tác
type CandidateSearcher struct {
	store  search.Store
	config SearchConfig
	logger *zap.Logger
}

// NewCandidateSearcher tạo mới CandidateSearcher
func NewCandidateSearcher(store search.Store, config SearchConfig, logger *zap.Logger) (*CandidateSearcher, error) {
	if store == nil {
		return nil, search.ErrNilStore
	}
	def := DefaultSearchConfig()
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = def.DefaultLimit
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = def.MaxLimit
	}
	if config.FetchFactor <= 0 {
		config.FetchFactor = def.FetchFactor
	}
	return &CandidateSearcher{store: store, config: config, logger: logger}, nil
}

// candidateQuery kết quả phân tích câu truy vấn tìm kiếm
type candidateQuery struct {
	tokens     []string
	hints      RegionHints
	road       string
	number     int
	hasNumber  bool
	detailDong string
	building   string
}

func parseCandidateQuery(query string) candidateQuery {
	text := normalizer.Canonicalize(query)
	text = normalizer.InsertSpaces(text)
	text = normalizer.NormalizeNumerals(text)
	tokens := strings.Fields(normalizer.CleanForSearch(text))

	q := candidateQuery{tokens: tokens, hints: ExtractHints(tokens, "")}
	for i, t := range tokens {
		switch {
		case isRoadToken(t):
			q.road = t
			if i+1 < len(tokens) {
				if m := reNumberPrefix.FindStringSubmatch(tokens[i+1]); m != nil {
					if n := toHouseNumber(m); n != nil {
						q.number, q.hasNumber = n.Main, true
					}
				}
			}
		case reDigitsOnly.MatchString(t):
			if !q.hasNumber {
				if n, err := strconv.Atoi(t); err == nil {
					q.number, q.hasNumber = n, true
				}
			}
		case reDetailDong.MatchString(t):
			q.detailDong = t
		case normalizer.RuneLen(t) > 1 && q.road == "" && !q.hasNumber && q.detailDong == "":
			if q.building == "" && !q.hints.IsHint(t) && !isAdminToken(t) {
				q.building = t
			}
		}
	}
	return q
}

// fallbackToken token dài nhất không phải số, 동 số, gợi ý vùng hay tên đường
func (q candidateQuery) fallbackToken() string {
	best := ""
	for _, t := range q.tokens {
		if reNumericDong.MatchString(t) || q.hints.IsHint(t) || isRoadToken(t) {
			continue
		}
		if normalizer.RuneLen(t) > normalizer.RuneLen(best) {
			best = t
		}
	}
	return best
}

// candidateStrategy một chiến lược tìm ứng viên với khóa khử trùng lặp riêng
type candidateStrategy struct {
	name   string
	filter search.Filter
	key    func(*models.AddressMaster) string
}

func keyRoadBuilding(r *models.AddressMaster) string { return r.RoadFull + "|" + r.BuildingName }
func keyRoad(r *models.AddressMaster) string         { return r.RoadFull }
func keyBuildingDistrict(r *models.AddressMaster) string {
	return r.BuildingName + "|" + r.District
}

// strategies thứ tự: đường + số → đường → tên tòa nhà → token dài nhất
func (q candidateQuery) strategies() []candidateStrategy {
	region := q.hints.Filter(true, true)

	var out []candidateStrategy
	if q.road != "" && q.hasNumber {
		out = append(out, candidateStrategy{
			name: "road_number",
			filter: search.Filter{
				search.Eq(search.FieldRoadName, q.road),
				search.IntEq(search.FieldMainNo, q.number),
			}.And(region...),
			key: keyRoadBuilding,
		})
	}
	if q.road != "" {
		out = append(out, candidateStrategy{
			name:   "road",
			filter: search.Filter{search.Contains(search.FieldRoadName, q.road)}.And(region...),
			key:    keyRoad,
		})
	}
	if q.building != "" {
		out = append(out, candidateStrategy{
			name:   "building",
			filter: search.Filter{search.Contains(search.FieldBuildingName, q.building)}.And(region...),
			key:    keyBuildingDistrict,
		})
	}
	if token := q.fallbackToken(); token != "" {
		out = append(out, candidateStrategy{
			name:   "longest_token",
			filter: search.Filter{search.Contains(search.FieldBuildingName, token)},
			key:    keyBuildingDistrict,
		})
	}
	return out
}

// Search trả về tối đa limit ứng viên đã khử trùng lặp và xếp hạng
func (cs *CandidateSearcher) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = cs.config.DefaultLimit
	}
	if limit > cs.config.MaxLimit {
		limit = cs.config.MaxLimit
	}

	q := parseCandidateQuery(query)
	if len(q.tokens) == 0 {
		return []models.Candidate{}, nil
	}

	for _, s := range q.strategies() {
		rows, err := cs.store.Find(ctx, s.filter, limit*cs.config.FetchFactor)
		if err != nil {
			return nil, fmt.Errorf("candidate search %s: %w", s.name, err)
		}

		cands := dedupeCandidates(rows, s.key)
		if len(cands) == 0 {
			continue
		}

		rankCandidates(query, cands)
		if len(cands) > limit {
			cands = cands[:limit]
		}

		cs.logger.Debug("Candidate search có kết quả",
			zap.String("query", query),
			zap.String("strategy", s.name),
			zap.Int("candidates", len(cands)))
		return cands, nil
	}
	return []models.Candidate{}, nil
}

func dedupeCandidates(rows []models.AddressMaster, key func(*models.AddressMaster) string) []models.Candidate {
	out := make([]models.Candidate, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		k := key(&rows[i])
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, models.CandidateFrom(&rows[i]))
	}
	return out
}
