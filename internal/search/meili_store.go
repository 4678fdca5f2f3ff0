package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/address-normalizer/app/models"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// MeiliConfig cấu hình cho Meilisearch
type MeiliConfig struct {
	Host        string
	APIKey      string
	IndexName   string
	DetailIndex string
	Timeout     time.Duration
	FetchWindow int // số hit mỗi trang khi lọc mẫu LIKE trong tiến trình
	// MaxTotalHits trần pagination.maxTotalHits của index, cũng là số hit tối đa Find duyệt qua
	MaxTotalHits int
}

// ErrScanLimit Find đã duyệt tới MaxTotalHits mà vẫn còn hit chưa kiểm.
// Trả về lỗi thay vì kết quả thiếu để matcher không báo NotFound sai.
var ErrScanLimit = errors.New("meilisearch scan limit reached")

// MeiliStore store trên Meilisearch. Predicate bằng/số được đẩy xuống filter của index;
// predicate LIKE được kiểm lại trong tiến trình trên cửa sổ hit.
type MeiliStore struct {
	client meilisearch.ServiceManager
	config MeiliConfig
	logger *zap.Logger
}

// NewMeiliStore tạo mới MeiliStore và kiểm tra kết nối
func NewMeiliStore(config MeiliConfig, logger *zap.Logger) (*MeiliStore, error) {
	if config.IndexName == "" {
		config.IndexName = "address_master"
	}
	if config.DetailIndex == "" {
		config.DetailIndex = "address_detail"
	}
	if config.FetchWindow <= 0 {
		config.FetchWindow = 1000
	}
	if config.MaxTotalHits <= 0 {
		config.MaxTotalHits = 1_000_000
	}

	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))
	if config.Timeout > 0 {
		client = meilisearch.New(config.Host,
			meilisearch.WithAPIKey(config.APIKey),
			meilisearch.WithCustomClient(&http.Client{Timeout: config.Timeout}))
	}
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}

	return &MeiliStore{client: client, config: config, logger: logger}, nil
}

// Find implements Store. Trang hit theo id:asc được kiểm filter trong tiến trình,
// lật trang cho tới khi đủ limit dòng hoặc hết hit.
func (s *MeiliStore) Find(ctx context.Context, filter Filter, limit int) ([]models.AddressMaster, error) {
	query, expr := MeiliQuery(filter)
	index := s.client.Index(s.config.IndexName)
	page := s.config.FetchWindow

	var out []models.AddressMaster
	for offset := 0; ; offset += page {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if offset >= s.config.MaxTotalHits {
			s.logger.Warn("Meilisearch đã duyệt tới trần hit",
				zap.String("query", query),
				zap.String("filter", expr),
				zap.Int("max_total_hits", s.config.MaxTotalHits))
			return nil, ErrScanLimit
		}

		req := &meilisearch.SearchRequest{
			Offset: int64(offset),
			Limit:  int64(min(page, s.config.MaxTotalHits-offset)),
			Sort:   []string{"id:asc"},
		}
		if expr != "" {
			req.Filter = expr
		}

		result, err := index.SearchWithContext(ctx, query, req)
		if err != nil {
			return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
		}
		hits, err := decodeHits(result.Hits)
		if err != nil {
			return nil, err
		}

		for i := range hits {
			if filter.Match(&hits[i]) {
				out = append(out, hits[i])
				if limit > 0 && len(out) >= limit {
					return out, nil
				}
			}
		}
		if int64(len(hits)) < req.Limit {
			return out, nil
		}
	}
}

// First implements Store
func (s *MeiliStore) First(ctx context.Context, filter Filter) (*models.AddressMaster, error) {
	rows, err := s.Find(ctx, filter, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Details implements Store
func (s *MeiliStore) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	result, err := s.client.Index(s.config.DetailIndex).Search("", &meilisearch.SearchRequest{
		Filter: fmt.Sprintf("mgmt_no = %s", quoteMeili(mgmtNo)),
		Limit:  int64(s.config.FetchWindow),
	})
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm address_detail: %w", err)
	}

	var out []models.AddressDetail
	if err := remarshal(result.Hits, &out); err != nil {
		return nil, fmt.Errorf("lỗi decode address_detail: %w", err)
	}
	return out, nil
}

// Count implements Store
func (s *MeiliStore) Count(ctx context.Context) (int64, error) {
	stats, err := s.client.Index(s.config.IndexName).GetStats()
	if err != nil {
		return 0, fmt.Errorf("lỗi lấy stats Meilisearch: %w", err)
	}
	return stats.NumberOfDocuments, nil
}

// BuildIndexes cấu hình index địa chỉ
func (s *MeiliStore) BuildIndexes() error {
	index := s.client.Index(s.config.IndexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"road_nm", "buld_nm", "road_full_addr", "jibun_full_addr", "emd_nm"},
		FilterableAttributes: []string{"mgmt_no", "si_nm", "sgg_nm", "emd_nm", "road_nm", "buld_mainsn", "buld_subsn"},
		SortableAttributes:   []string{"id"},
		Pagination:           &meilisearch.Pagination{MaxTotalHits: int64(s.config.MaxTotalHits)},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}
	s.logger.Info("Đã cấu hình index Meilisearch", zap.Int64("task_uid", task.TaskUID))

	detailTask, err := s.client.Index(s.config.DetailIndex).UpdateSettings(&meilisearch.Settings{
		FilterableAttributes: []string{"mgmt_no"},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index detail: %w", err)
	}
	s.logger.Info("Đã cấu hình index detail", zap.Int64("task_uid", detailTask.TaskUID))
	return nil
}

// SeedData nạp dữ liệu tham chiếu vào Meilisearch theo batch 1000
func (s *MeiliStore) SeedData(records []models.AddressMaster, details []models.AddressDetail) error {
	if len(records) == 0 {
		return errors.New("không có dữ liệu để seed")
	}

	index := s.client.Index(s.config.IndexName)
	const batchSize = 1000
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		task, err := index.AddDocuments(records[i:end], "id")
		if err != nil {
			return fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		s.logger.Info("Đã thêm batch documents",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	if len(details) > 0 {
		docs := make([]map[string]interface{}, 0, len(details))
		for i, d := range details {
			docs = append(docs, map[string]interface{}{
				"id":          fmt.Sprintf("%s-%d", d.MgmtNo, i),
				"mgmt_no":     d.MgmtNo,
				"dong":        d.Dong,
				"floor":       d.Floor,
				"ho":          d.Ho,
				"ho_detail":   d.HoDetail,
				"is_basement": d.IsBasement,
				"detail_full": d.DetailFull,
			})
		}
		if _, err := s.client.Index(s.config.DetailIndex).AddDocuments(docs, "id"); err != nil {
			return fmt.Errorf("lỗi thêm address_detail: %w", err)
		}
	}

	s.logger.Info("Đã seed data thành công", zap.Int("total_documents", len(records)))
	return nil
}

// MeiliQuery tách filter thành câu truy vấn full-text và biểu thức filter của Meilisearch.
// Predicate bằng và số đi vào biểu thức; khi không có predicate nào như vậy, đoạn chữ dài nhất
// trong các mẫu LIKE được dùng làm câu truy vấn để thu hẹp cửa sổ hit.
func MeiliQuery(filter Filter) (string, string) {
	var (
		exprs   []string
		longest string
	)
	for _, p := range filter {
		switch {
		case p.Op == OpIntEqual:
			exprs = append(exprs, fmt.Sprintf("%s = %d", p.Field, p.Number))
		case p.Op == OpEqual && !p.IgnoreSpaces && len(p.Values) > 0:
			ors := make([]string, 0, len(p.Values))
			for _, v := range p.Values {
				ors = append(ors, fmt.Sprintf("%s = %s", p.Field, quoteMeili(v)))
			}
			exprs = append(exprs, "("+strings.Join(ors, " OR ")+")")
		case p.Op == OpLike && len(p.Values) == 1:
			for _, frag := range strings.Split(p.Values[0], "%") {
				frag = strings.TrimSpace(frag)
				if runeLonger(frag, longest) {
					longest = frag
				}
			}
		}
	}
	if len(exprs) > 0 {
		return "", strings.Join(exprs, " AND ")
	}
	return longest, ""
}

// runeLonger a dài hơn b tính theo ký tự
func runeLonger(a, b string) bool {
	return len([]rune(a)) > len([]rune(b))
}

func quoteMeili(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

func decodeHits(hits interface{}) ([]models.AddressMaster, error) {
	var out []models.AddressMaster
	if err := remarshal(hits, &out); err != nil {
		return nil, fmt.Errorf("lỗi decode hits: %w", err)
	}
	return out, nil
}

func remarshal(in interface{}, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
