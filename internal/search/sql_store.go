package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/address-normalizer/app/models"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const masterColumns = `id, mgmt_no, si_nm, sgg_nm, emd_nm, road_nm, buld_mainsn, buld_subsn,
	COALESCE(buld_nm, ''), zip_no, road_full_addr, jibun_full_addr,
	COALESCE(si_nm_eng, ''), COALESCE(sgg_nm_eng, ''), COALESCE(road_nm_eng, ''), COALESCE(road_full_addr_eng, '')`

// SQLStore store trên PostgreSQL (bảng address_master, address_detail)
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLStore tạo SQLStore từ kết nối có sẵn
func NewSQLStore(db *sql.DB, logger *zap.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// OpenSQLStore mở kết nối postgres và ping
func OpenSQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewSQLStore(db, logger), nil
}

// Close đóng kết nối
func (s *SQLStore) Close() error { return s.db.Close() }

// Find implements Store
func (s *SQLStore) Find(ctx context.Context, filter Filter, limit int) ([]models.AddressMaster, error) {
	where, args := BuildWhere(filter)
	query := "SELECT " + masterColumns + " FROM address_master"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query address_master: %w", err)
	}
	defer rows.Close()

	var out []models.AddressMaster
	for rows.Next() {
		var m models.AddressMaster
		if err := rows.Scan(&m.ID, &m.MgmtNo, &m.Province, &m.District, &m.SubDistrict, &m.RoadName,
			&m.MainNo, &m.SubNo, &m.BuildingName, &m.PostalCode, &m.RoadFull, &m.LotFull,
			&m.ProvinceEng, &m.DistrictEng, &m.RoadNameEng, &m.RoadFullEng); err != nil {
			return nil, fmt.Errorf("scan address_master: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address_master: %w", err)
	}
	return out, nil
}

// First implements Store
func (s *SQLStore) First(ctx context.Context, filter Filter) (*models.AddressMaster, error) {
	rows, err := s.Find(ctx, filter, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Details implements Store
func (s *SQLStore) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mgmt_no, COALESCE(dong, ''), COALESCE(floor, ''), COALESCE(ho, ''),
		COALESCE(ho_detail, ''), is_basement, COALESCE(detail_full, '')
		FROM address_detail WHERE mgmt_no = $1 ORDER BY id`, mgmtNo)
	if err != nil {
		return nil, fmt.Errorf("query address_detail: %w", err)
	}
	defer rows.Close()

	var out []models.AddressDetail
	for rows.Next() {
		var d models.AddressDetail
		if err := rows.Scan(&d.MgmtNo, &d.Dong, &d.Floor, &d.Ho, &d.HoDetail, &d.IsBasement, &d.DetailFull); err != nil {
			return nil, fmt.Errorf("scan address_detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Count implements Store
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM address_master").Scan(&n); err != nil {
		return 0, fmt.Errorf("count address_master: %w", err)
	}
	return n, nil
}

// BuildWhere dịch filter sang mệnh đề WHERE với tham số $n
func BuildWhere(filter Filter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	for _, p := range filter {
		col := string(p.Field)
		if p.IgnoreSpaces {
			col = "REPLACE(" + col + ", ' ', '')"
		}

		if p.Op == OpIntEqual {
			args = append(args, p.Number)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
			continue
		}

		ors := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			if p.Op == OpLike {
				args = append(args, escapeLike(v))
				ors = append(ors, fmt.Sprintf(`%s LIKE $%d ESCAPE '\'`, col, len(args)))
			} else {
				args = append(args, v)
				ors = append(ors, fmt.Sprintf("%s = $%d", col, len(args)))
			}
		}
		switch len(ors) {
		case 0:
			clauses = append(clauses, "FALSE")
		case 1:
			clauses = append(clauses, ors[0])
		default:
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
		}
	}
	return strings.Join(clauses, " AND "), args
}

// escapeLike '_' và '\' là ký tự thường; chỉ '%' là ký tự đại diện
func escapeLike(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "_", `\_`)
}
