package search

import (
	"strings"

	"github.com/address-normalizer/app/models"
)

// Field tên cột trong dữ liệu tham chiếu. Trùng với tên cột SQL, field bson và attribute Meilisearch.
type Field string

const (
	FieldMgmtNo       Field = "mgmt_no"
	FieldProvince     Field = "si_nm"
	FieldDistrict     Field = "sgg_nm"
	FieldSubDistrict  Field = "emd_nm"
	FieldRoadName     Field = "road_nm"
	FieldMainNo       Field = "buld_mainsn"
	FieldSubNo        Field = "buld_subsn"
	FieldBuildingName Field = "buld_nm"
	FieldRoadFull     Field = "road_full_addr"
	FieldLotFull      Field = "jibun_full_addr"
)

// Op loại so khớp của một predicate
type Op int

const (
	OpEqual    Op = iota // bằng chính xác
	OpLike               // mẫu kiểu SQL LIKE, chỉ hỗ trợ '%'
	OpIntEqual           // bằng trên cột số
)

// Predicate điều kiện trên một cột. Các giá trị trong Values được OR với nhau.
type Predicate struct {
	Field        Field
	Op           Op
	Values       []string
	Number       int
	IgnoreSpaces bool // bỏ khoảng trắng khỏi giá trị lưu trước khi so
}

// Filter AND của các predicate
type Filter []Predicate

// Eq field bằng một trong các giá trị
func Eq(field Field, values ...string) Predicate {
	return Predicate{Field: field, Op: OpEqual, Values: dedupe(values)}
}

// Like field khớp một trong các mẫu
func Like(field Field, patterns ...string) Predicate {
	return Predicate{Field: field, Op: OpLike, Values: dedupe(patterns)}
}

// Prefix field bắt đầu bằng value
func Prefix(field Field, value string) Predicate {
	return Like(field, value+"%")
}

// Contains field chứa một trong các giá trị
func Contains(field Field, values ...string) Predicate {
	patterns := make([]string, 0, len(values))
	for _, v := range values {
		patterns = append(patterns, "%"+v+"%")
	}
	return Like(field, patterns...)
}

// IntEq cột số bằng n
func IntEq(field Field, n int) Predicate {
	return Predicate{Field: field, Op: OpIntEqual, Number: n}
}

// Compact bật so khớp không phân biệt khoảng trắng
func (p Predicate) Compact() Predicate {
	p.IgnoreSpaces = true
	return p
}

// And nối thêm predicate, trả về filter mới
func (f Filter) And(preds ...Predicate) Filter {
	out := make(Filter, 0, len(f)+len(preds))
	out = append(out, f...)
	return append(out, preds...)
}

// Match đánh giá filter trên một bản ghi trong tiến trình
func (f Filter) Match(rec *models.AddressMaster) bool {
	for _, p := range f {
		if !p.Match(rec) {
			return false
		}
	}
	return true
}

// Match đánh giá predicate trên một bản ghi
func (p Predicate) Match(rec *models.AddressMaster) bool {
	if p.Op == OpIntEqual {
		n, ok := intField(rec, p.Field)
		return ok && n == p.Number
	}

	value := stringField(rec, p.Field)
	if p.IgnoreSpaces {
		value = strings.ReplaceAll(value, " ", "")
	}
	for _, v := range p.Values {
		switch p.Op {
		case OpEqual:
			if value == v {
				return true
			}
		case OpLike:
			if LikeMatch(v, value) {
				return true
			}
		}
	}
	return false
}

// LikeMatch so khớp kiểu SQL LIKE với '%' là ký tự đại diện duy nhất
func LikeMatch(pattern, s string) bool {
	parts := strings.Split(pattern, "%")
	if len(parts) == 1 {
		return pattern == s
	}

	first, last := parts[0], parts[len(parts)-1]
	if len(first)+len(last) > len(s) || !strings.HasPrefix(s, first) || !strings.HasSuffix(s, last) {
		return false
	}
	middle := s[len(first) : len(s)-len(last)]
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(middle, part)
		if idx < 0 {
			return false
		}
		middle = middle[idx+len(part):]
	}
	return true
}

func stringField(rec *models.AddressMaster, f Field) string {
	switch f {
	case FieldMgmtNo:
		return rec.MgmtNo
	case FieldProvince:
		return rec.Province
	case FieldDistrict:
		return rec.District
	case FieldSubDistrict:
		return rec.SubDistrict
	case FieldRoadName:
		return rec.RoadName
	case FieldBuildingName:
		return rec.BuildingName
	case FieldRoadFull:
		return rec.RoadFull
	case FieldLotFull:
		return rec.LotFull
	}
	return ""
}

func intField(rec *models.AddressMaster, f Field) (int, bool) {
	switch f {
	case FieldMainNo:
		return rec.MainNo, true
	case FieldSubNo:
		return rec.SubNo, true
	}
	return 0, false
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
