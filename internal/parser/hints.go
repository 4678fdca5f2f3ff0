package parser

import (
	"sort"
	"strings"

	"github.com/address-normalizer/internal/normalizer"
	"github.com/address-normalizer/internal/search"
)

// RegionHints gợi ý 시도 / 시군구 lấy từ token
type RegionHints struct {
	Province    string // tên 시도 chính thức
	District    string // 시군구 như người dùng nhập
	AltDistrict string // cách viết 특례시 do preprocessor ghi nhận
}

// aliasesByLength alias sắp theo độ dài giảm dần, dùng cho so khớp tiền tố
var aliasesByLength = func() []normalizer.ProvinceAlias {
	out := append([]normalizer.ProvinceAlias(nil), normalizer.ProvinceAliases()...)
	sort.SliceStable(out, func(i, j int) bool {
		return normalizer.RuneLen(out[i].Alias) > normalizer.RuneLen(out[j].Alias)
	})
	return out
}()

// ExtractHints quét token từ trái sang phải. Giá trị đầu tiên thắng cho mỗi loại; riêng
// trường hợp một token vừa chứa 시도 vừa chứa 시군구 ("서울강남구") thì đặt cả hai.
func ExtractHints(tokens []string, altDistrict string) RegionHints {
	h := RegionHints{AltDistrict: altDistrict}

	for _, t := range tokens {
		if isRoadToken(t) {
			continue
		}

		if canonical, ok := normalizer.LookupProvince(t); ok {
			if h.Province == "" {
				h.Province = canonical
			}
			continue
		}

		if province, district, ok := splitProvinceDistrict(t); ok {
			h.Province, h.District = province, district
			continue
		}

		if h.District == "" && isDistrictToken(t) {
			h.District = t
		}
	}
	return h
}

// splitProvinceDistrict "서울강남구" → ("서울특별시", "강남구"). Phần còn lại phải dài hơn
// một ký tự, nên "제주시" không bị tách thành 제주 + 시.
func splitProvinceDistrict(t string) (string, string, bool) {
	for _, a := range aliasesByLength {
		if !strings.HasPrefix(t, a.Alias) || t == a.Alias {
			continue
		}
		rest := t[len(a.Alias):]
		if normalizer.RuneLen(rest) > 1 && hasDistrictSuffix(rest) {
			return a.Canonical, rest, true
		}
	}
	return "", "", false
}

func isDistrictToken(t string) bool {
	return normalizer.RuneLen(t) > 1 &&
		hasDistrictSuffix(t) &&
		!normalizer.IsCanonicalProvince(t) &&
		!strings.Contains(t, "특별") &&
		!strings.Contains(t, "광역")
}

func hasDistrictSuffix(t string) bool {
	return strings.HasSuffix(t, "시") || strings.HasSuffix(t, "군") || strings.HasSuffix(t, "구")
}

// isAdminToken token là tên đơn vị hành chính (시도 hoặc kết thúc bằng 시/군/구)
func isAdminToken(t string) bool {
	if _, ok := normalizer.LookupProvince(t); ok {
		return true
	}
	return hasDistrictSuffix(t)
}

func isRoadToken(t string) bool {
	return strings.HasSuffix(t, "로") || strings.HasSuffix(t, "길")
}

// IsHint t trùng với gợi ý 시도 hoặc 시군구
func (h RegionHints) IsHint(t string) bool {
	return t != "" && (t == h.Province || t == h.District)
}

// DistrictAlternates các cách viết được OR khi lọc sgg_nm: bản thân gợi ý và cặp 특례시 của nó.
// Cách viết preprocessor ghi nhận chỉ được thêm khi nó thuộc cùng cặp với gợi ý.
func (h RegionHints) DistrictAlternates() []string {
	if h.District == "" {
		return nil
	}
	out := []string{h.District}
	if counter, ok := normalizer.SpecialCounterpart(h.District); ok {
		out = append(out, counter)
	}
	if h.AltDistrict != "" {
		if counter, ok := normalizer.SpecialCounterpart(h.AltDistrict); ok && counter == h.District {
			out = append(out, h.AltDistrict)
		}
	}
	return dedupeStrings(out)
}

// Filter predicate vùng. useDistrict=false bỏ lọc 시군구.
func (h RegionHints) Filter(useProvince, useDistrict bool) search.Filter {
	var f search.Filter
	if useProvince && h.Province != "" {
		f = append(f, search.Prefix(search.FieldProvince, h.Province))
	}
	if useDistrict && h.District != "" {
		f = append(f, search.Contains(search.FieldDistrict, h.DistrictAlternates()...))
	}
	return f
}

func dedupeStrings(values []string) []string {
	out := values[:0]
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
