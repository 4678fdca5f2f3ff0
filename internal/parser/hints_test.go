package parser

import (
	"testing"

	"github.com/address-normalizer/internal/search"
	"github.com/stretchr/testify/assert"
)

func TestExtractHints(t *testing.T) {
	testCases := []struct {
		name     string
		tokens   []string
		province string
		district string
	}{
		{"alias_and_district", []string{"부산광역시", "남구", "수영로", "305"}, "부산광역시", "남구"},
		{"short_alias", []string{"인천", "남구", "주안동", "110"}, "인천광역시", "남구"},
		{"legacy_rename", []string{"강원도", "춘천시", "중앙로", "1"}, "강원특별자치도", "춘천시"},
		{"road_not_province", []string{"세종대로", "175"}, "", ""},
		{"dual_hint", []string{"서울강남구", "테헤란로", "152"}, "서울특별시", "강남구"},
		{"bare_suffix_not_split", []string{"제주", "제주시", "일도2동"}, "제주특별자치도", "제주시"},
		{"metro_word_not_district", []string{"부산광역시남구"}, "부산광역시", "남구"},
		{"first_district_wins", []string{"경기도", "수원시", "팔달구"}, "경기도", "수원시"},
		{"province_ending_gu", []string{"대구", "중구"}, "대구광역시", "중구"},
		{"single_char_ignored", []string{"구", "시"}, "", ""},
		{"nothing", []string{"파르나스", "타워"}, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := ExtractHints(tc.tokens, "")
			assert.Equal(t, tc.province, h.Province)
			assert.Equal(t, tc.district, h.District)
		})
	}
}

func TestDistrictAlternates(t *testing.T) {
	assert.Nil(t, RegionHints{}.DistrictAlternates())
	assert.Equal(t, []string{"남구"}, RegionHints{District: "남구"}.DistrictAlternates())
	assert.Equal(t, []string{"수원시", "수원특례시"}, RegionHints{District: "수원시", AltDistrict: "수원특례시"}.DistrictAlternates())
	assert.Equal(t, []string{"고양특례시", "고양시"}, RegionHints{District: "고양특례시"}.DistrictAlternates())
	assert.Equal(t, []string{"팔달구"}, RegionHints{District: "팔달구", AltDistrict: "수원특례시"}.DistrictAlternates())
}

func TestRegionHintsFilter(t *testing.T) {
	h := RegionHints{Province: "경기도", District: "수원시"}

	f := h.Filter(true, true)
	assert.Equal(t, search.Filter{
		search.Prefix(search.FieldProvince, "경기도"),
		search.Contains(search.FieldDistrict, "수원시", "수원특례시"),
	}, f)

	assert.Len(t, h.Filter(true, false), 1)
	assert.Empty(t, h.Filter(false, false))
	assert.Empty(t, RegionHints{}.Filter(true, true))

	assert.True(t, h.IsHint("수원시"))
	assert.False(t, h.IsHint("경기"))
	assert.False(t, RegionHints{}.IsHint(""))
}
