package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/regions.yaml
var regionsYAML []byte

// ProvinceEntry một 시도 với các alias của nó
type ProvinceEntry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// SpecialCityPair cặp 특례시 / 일반시
type SpecialCityPair struct {
	Special string `yaml:"special"`
	Plain   string `yaml:"plain"`
}

// ProvinceAlias một alias đã được trải phẳng, giữ thứ tự khai báo
type ProvinceAlias struct {
	Alias     string
	Canonical string
}

// RegionTables bảng tĩnh dùng chung cho preprocessor và hint extractor
type RegionTables struct {
	Provinces     []ProvinceEntry   `yaml:"provinces"`
	SpecialCities []SpecialCityPair `yaml:"special_cities"`

	aliases   []ProvinceAlias
	byAlias   map[string]string
	canonical map[string]struct{}
	counter   map[string]string
}

var regions = mustLoadRegionTables()

// LoadRegionTables parse bảng vùng từ YAML
func LoadRegionTables(data []byte) (*RegionTables, error) {
	t := &RegionTables{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse region tables: %w", err)
	}
	if len(t.Provinces) == 0 {
		return nil, fmt.Errorf("parse region tables: no provinces")
	}

	t.canonical = make(map[string]struct{}, len(t.Provinces))
	t.byAlias = make(map[string]string)
	for _, p := range t.Provinces {
		t.canonical[p.Canonical] = struct{}{}
		t.byAlias[p.Canonical] = p.Canonical
		for _, a := range p.Aliases {
			t.aliases = append(t.aliases, ProvinceAlias{Alias: a, Canonical: p.Canonical})
			t.byAlias[a] = p.Canonical
		}
	}

	t.counter = make(map[string]string, len(t.SpecialCities)*2)
	for _, sc := range t.SpecialCities {
		t.counter[sc.Special] = sc.Plain
		t.counter[sc.Plain] = sc.Special
	}
	return t, nil
}

func mustLoadRegionTables() *RegionTables {
	t, err := LoadRegionTables(regionsYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// ProvinceAliases danh sách alias theo thứ tự khai báo
func ProvinceAliases() []ProvinceAlias { return regions.aliases }

// LookupProvince tên chính thức của một alias hoặc tên 시도
func LookupProvince(name string) (string, bool) {
	v, ok := regions.byAlias[name]
	return v, ok
}

// IsCanonicalProvince s có phải tên 시도 chính thức không
func IsCanonicalProvince(s string) bool {
	_, ok := regions.canonical[s]
	return ok
}

// SpecialCityPairs bảng 특례시
func SpecialCityPairs() []SpecialCityPair { return regions.SpecialCities }

// SpecialCounterpart trả về cách viết còn lại của một 특례시 / 일반시
func SpecialCounterpart(name string) (string, bool) {
	v, ok := regions.counter[name]
	return v, ok
}
