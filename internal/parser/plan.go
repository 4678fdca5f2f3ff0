package parser

import (
	"regexp"
	"strings"

	"github.com/address-normalizer/internal/normalizer"
	"github.com/address-normalizer/internal/search"
)

// step một lần truy vấn store. limit <= 1 nghĩa là chỉ lấy dòng đầu tiên.
type step struct {
	name   string
	filter search.Filter
	limit  int
}

// tier một chiến lược gồm các step thử lần lượt, dừng ở step đầu tiên có kết quả
type tier struct {
	strategy MatchStrategy
	steps    []step
}

var (
	reNumeralMask = regexp.MustCompile(`\d+|[일이삼사오육칠팔구십]`)
	reDetailUnit  = regexp.MustCompile(`^\d+(동|호|층|단지)$`)
)

// regionLevel một mức nới lỏng bộ lọc vùng
type regionLevel struct {
	province, district, subDistrict bool
}

var (
	fullTextLevels = []regionLevel{
		{province: true, district: true},
		{province: true},
		{},
	}
	buildingLevels = []regionLevel{
		{province: true, district: true, subDistrict: true},
		{province: true, subDistrict: true},
		{province: true},
		{},
	}
)

// planRoadTiers ba tầng đầu: đường chính xác, đường gần đúng, tên tòa nhà
func planRoadTiers(road RoadSegment, hints RegionHints, refBuilding string, cfg MatcherConfig) []tier {
	region := hints.Filter(true, true)

	var number search.Filter
	if road.Number != nil {
		number = search.Filter{
			search.IntEq(search.FieldMainNo, road.Number.Main),
			search.IntEq(search.FieldSubNo, road.Number.Sub),
		}
	}

	names := []string{road.Name, normalizer.Compact(road.Name)}
	contains := []string{road.Name}
	if road.Literal != "" {
		names = append(names, road.Literal)
		contains = append(contains, road.Literal)
	}

	exact := search.Filter{search.Eq(search.FieldRoadName, names...)}.
		And(number...).And(region...)
	fuzzy := search.Filter{search.Contains(search.FieldRoadName, contains...)}.
		And(number...).And(region...)

	target := refBuilding
	if target == "" {
		target = road.Name
	}
	building := search.Filter{search.Contains(search.FieldBuildingName, target)}.And(region...)
	if road.Number != nil {
		building = building.And(search.IntEq(search.FieldMainNo, road.Number.Main))
	}

	return []tier{
		{strategy: MatchStrategyExact, steps: []step{{name: "exact_road", filter: exact, limit: cfg.ExactLimit}}},
		{strategy: MatchStrategyFuzzy, steps: []step{{name: "fuzzy_road", filter: fuzzy, limit: cfg.FuzzyLimit}}},
		{strategy: MatchStrategyBuilding, steps: []step{{name: "building", filter: building, limit: cfg.BuildingLimit}}},
	}
}

// planReferenceBuilding dùng khi chỉ còn tên tòa nhà trong [...]
func planReferenceBuilding(refBuilding string) []tier {
	return []tier{{
		strategy: MatchStrategyReference,
		steps: []step{{
			name:   "reference_building",
			filter: search.Filter{search.Contains(search.FieldBuildingName, refBuilding)},
		}},
	}}
}

// genericQuery kết quả phân tích lại chuỗi Working cho chiến lược generic
type genericQuery struct {
	tokens      []string
	hints       RegionHints
	subDistrict string
	jibunLikely bool
	core        []string
	building    []string
}

func analyzeGeneric(working, altDistrict string) genericQuery {
	tokens := strings.Fields(normalizer.CleanForSearch(working))
	g := genericQuery{
		tokens: tokens,
		hints:  ExtractHints(tokens, altDistrict),
	}

	for _, t := range tokens {
		if g.subDistrict == "" && normalizer.RuneLen(t) > 1 && strings.HasSuffix(t, "동") && !startsWithDigit(t) {
			g.subDistrict = t
		}
		if hasLotSuffix(t) {
			g.jibunLikely = true
		}
	}

	for _, t := range tokens {
		if reNumberToken.MatchString(t) {
			g.core = append(g.core, t)
			break
		}
		if g.hints.IsHint(t) {
			continue
		}
		g.core = append(g.core, reNumeralMask.ReplaceAllString(t, "%"))
	}

	for _, t := range tokens {
		if g.hints.IsHint(t) || (g.subDistrict != "" && t == g.subDistrict) {
			continue
		}
		if reDetailUnit.MatchString(t) || reNumberToken.MatchString(t) {
			continue
		}
		g.building = append(g.building, t)
	}
	return g
}

func hasLotSuffix(t string) bool {
	for _, s := range []string{"동", "리", "가", "읍", "면"} {
		if strings.HasSuffix(t, s) {
			return true
		}
	}
	return false
}

// planGeneric tầng cuối: tìm toàn văn trên chuỗi hiển thị, sau đó tìm theo tên tòa nhà
func planGeneric(g genericQuery) []tier {
	var tiers []tier
	if full := planFullText(g); len(full) > 0 {
		tiers = append(tiers, tier{strategy: MatchStrategyGeneric, steps: full})
	}
	if building := planBuildingFallback(g); len(building) > 0 {
		tiers = append(tiers, tier{strategy: MatchStrategyGenericBuilding, steps: building})
	}
	return tiers
}

// planFullText mẫu strict (số đứng sau khoảng trắng và ở cuối chuỗi) trước mẫu lỏng.
// Mức vùng: đủ → bỏ 시군구 → bỏ hết.
func planFullText(g genericQuery) []step {
	if len(g.core) == 0 {
		return nil
	}
	text := strings.Join(g.core[:len(g.core)-1], "%")
	num := g.core[len(g.core)-1]

	strict := "%" + text + "% " + num
	spaced := "%" + text + "% " + num + "%"
	loose := "%" + text + "%" + num + "%"

	type pattern struct {
		name    string
		field   search.Field
		pattern string
	}
	var patterns []pattern
	if g.jibunLikely {
		patterns = []pattern{
			{"jibun_strict", search.FieldLotFull, strict},
			{"jibun_loose", search.FieldLotFull, spaced},
			{"road_loose", search.FieldRoadFull, loose},
		}
	} else {
		patterns = []pattern{
			{"road_strict", search.FieldRoadFull, strict},
			{"road_loose", search.FieldRoadFull, loose},
			{"jibun_loose", search.FieldLotFull, loose},
		}
	}

	levels := regionLevels(g.hints, "", fullTextLevels)

	var steps []step
	for _, lvl := range levels {
		region := regionFilter(g.hints, "", lvl)
		for _, p := range patterns {
			steps = append(steps, step{
				name:   p.name + lvl.suffix(),
				filter: region.And(search.Like(p.field, p.pattern)),
			})
		}
	}
	return steps
}

// planBuildingFallback so khớp tên tòa nhà không phân biệt khoảng trắng, qua bốn mức vùng:
// đủ → bỏ 시군구 → bỏ 읍면동 → bỏ hết. Nhiều hơn hai token thì thử lại với hai token đầu.
func planBuildingFallback(g genericQuery) []step {
	if len(g.building) == 0 {
		return nil
	}

	sets := [][]string{g.building}
	if len(g.building) > 2 {
		sets = append(sets, g.building[:2])
	}

	levels := regionLevels(g.hints, g.subDistrict, buildingLevels)

	var steps []step
	for i, set := range sets {
		q := normalizer.Compact(strings.Join(set, ""))
		if q == "" {
			continue
		}
		for _, lvl := range levels {
			name := "building"
			if i > 0 {
				name = "building_head"
			}
			steps = append(steps, step{
				name:   name + lvl.suffix(),
				filter: regionFilter(g.hints, g.subDistrict, lvl).And(search.Contains(search.FieldBuildingName, q).Compact()),
			})
		}
	}
	return steps
}

// regionLevels bỏ các mức trùng nhau khi thiếu gợi ý, để không truy vấn lặp
func regionLevels(hints RegionHints, subDistrict string, levels []regionLevel) []regionLevel {
	var out []regionLevel
	seen := make(map[regionLevel]struct{}, len(levels))
	for _, lvl := range levels {
		eff := regionLevel{
			province:    lvl.province && hints.Province != "",
			district:    lvl.district && hints.District != "",
			subDistrict: lvl.subDistrict && subDistrict != "",
		}
		if _, ok := seen[eff]; ok {
			continue
		}
		seen[eff] = struct{}{}
		out = append(out, eff)
	}
	return out
}

func regionFilter(hints RegionHints, subDistrict string, lvl regionLevel) search.Filter {
	f := hints.Filter(lvl.province, lvl.district)
	if lvl.subDistrict && subDistrict != "" {
		f = append(f, search.Contains(search.FieldSubDistrict, subDistrict))
	}
	return f
}

func (l regionLevel) suffix() string {
	var parts []string
	if l.province {
		parts = append(parts, "si")
	}
	if l.district {
		parts = append(parts, "sgg")
	}
	if l.subDistrict {
		parts = append(parts, "emd")
	}
	if len(parts) == 0 {
		return "/any"
	}
	return "/" + strings.Join(parts, "+")
}
