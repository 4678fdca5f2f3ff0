package parser

import (
	"regexp"
	"strconv"
	"unicode"
)

var (
	reNumberPrefix = regexp.MustCompile(`^(\d+)(?:-(\d+))?`)
	reNumberToken  = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)
	reHangul       = regexp.MustCompile(`[가-힣]`)
)

// maxRoadMerge số token đứng trước tối đa được ghép vào một tên đường bắt đầu bằng chữ số
const maxRoadMerge = 2

// HouseNumber số nhà 본번-부번
type HouseNumber struct {
	Main int
	Sub  int
}

// RoadSegment tên đường và số nhà. Name rỗng nghĩa là không có token đường,
// lúc đó matcher chuyển thẳng sang chiến lược generic.
type RoadSegment struct {
	Name    string
	Number  *HouseNumber
	Literal string // Tên đường trước khi đổi số Hán-Hàn, chỉ có khi khác Name
}

// ParseRoad tìm tên đường và số nhà trong token
func ParseRoad(tokens []string) RoadSegment {
	return RoadSegment{
		Name:   roadName(tokens),
		Number: houseNumber(tokens),
	}
}

// roadName token kết thúc bằng 로/길 cuối cùng. Token bắt đầu bằng chữ số ("1로") được ghép
// với tối đa hai token Hangul đứng trước không phải tên hành chính: "가산 디지털 1로" → "가산디지털1로".
func roadName(tokens []string) string {
	name := ""
	for i, t := range tokens {
		if !isRoadToken(t) {
			continue
		}
		if !startsWithDigit(t) || i == 0 {
			name = t
			continue
		}

		merged := t
		for j := i - 1; j >= 0 && j >= i-maxRoadMerge; j-- {
			prev := tokens[j]
			if isAdminToken(prev) || !reHangul.MatchString(prev) {
				break
			}
			merged = prev + merged
		}
		name = merged
	}
	return name
}

// houseNumber số ngay sau token đường đầu tiên có số; nếu không có thì lấy token số cuối cùng
func houseNumber(tokens []string) *HouseNumber {
	for i, t := range tokens {
		if !isRoadToken(t) || i+1 >= len(tokens) {
			continue
		}
		if m := reNumberPrefix.FindStringSubmatch(tokens[i+1]); m != nil {
			return toHouseNumber(m)
		}
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		if m := reNumberToken.FindStringSubmatch(tokens[i]); m != nil {
			return toHouseNumber(m)
		}
	}
	return nil
}

func toHouseNumber(m []string) *HouseNumber {
	main, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	n := &HouseNumber{Main: main}
	if m[2] != "" {
		if sub, err := strconv.Atoi(m[2]); err == nil {
			n.Sub = sub
		}
	}
	return n
}

func startsWithDigit(t string) bool {
	for _, r := range t {
		return unicode.IsDigit(r)
	}
	return false
}
