package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reSpaces = regexp.MustCompile(`\s+`)

// spaceRule chèn khoảng trắng ngay sau group 1. Phần còn lại của pattern chỉ là điều kiện
// nhìn trước, không bị tiêu thụ khi quét tiếp.
type spaceRule struct {
	re *regexp.Regexp
}

// Thứ tự: đơn vị lớn trước, đơn vị nhỏ sau, số nhà cuối cùng.
var spaceRules = []spaceRule{
	{regexp.MustCompile(`(특별시)`)},
	{regexp.MustCompile(`(광역시)`)},
	{regexp.MustCompile(`(특별자치시)`)},
	{regexp.MustCompile(`(특별자치도)`)},
	{regexp.MustCompile(`([가-힣]+도)[가-힣]`)},
	{regexp.MustCompile(`([가-힣]+시)[가-힣]+[구군동]`)},
	{regexp.MustCompile(`([가-힣]+구)[가-힣]`)},
	{regexp.MustCompile(`([가-힣]+군)[가-힣]`)},
	{regexp.MustCompile(`([가-힣]+읍)[가-힣]`)},
	{regexp.MustCompile(`([가-힣]+면)[가-힣]`)},
	{regexp.MustCompile(`([가-힣]+동)(?:[가-힣]+로|[가-힣]+길|\d)`)},
	{regexp.MustCompile(`([가-힣]+로)\d`)},
	{regexp.MustCompile(`([가-힣]+길)\d`)},
	{regexp.MustCompile(`([가-힣]+대로)\d`)},
}

func (r spaceRule) apply(s string) string {
	pos := 0
	for pos < len(s) {
		loc := r.re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		cut := pos + loc[3]
		s = s[:cut] + " " + s[cut:]
		pos = cut + 1
	}
	return s
}

// InsertSpaces tách chuỗi địa chỉ viết liền, ví dụ "부산광역시남구수영로305" → "부산광역시 남구 수영로 305".
// Không làm gì nếu chuỗi đã có khoảng trắng, nên gọi lại trên kết quả luôn cho cùng kết quả.
func InsertSpaces(s string) string {
	if strings.Contains(s, " ") {
		return s
	}
	out := s
	for _, r := range spaceRules {
		out = r.apply(out)
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(out, " "))
}

// NormalizeSpecialCity đổi 특례시 về 일반시. Giá trị thứ hai là cách viết 특례시, dùng làm
// district thay thế khi lọc vì dữ liệu có thể lưu một trong hai dạng.
func NormalizeSpecialCity(s string) (string, string) {
	alt := ""
	for _, p := range SpecialCityPairs() {
		switch {
		case strings.Contains(s, p.Special):
			s = strings.ReplaceAll(s, p.Special, p.Plain)
			alt = p.Special
		case strings.Contains(s, p.Plain):
			alt = p.Special
		}
	}
	return s, alt
}

type numeralRule struct {
	re    *regexp.Regexp
	digit string
}

var numeralRules = buildNumeralRules()

func buildNumeralRules() []numeralRule {
	words := []struct{ word, digit string }{
		{"일", "1"}, {"이", "2"}, {"삼", "3"}, {"사", "4"}, {"오", "5"},
		{"육", "6"}, {"칠", "7"}, {"팔", "8"}, {"구", "9"}, {"십", "10"},
	}
	rules := make([]numeralRule, 0, len(words))
	for _, w := range words {
		rules = append(rules, numeralRule{
			re:    regexp.MustCompile(`([가-힣]{2,})` + w.word + `([동가로])(\s|$|[0-9])`),
			digit: w.digit,
		})
	}
	return rules
}

// NormalizeNumerals đổi số Hán-Hàn đứng trước 동/가/로 sang chữ số: "일도이동" → "일도2동".
// Chỉ áp dụng khi theo sau là khoảng trắng, cuối chuỗi hoặc chữ số, và phần gốc phía trước
// có ít nhất hai âm tiết (역삼동, 방이동 giữ nguyên).
func NormalizeNumerals(s string) string {
	for _, r := range numeralRules {
		s = r.re.ReplaceAllString(s, "${1}"+r.digit+"${2}${3}")
	}
	return s
}

var (
	reBracket       = regexp.MustCompile(`\[([^\]]+)\]`)
	reBracketAll    = regexp.MustCompile(`\[[^\]]+\]`)
	reParenAll      = regexp.MustCompile(`\([^)]+\)`)
	reLotSuffix     = regexp.MustCompile(`(\d+(?:-\d+)?)\s*번지`)
	reDigitBracket  = regexp.MustCompile(`(\d+)\s*\[`)
	buildingKeyword = []string{"아파트", "빌딩", "타워", "밸리", "센터"}
)

// ExtractBrackets bỏ phần [...] và (...) khỏi chuỗi, đồng thời lấy tên tòa nhà tham chiếu
// trong cặp [...] đầu tiên nếu có.
func ExtractBrackets(s string) (clean string, refBuilding string) {
	if m := reBracket.FindStringSubmatch(s); m != nil {
		refBuilding = referenceBuilding(m[1])
	}

	clean = reDigitBracket.ReplaceAllString(s, "$1 [")
	clean = reBracketAll.ReplaceAllString(clean, " ")
	clean = reParenAll.ReplaceAllString(clean, " ")
	clean = reLotSuffix.ReplaceAllString(clean, "$1")
	clean = strings.TrimSpace(reSpaces.ReplaceAllString(clean, " "))
	return clean, refBuilding
}

func referenceBuilding(content string) string {
	if strings.Contains(content, ",") {
		parts := strings.Split(content, ",")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			for _, kw := range buildingKeyword {
				if strings.Contains(p, kw) {
					return p
				}
			}
		}
		return strings.TrimSpace(parts[len(parts)-1])
	}
	// một mục duy nhất: bỏ qua nếu trông giống 동
	if !strings.Contains(content, "동") || strings.Contains(content, "아파트") {
		return strings.TrimSpace(content)
	}
	return ""
}

var reGenericNoise = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)

// CleanForSearch thay ký tự không phải chữ, số, gạch nối bằng khoảng trắng và bỏ hậu tố 번지.
func CleanForSearch(s string) string {
	out := reGenericNoise.ReplaceAllString(s, " ")
	out = reLotSuffix.ReplaceAllString(out, "$1")
	return strings.TrimSpace(reSpaces.ReplaceAllString(out, " "))
}

// Prepared kết quả tiền xử lý của một lượt tra cứu
type Prepared struct {
	Raw           string   // Chuỗi đầu vào
	Working       string   // Sau tách khoảng trắng, 특례시, số Hán-Hàn; trước khi bỏ ngoặc
	Clean         string   // Working đã bỏ ngoặc và 번지
	Tokens        []string // Token của Clean, không được sửa
	LiteralTokens []string // Như Tokens nhưng chưa đổi số Hán-Hàn: giữ "봉은사로", "동대구로"
	AltDistrict   string   // Cách viết 특례시 thay thế
	RefBuilding   string   // Tên tòa nhà trong [...]
}

// Prepare chạy toàn bộ pipeline tiền xử lý
func Prepare(raw string) Prepared {
	text := Canonicalize(raw)
	text = InsertSpaces(text)
	text, alt := NormalizeSpecialCity(text)
	literal, _ := ExtractBrackets(text)
	text = NormalizeNumerals(text)

	clean, ref := ExtractBrackets(text)
	return Prepared{
		Raw:           raw,
		Working:       text,
		Clean:         clean,
		Tokens:        strings.Fields(clean),
		LiteralTokens: strings.Fields(literal),
		AltDistrict:   alt,
		RefBuilding:   ref,
	}
}

// RuneLen độ dài tính theo ký tự
func RuneLen(s string) int { return utf8.RuneCountInString(s) }
