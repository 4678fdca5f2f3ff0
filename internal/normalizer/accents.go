package normalizer

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Canonicalize đưa chuỗi về NFC và gập ký tự full-width (１２３, ＡＢＣ) về half-width.
// Hangul dạng tách rời (NFD) được ghép lại để regex [가-힣] hoạt động.
func Canonicalize(s string) string {
	t := transform.Chain(norm.NFC, width.Fold)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}

// Romanize phiên âm Latin, chữ thường. Dùng làm khóa so sánh khi xếp hạng.
func Romanize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(unidecode.Unidecode(s)), " "))
}

// Compact bỏ toàn bộ khoảng trắng
func Compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
