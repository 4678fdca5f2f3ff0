package parser

import (
	"sort"
	"unicode/utf8"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/normalizer"
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Trọng số điểm xếp hạng ứng viên
const (
	weightJaroWinkler = 0.6
	weightLevenshtein = 0.4
)

// similarity điểm trong [0,1] giữa hai chuỗi đã phiên âm Latin
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	lev := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)

	return weightJaroWinkler*jw + weightLevenshtein*lev
}

// candidateText chuỗi đại diện của ứng viên khi so với câu truy vấn
func candidateText(c models.Candidate) string {
	if c.BuildingName == "" {
		return c.RoadAddress
	}
	return c.RoadAddress + " " + c.BuildingName
}

// rankCandidates gán điểm và sắp xếp ổn định theo điểm giảm dần.
// Các ứng viên bằng điểm giữ thứ tự của store.
func rankCandidates(query string, cands []models.Candidate) {
	q := normalizer.Romanize(query)
	for i := range cands {
		cands[i].Score = similarity(q, normalizer.Romanize(candidateText(cands[i])))
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
}
