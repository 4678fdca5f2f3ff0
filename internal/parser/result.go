package parser

import (
	"fmt"
	"strings"

	"github.com/address-normalizer/app/models"
)

// AssembleOptions ngữ cảnh của lượt tra cứu khi dựng kết quả
type AssembleOptions struct {
	AICorrected   bool   // match ở lượt thứ hai sau khi AI sửa
	CorrectedText string // chuỗi AI đã sửa
	SkipAI        bool   // bulk caller bỏ qua AI
}

// RoadForm "{시도} {시군구} {도로명} {본번}[-{부번}]"
func RoadForm(m *models.AddressMaster) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{m.Province, m.District, m.RoadName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, m.HouseNumber())
	return strings.Join(parts, " ")
}

// DisplayForm dạng đường kèm 읍면동 trong ngoặc
func DisplayForm(m *models.AddressMaster) string {
	road := RoadForm(m)
	if m.SubDistrict == "" {
		return road
	}
	return fmt.Sprintf("%s (%s)", road, m.SubDistrict)
}

// Assemble dựng NormalizationResult từ kết quả matcher
func Assemble(m Match, opts AssembleOptions) *models.NormalizationResult {
	switch v := m.(type) {
	case Matched:
		res := fromRecord(&v.Record, v.Strategy, opts)
		return res
	case Ambiguous:
		res := fromRecord(&v.Best, v.Strategy, opts)
		res.Candidates = make([]models.Candidate, 0, len(v.Rows))
		for i := range v.Rows {
			res.Candidates = append(res.Candidates, models.CandidateFrom(&v.Rows[i]))
		}
		return res
	case NotFound:
		return notFound(v.Reason, opts)
	}
	return notFound(ReasonNoMatch, opts)
}

func fromRecord(rec *models.AddressMaster, strategy MatchStrategy, opts AssembleOptions) *models.NormalizationResult {
	res := &models.NormalizationResult{
		Success:        true,
		RefinedAddress: DisplayForm(rec),
		RoadAddress:    RoadForm(rec),
		LotAddress:     rec.LotFull,
		PostalCode:     rec.PostalCode,
		Province:       rec.Province,
		District:       rec.District,
		SubDistrict:    rec.SubDistrict,
		BuildingName:   rec.BuildingName,
		MgmtNo:         rec.MgmtNo,
		MatchStrategy:  string(strategy),
		Message:        models.MessageMatchedLocal,
	}
	if opts.AICorrected {
		res.AICorrected = true
		res.Message = fmt.Sprintf(models.MessageMatchedAIFixed, opts.CorrectedText)
	}
	return res
}

func notFound(reason string, opts AssembleOptions) *models.NormalizationResult {
	res := &models.NormalizationResult{Success: false}
	switch {
	case reason == ReasonEmptyInput:
		res.Message = models.MessageEmptyInput
	case reason == ReasonLookupFailed:
		res.Message = models.MessageLookupFailed
	case opts.SkipAI:
		res.Message = models.MessageNeedsReview
	default:
		res.Message = models.MessageNotFound
	}
	return res
}
