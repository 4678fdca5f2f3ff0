package models

// MessageNeedsReview sentinel cho bulk job bỏ qua AI và không tìm thấy kết quả local.
// Caller phải phân biệt giá trị này với thông báo lỗi thông thường.
const MessageNeedsReview = "needs_review"

// Thông báo chuẩn của NormalizationResult
const (
	MessageMatchedLocal   = "Matched via Local DB (Fast)"
	MessageMatchedAIFixed = "Matched via Local DB (AI Fixed: %s)"
	MessageNotFound       = "Address not found in Local DB."
	MessageEmptyInput     = "Address is empty."
	MessageLookupFailed   = "Address lookup failed."
)

// NormalizationResult kết quả chuẩn hóa một địa chỉ, không được lưu lại
type NormalizationResult struct {
	Success        bool        `json:"success"`                   // Có match hay không
	RefinedAddress string      `json:"refined_address,omitempty"` // Chuỗi hiển thị chuẩn
	RoadAddress    string      `json:"road_address,omitempty"`    // Dạng đường
	LotAddress     string      `json:"jibun_address,omitempty"`   // Dạng 지번
	PostalCode     string      `json:"zip_code,omitempty"`        // Mã bưu chính
	Province       string      `json:"si_nm,omitempty"`           // 시도
	District       string      `json:"sgg_nm,omitempty"`          // 시군구
	SubDistrict    string      `json:"emd_nm,omitempty"`          // 읍면동
	BuildingName   string      `json:"buld_nm,omitempty"`         // 건물명
	MgmtNo         string      `json:"bd_mgt_sn,omitempty"`       // 건물관리번호
	AICorrected    bool        `json:"is_ai_corrected"`           // Match ở lượt thứ hai sau khi AI sửa
	MatchStrategy  string      `json:"match_strategy,omitempty"`  // Tầng matcher đã thắng
	Candidates     []Candidate `json:"candidates,omitempty"`      // Chỉ có khi một tầng trả về nhiều dòng
	Message        string      `json:"message"`                   // Thông báo hoặc sentinel
}

// NeedsReview kết quả là sentinel "needs_review" của bulk job
func (r *NormalizationResult) NeedsReview() bool {
	return r != nil && !r.Success && r.Message == MessageNeedsReview
}

// Candidate tóm tắt một ứng viên, dùng chung cho kết quả mơ hồ và Candidate Search
type Candidate struct {
	ID           int64   `json:"id"`
	MgmtNo       string  `json:"mgmt_no"`
	RoadName     string  `json:"road"`
	MainNo       int     `json:"main"`
	SubNo        int     `json:"sub,omitempty"`
	RoadAddress  string  `json:"road_address"`
	LotAddress   string  `json:"jibun_address"`
	BuildingName string  `json:"building_name"`
	PostalCode   string  `json:"zip_code"`
	Province     string  `json:"si_nm"`
	District     string  `json:"sgg_nm"`
	SubDistrict  string  `json:"emd_nm"`
	Score        float64 `json:"score,omitempty"` // Điểm xếp hạng, chỉ Candidate Search
}

// CandidateFrom tạo Candidate từ bản ghi tham chiếu
func CandidateFrom(m *AddressMaster) Candidate {
	return Candidate{
		ID:           m.ID,
		MgmtNo:       m.MgmtNo,
		RoadName:     m.RoadName,
		MainNo:       m.MainNo,
		SubNo:        m.SubNo,
		RoadAddress:  m.RoadFull,
		LotAddress:   m.LotFull,
		BuildingName: m.BuildingName,
		PostalCode:   m.PostalCode,
		Province:     m.Province,
		District:     m.District,
		SubDistrict:  m.SubDistrict,
	}
}
