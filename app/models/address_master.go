package models

import (
	"errors"
	"fmt"
	"strings"
)

// AddressMaster bản ghi địa chỉ đường (도로명주소) tham chiếu, chỉ đọc
type AddressMaster struct {
	ID           int64  `bson:"id" json:"id"`                                            // Số thứ tự tự nhiên trong store
	MgmtNo       string `bson:"mgmt_no" json:"mgmt_no"`                                  // 건물관리번호, khóa duy nhất
	Province     string `bson:"si_nm" json:"si_nm"`                                      // 시도
	District     string `bson:"sgg_nm" json:"sgg_nm"`                                    // 시군구
	SubDistrict  string `bson:"emd_nm" json:"emd_nm"`                                    // 읍면동
	RoadName     string `bson:"road_nm" json:"road_nm"`                                  // 도로명
	MainNo       int    `bson:"buld_mainsn" json:"buld_mainsn"`                          // 건물본번
	SubNo        int    `bson:"buld_subsn" json:"buld_subsn"`                            // 건물부번, mặc định 0
	BuildingName string `bson:"buld_nm,omitempty" json:"buld_nm,omitempty"`              // 건물명
	PostalCode   string `bson:"zip_no" json:"zip_no"`                                    // 우편번호
	RoadFull     string `bson:"road_full_addr" json:"road_full_addr"`                    // Chuỗi hiển thị dạng đường
	LotFull      string `bson:"jibun_full_addr" json:"jibun_full_addr"`                  // Chuỗi hiển thị dạng 지번
	ProvinceEng  string `bson:"si_nm_eng,omitempty" json:"si_nm_eng,omitempty"`          // Tên tiếng Anh
	DistrictEng  string `bson:"sgg_nm_eng,omitempty" json:"sgg_nm_eng,omitempty"`        // Tên tiếng Anh
	RoadNameEng  string `bson:"road_nm_eng,omitempty" json:"road_nm_eng,omitempty"`      // Tên tiếng Anh
	RoadFullEng  string `bson:"road_full_addr_eng,omitempty" json:"road_full_addr_eng,omitempty"`
}

// AddressDetail đơn vị con (동/층/호) gắn với AddressMaster qua MgmtNo
type AddressDetail struct {
	MgmtNo     string `bson:"mgmt_no" json:"mgmt_no"`
	Dong       string `bson:"dong,omitempty" json:"dong,omitempty"`             // 동
	Floor      string `bson:"floor,omitempty" json:"floor,omitempty"`           // 층
	Ho         string `bson:"ho,omitempty" json:"ho,omitempty"`                 // 호
	HoDetail   string `bson:"ho_detail,omitempty" json:"ho_detail,omitempty"`   // 호 phụ
	IsBasement bool   `bson:"is_basement" json:"is_basement"`                   // Tầng hầm
	DetailFull string `bson:"detail_full,omitempty" json:"detail_full,omitempty"` // Chuỗi hiển thị đầy đủ
}

// ErrInvalidRecord bản ghi tham chiếu vi phạm ràng buộc
var ErrInvalidRecord = errors.New("invalid address record")

// Validate kiểm tra ràng buộc của bản ghi trước khi nạp vào store
func (m *AddressMaster) Validate() error {
	if strings.TrimSpace(m.MgmtNo) == "" {
		return fmt.Errorf("%w: empty mgmt_no", ErrInvalidRecord)
	}
	if m.SubNo < 0 {
		return fmt.Errorf("%w: %s has negative sub number %d", ErrInvalidRecord, m.MgmtNo, m.SubNo)
	}
	if m.MainNo < 0 {
		return fmt.Errorf("%w: %s has negative main number %d", ErrInvalidRecord, m.MgmtNo, m.MainNo)
	}
	return nil
}

// HouseNumber số nhà dạng "본번[-부번]"
func (m *AddressMaster) HouseNumber() string {
	if m.SubNo > 0 {
		return fmt.Sprintf("%d-%d", m.MainNo, m.SubNo)
	}
	return fmt.Sprintf("%d", m.MainNo)
}

// DeriveRoadFull điền chuỗi hiển thị dạng đường nếu dữ liệu nguồn để trống.
// Chỉ được gọi một lần lúc nạp dữ liệu.
func (m *AddressMaster) DeriveRoadFull() {
	if m.RoadFull != "" {
		return
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{m.Province, m.District, m.RoadName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, m.HouseNumber())
	m.RoadFull = strings.Join(parts, " ")
}
