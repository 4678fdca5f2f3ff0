package requests

// NormalizeAddressRequest request chuẩn hóa địa chỉ đơn lẻ
type NormalizeAddressRequest struct {
	Address string `json:"address"`           // Địa chỉ cần chuẩn hóa, chuỗi rỗng trả về "Address is empty."
	SkipAI  bool   `json:"skip_ai,omitempty"` // Không gọi AI, không match thì trả về needs_review
}

// SearchAddressRequest query của tra cứu ứng viên
type SearchAddressRequest struct {
	Query string `form:"q" binding:"required"` // Chuỗi tìm kiếm
	Limit int    `form:"limit"`                // Số ứng viên tối đa, <= 0 dùng mặc định
}

// BulkNormalizeRequest request chuẩn hóa hàng loạt địa chỉ
type BulkNormalizeRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	SkipAI    bool     `json:"skip_ai,omitempty"`
}
