// Package search cung cấp giao diện truy vấn chỉ-đọc trên dữ liệu địa chỉ tham chiếu
// cùng các backend: in-memory, MongoDB, PostgreSQL và Meilisearch.
package search

import (
	"context"
	"errors"

	"github.com/address-normalizer/app/models"
)

// ErrNilStore store chưa được cấu hình
var ErrNilStore = errors.New("address store is not configured")

// Store truy vấn chỉ-đọc trên AddressMaster / AddressDetail.
// Thứ tự kết quả là thứ tự tự nhiên của store (theo id), ổn định giữa các lần gọi.
type Store interface {
	// Find trả về tối đa limit dòng khớp filter
	Find(ctx context.Context, filter Filter, limit int) ([]models.AddressMaster, error)

	// First trả về dòng đầu tiên khớp filter, nil nếu không có
	First(ctx context.Context, filter Filter) (*models.AddressMaster, error)

	// Details trả về các đơn vị con theo mã quản lý
	Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error)

	// Count tổng số bản ghi tham chiếu
	Count(ctx context.Context) (int64, error)
}
