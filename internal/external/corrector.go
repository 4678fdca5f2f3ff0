// Package external chứa các cộng tác viên bên ngoài của pipeline: bộ sửa địa chỉ bằng AI
// và bộ mở rộng libpostal. Mọi lỗi đều được nuốt tại đây; đầu ra không bao giờ được tin
// trực tiếp mà luôn được match lại với dữ liệu local.
package external

import "context"

// Corrector sửa chuỗi địa chỉ thô. Khi có lỗi phải trả về nguyên raw.
type Corrector interface {
	Correct(ctx context.Context, raw string) string
}

// NoopCorrector không sửa gì
type NoopCorrector struct{}

// Correct implements Corrector
func (NoopCorrector) Correct(_ context.Context, raw string) string { return raw }
