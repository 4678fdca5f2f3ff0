package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/address-normalizer/app/models"
)

// MemoryStore store trong bộ nhớ, giữ nguyên thứ tự nạp. Dùng cho CLI, fixture và test.
type MemoryStore struct {
	records []models.AddressMaster
	details map[string][]models.AddressDetail
}

// Seed định dạng file nạp dữ liệu
type Seed struct {
	Addresses []models.AddressMaster `json:"addresses"`
	Details   []models.AddressDetail `json:"details"`
}

// NewMemoryStore kiểm tra ràng buộc và sao chép dữ liệu. Chuỗi hiển thị được suy ra một lần tại đây.
func NewMemoryStore(records []models.AddressMaster, details []models.AddressDetail) (*MemoryStore, error) {
	s := &MemoryStore{
		records: make([]models.AddressMaster, 0, len(records)),
		details: make(map[string][]models.AddressDetail),
	}

	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[r.MgmtNo]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate mgmt_no %s", i, models.ErrInvalidRecord, r.MgmtNo)
		}
		seen[r.MgmtNo] = struct{}{}

		if r.ID == 0 {
			r.ID = int64(i + 1)
		}
		r.DeriveRoadFull()
		s.records = append(s.records, r)
	}

	for _, d := range details {
		s.details[d.MgmtNo] = append(s.details[d.MgmtNo], d)
	}
	return s, nil
}

// LoadMemoryStore nạp store từ file JSON dạng Seed
func LoadMemoryStore(path string) (*MemoryStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return NewMemoryStore(seed.Addresses, seed.Details)
}

// Find implements Store
func (s *MemoryStore) Find(ctx context.Context, filter Filter, limit int) ([]models.AddressMaster, error) {
	var out []models.AddressMaster
	for i := range s.records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if filter.Match(&s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// First implements Store
func (s *MemoryStore) First(ctx context.Context, filter Filter) (*models.AddressMaster, error) {
	rows, err := s.Find(ctx, filter, 1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Details implements Store
func (s *MemoryStore) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	rows := s.details[mgmtNo]
	out := make([]models.AddressDetail, len(rows))
	copy(out, rows)
	return out, nil
}

// Count implements Store
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

// All bản sao toàn bộ bản ghi, dùng khi đồng bộ sang backend khác
func (s *MemoryStore) All() []models.AddressMaster {
	out := make([]models.AddressMaster, len(s.records))
	copy(out, s.records)
	return out
}

// AllDetails bản sao toàn bộ đơn vị con
func (s *MemoryStore) AllDetails() []models.AddressDetail {
	var out []models.AddressDetail
	for _, r := range s.records {
		out = append(out, s.details[r.MgmtNo]...)
	}
	return out
}
