package services

import (
	"testing"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/parser"
	"github.com/address-normalizer/internal/search"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	knownAddress   = "부산광역시 남구 수영로 305"
	unknownAddress = "엉터리 주소 입니다"
)

func newTestAddressService(t *testing.T, cache ICacheService) *AddressService {
	t.Helper()
	store, err := search.NewMemoryStore([]models.AddressMaster{
		{MgmtNo: "P1", Province: "부산광역시", District: "남구", SubDistrict: "대연동", RoadName: "수영로", MainNo: 305, PostalCode: "48513"},
		{MgmtNo: "T1", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "테헤란로", MainNo: 152, PostalCode: "06236"},
	}, nil)
	require.NoError(t, err)

	p, err := parser.NewAddressParser(store, nil, parser.Config{}, zap.NewNop())
	require.NoError(t, err)
	return NewAddressService(p, cache, AddressServiceConfig{DataVersion: "test"}, zap.NewNop())
}
