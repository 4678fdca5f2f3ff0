package parser

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/internal/search"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureRecords() []models.AddressMaster {
	return []models.AddressMaster{
		{MgmtNo: "P1", Province: "부산광역시", District: "남구", SubDistrict: "대연동", RoadName: "수영로", MainNo: 305,
			PostalCode: "48513", BuildingName: "경성대학교", LotFull: "부산광역시 남구 대연동 314-79"},
		{MgmtNo: "I1", Province: "인천광역시", District: "미추홀구", SubDistrict: "주안동", RoadName: "주안로", MainNo: 122,
			PostalCode: "22100", BuildingName: "정답빌딩",
			RoadFull: "인천광역시 미추홀구 주안로 122", LotFull: "인천광역시 미추홀구 주안동 110"},
		{MgmtNo: "G1", Province: "서울특별시", District: "금천구", SubDistrict: "가산동", RoadName: "가산디지털1로", MainNo: 25,
			PostalCode: "08594", BuildingName: "대륭테크노타운17차", LotFull: "서울특별시 금천구 가산동 371-47"},
		{MgmtNo: "T1", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "테헤란로", MainNo: 152,
			PostalCode: "06236", BuildingName: "강남파이낸스센터", LotFull: "서울특별시 강남구 역삼동 737"},
		{MgmtNo: "T2", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "테헤란로", MainNo: 152,
			PostalCode: "06236", BuildingName: "강남파이낸스센터 별관", LotFull: "서울특별시 강남구 역삼동 737-1"},
		{MgmtNo: "T3", Province: "서울특별시", District: "강남구", SubDistrict: "삼성동", RoadName: "테헤란로", MainNo: 427,
			PostalCode: "06159", BuildingName: "위워크타워", LotFull: "서울특별시 강남구 삼성동 143-40"},
		{MgmtNo: "T4", Province: "서울특별시", District: "강남구", SubDistrict: "삼성동", RoadName: "테헤란로", MainNo: 521,
			PostalCode: "06164", BuildingName: "파르나스타워", LotFull: "서울특별시 강남구 삼성동 159-8"},
		{MgmtNo: "L1", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "논현로", MainNo: 508,
			PostalCode: "06132", LotFull: "서울특별시 강남구 역삼동 1506-11"},
		{MgmtNo: "L2", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "논현로", MainNo: 510,
			PostalCode: "06132", LotFull: "서울특별시 강남구 역삼동 1506"},
		{MgmtNo: "S1", Province: "경기도", District: "수원특례시 팔달구", SubDistrict: "인계동", RoadName: "효원로", MainNo: 241,
			PostalCode: "16490", BuildingName: "수원시청", LotFull: "경기도 수원특례시 팔달구 인계동 1111"},
		{MgmtNo: "J1", Province: "제주특별자치도", District: "제주시", SubDistrict: "일도2동", RoadName: "동광로", MainNo: 1,
			PostalCode: "63229", LotFull: "제주특별자치도 제주시 일도2동 1000"},
		{MgmtNo: "C1", Province: "서울특별시", District: "서초구", SubDistrict: "서초동", RoadName: "서초대로", MainNo: 396,
			PostalCode: "06619", BuildingName: "강남빌딩", LotFull: "서울특별시 서초구 서초동 1321-11"},
		{MgmtNo: "B1", Province: "서울특별시", District: "강남구", SubDistrict: "삼성동", RoadName: "봉은사로", MainNo: 524,
			PostalCode: "06164", BuildingName: "코엑스", LotFull: "서울특별시 강남구 삼성동 167"},
	}
}

func newFixtureStore(t *testing.T) *search.MemoryStore {
	t.Helper()
	store, err := search.NewMemoryStore(fixtureRecords(), []models.AddressDetail{
		{MgmtNo: "T1", Floor: "1", DetailFull: "1층"},
		{MgmtNo: "T1", Floor: "B1", IsBasement: true, DetailFull: "지하1층"},
	})
	require.NoError(t, err)
	return store
}

// countingStore đếm số lần truy vấn store
type countingStore struct {
	search.Store
	calls atomic.Int64
}

func (s *countingStore) Find(ctx context.Context, f search.Filter, limit int) ([]models.AddressMaster, error) {
	s.calls.Add(1)
	return s.Store.Find(ctx, f, limit)
}

func (s *countingStore) First(ctx context.Context, f search.Filter) (*models.AddressMaster, error) {
	s.calls.Add(1)
	return s.Store.First(ctx, f)
}

// failingStore mọi truy vấn đều lỗi
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Find(context.Context, search.Filter, int) ([]models.AddressMaster, error) {
	return nil, errStoreDown
}

func (failingStore) First(context.Context, search.Filter) (*models.AddressMaster, error) {
	return nil, errStoreDown
}

func (failingStore) Details(context.Context, string) ([]models.AddressDetail, error) {
	return nil, errStoreDown
}

func (failingStore) Count(context.Context) (int64, error) { return 0, errStoreDown }

// fakeCorrector trả về chuỗi cố định và đếm số lần gọi
type fakeCorrector struct {
	output string
	calls  int
}

func (c *fakeCorrector) Correct(_ context.Context, raw string) string {
	c.calls++
	if c.output == "" {
		return raw
	}
	return c.output
}

func newTestMatcher(t *testing.T, store search.Store) *AddressMatcher {
	t.Helper()
	m, err := NewAddressMatcher(store, MatcherConfig{}, zap.NewNop())
	require.NoError(t, err)
	return m
}
