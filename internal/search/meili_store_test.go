package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/address-normalizer/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMeiliQuery(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		query  string
		expr   string
	}{
		{"empty", nil, "", ""},
		{
			"equality and number",
			Filter{Eq(FieldRoadName, "수영로"), IntEq(FieldMainNo, 305)},
			"", `(road_nm = "수영로") AND buld_mainsn = 305`,
		},
		{
			"or over values",
			Filter{Eq(FieldDistrict, "수원시 팔달구", "수원특례시 팔달구")},
			"", `(sgg_nm = "수원시 팔달구" OR sgg_nm = "수원특례시 팔달구")`,
		},
		{
			"like only uses longest fragment",
			Filter{Like(FieldLotFull, "%인천%주안동% 110"), Contains(FieldBuildingName, "정답")},
			"주안동", "",
		},
		{
			"equality wins over like",
			Filter{Eq(FieldProvince, "서울특별시"), Contains(FieldBuildingName, "파르나스")},
			"", `(si_nm = "서울특별시")`,
		},
		{
			"compact equality stays in process",
			Filter{Eq(FieldRoadName, "가산디지털1로").Compact()},
			"", "",
		},
		{
			"prefix stays in process",
			Filter{Eq(FieldRoadName, "테헤란로", `a"b`), IntEq(FieldMainNo, 152), Prefix(FieldProvince, "서울")},
			"", `(road_nm = "테헤란로" OR road_nm = "a\"b") AND buld_mainsn = 152`,
		},
		{
			"longest fragment across predicates",
			Filter{Contains(FieldBuildingName, "파이낸스"), Like(FieldLotFull, "%인천%주안동% 110")},
			"파이낸스", "",
		},
		{
			"quotes escaped",
			Filter{Eq(FieldBuildingName, `a"b`)},
			"", `(buld_nm = "a\"b")`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, expr := MeiliQuery(tc.filter)
			assert.Equal(t, tc.query, query)
			assert.Equal(t, tc.expr, expr)
		})
	}
}

// newFakeMeili giả lập health và search của Meilisearch, cắt hits theo offset/limit của request
func newFakeMeili(t *testing.T, hits []models.AddressMaster) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var requests []map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"available"}`))
		case "/indexes/address_master/search":
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			requests = append(requests, body)

			offset, _ := body["offset"].(float64)
			limit, ok := body["limit"].(float64)
			if !ok {
				limit = 20
			}
			from := min(int(offset), len(hits))
			to := min(from+int(limit), len(hits))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"hits":               hits[from:to],
				"query":              body["q"],
				"processingTimeMs":   1,
				"limit":              int(limit),
				"offset":             int(offset),
				"estimatedTotalHits": len(hits),
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestMeiliStore_Find(t *testing.T) {
	hits := []models.AddressMaster{
		{ID: 1, MgmtNo: "T1", District: "강남구", RoadName: "테헤란로", MainNo: 152, BuildingName: "강남파이낸스센터"},
		{ID: 2, MgmtNo: "T3", District: "강남구", RoadName: "테헤란로", MainNo: 427, BuildingName: "위워크타워"},
		{ID: 3, MgmtNo: "T2", District: "강남구", RoadName: "테헤란로", MainNo: 152, BuildingName: "강남파이낸스센터 별관"},
	}
	srv, requests := newFakeMeili(t, hits)

	store, err := NewMeiliStore(MeiliConfig{Host: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	filter := Filter{Eq(FieldDistrict, "강남구"), Contains(FieldBuildingName, "강남파이낸스")}

	rows, err := store.Find(context.Background(), filter, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "T1", rows[0].MgmtNo)
	assert.Equal(t, "T2", rows[1].MgmtNo)

	first, err := store.First(context.Background(), filter)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "T1", first.MgmtNo)

	none, err := store.First(context.Background(), Filter{Contains(FieldBuildingName, "없는빌딩")})
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NotEmpty(t, *requests)
	req := (*requests)[0]
	assert.Equal(t, `(sgg_nm = "강남구")`, req["filter"])
	assert.Equal(t, []interface{}{"id:asc"}, req["sort"])
}

// pagedHits n dòng cùng số nhà 25, chỉ dòng cuối nằm trên đường 가산디지털1로
func pagedHits(n int) []models.AddressMaster {
	hits := make([]models.AddressMaster, n)
	for i := range hits {
		hits[i] = models.AddressMaster{ID: int64(i + 1), MgmtNo: fmt.Sprintf("M%d", i+1), RoadName: "다른로", MainNo: 25}
	}
	hits[n-1].RoadName = "가산디지털1로"
	return hits
}

func TestMeiliStore_FindPagesPastFetchWindow(t *testing.T) {
	filter := Filter{Contains(FieldRoadName, "디지털1로"), IntEq(FieldMainNo, 25)}

	testCases := []struct {
		name         string
		maxTotalHits int
		wantErr      error
		wantRequests int
	}{
		{"match on last page", 0, nil, 3},
		{"scan limit before match", 4, ErrScanLimit, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, requests := newFakeMeili(t, pagedHits(5))
			store, err := NewMeiliStore(MeiliConfig{Host: srv.URL, FetchWindow: 2, MaxTotalHits: tc.maxTotalHits}, zap.NewNop())
			require.NoError(t, err)

			rows, err := store.Find(context.Background(), filter, 5)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				require.Len(t, rows, 1)
				assert.Equal(t, "M5", rows[0].MgmtNo)
			}
			require.Len(t, *requests, tc.wantRequests)
			for i, req := range *requests {
				offset, _ := req["offset"].(float64)
				assert.Equal(t, float64(2*i), offset)
			}
		})
	}
}

func TestMeiliStore_FindStopsAtLimit(t *testing.T) {
	srv, requests := newFakeMeili(t, pagedHits(6))
	store, err := NewMeiliStore(MeiliConfig{Host: srv.URL, FetchWindow: 2}, zap.NewNop())
	require.NoError(t, err)

	rows, err := store.Find(context.Background(), Filter{Contains(FieldRoadName, "다른")}, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, *requests, 2)
}

func TestNewMeiliStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewMeiliStore(MeiliConfig{Host: srv.URL}, zap.NewNop())
	assert.Error(t, err)
}
