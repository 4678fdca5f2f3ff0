package routes

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/address-normalizer/app/controllers"
	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/app/responses"
	"github.com/address-normalizer/app/services"
	"github.com/address-normalizer/internal/parser"
	"github.com/address-normalizer/internal/search"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := search.NewMemoryStore([]models.AddressMaster{
		{MgmtNo: "P1", Province: "부산광역시", District: "남구", SubDistrict: "대연동", RoadName: "수영로", MainNo: 305, PostalCode: "48513"},
		{MgmtNo: "T1", Province: "서울특별시", District: "강남구", SubDistrict: "역삼동", RoadName: "테헤란로", MainNo: 152,
			PostalCode: "06236", BuildingName: "강남파이낸스센터"},
	}, []models.AddressDetail{{MgmtNo: "T1", Floor: "1", DetailFull: "1층"}})
	require.NoError(t, err)

	logger := zap.NewNop()
	p, err := parser.NewAddressParser(store, nil, parser.Config{}, logger)
	require.NoError(t, err)

	cache := services.NewMemoryCacheService(16, time.Minute)
	addressService := services.NewAddressService(p, cache, services.AddressServiceConfig{DataVersion: "test"}, logger)
	adminService := services.NewAdminService(addressService, cache, nil, logger)

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(addressService, "test", logger),
		controllers.NewAdminController(adminService, logger),
		logger)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNormalizeEndpoint(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name    string
		body    any
		status  int
		success bool
		message string
	}{
		{"matched", gin.H{"address": "부산광역시남구수영로305"}, http.StatusOK, true, models.MessageMatchedLocal},
		{"empty_address", gin.H{"address": ""}, http.StatusOK, false, models.MessageEmptyInput},
		{"skip_ai_miss", gin.H{"address": "엉터리 주소 입니다", "skip_ai": true}, http.StatusOK, false, models.MessageNeedsReview},
		{"invalid_json", "{", http.StatusBadRequest, false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/v1/addresses/normalize", tc.body)
			require.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tc.status != http.StatusOK {
				var errResp responses.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
				assert.Equal(t, "INVALID_REQUEST", errResp.Error)
				return
			}

			var resp responses.NormalizeAddressResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "test", resp.DataVersion)
			assert.Equal(t, tc.success, resp.Result.Success)
			assert.Equal(t, tc.message, resp.Result.Message)
		})
	}

	// lần thứ hai lấy từ cache
	w := doRequest(t, router, http.MethodPost, "/v1/addresses/normalize", gin.H{"address": "부산광역시남구수영로305"})
	var resp responses.NormalizeAddressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.CacheHit)
	assert.Equal(t, "48513", resp.Result.PostalCode)
}

func TestSearchAndDetailsEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/addresses/search?q="+url.QueryEscape("테헤란로 152")+"&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var search responses.SearchAddressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &search))
	require.Equal(t, 1, search.Total)
	assert.Equal(t, "T1", search.Candidates[0].MgmtNo)

	w = doRequest(t, router, http.MethodGet, "/v1/addresses/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/v1/addresses/T1/details", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details responses.AddressDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Len(t, details.Details, 1)
	assert.Equal(t, "1층", details.Details[0].DetailFull)
}

func TestJobEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/v1/addresses/jobs", gin.H{
		"addresses": []string{"부산 남구 수영로 305", "엉터리 주소 입니다"},
		"skip_ai":   true,
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var created responses.BulkNormalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.JobID)
	assert.Equal(t, 2, created.TotalAddresses)

	base := "/v1/addresses/jobs/" + created.JobID
	require.Eventually(t, func() bool {
		w := doRequest(t, router, http.MethodGet, base+"/status", nil)
		var status responses.JobStatusResponse
		_ = json.Unmarshal(w.Body.Bytes(), &status)
		return status.Status == services.JobStatusDone
	}, 2*time.Second, 10*time.Millisecond)

	w = doRequest(t, router, http.MethodGet, base+"/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results struct {
		Data []models.NormalizationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results.Data, 2)
	assert.True(t, results.Data[0].Success)
	assert.Equal(t, models.MessageNeedsReview, results.Data[1].Message)

	w = doRequest(t, router, http.MethodGet, base+"/results?format=ndjson&gzip=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	lines := 0
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var r models.NormalizationResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines++
	}
	assert.Equal(t, 2, lines)

	w = doRequest(t, router, http.MethodPost, base+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodGet, "/v1/addresses/jobs/missing/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/addresses/jobs", gin.H{"addresses": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAndHealthEndpoints(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"records":2`))

	w = doRequest(t, router, http.MethodPost, "/v1/admin/cache/invalidate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/admin/indexes/build", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = doRequest(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health responses.HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)

	w = doRequest(t, router, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
