package parser

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenCase một đầu vào và kết quả mong đợi trong testdata/golden
type goldenCase struct {
	Raw    string `json:"raw"`
	Expect struct {
		Success        bool   `json:"success"`
		MgmtNo         string `json:"mgmt_no"`
		MatchStrategy  string `json:"match_strategy"`
		RoadAddress    string `json:"road_address"`
		RefinedAddress string `json:"refined_address,omitempty"`
		LotAddress     string `json:"jibun_address,omitempty"`
		Candidates     int    `json:"candidates,omitempty"`
		Message        string `json:"message"`
	} `json:"expect"`
}

// TestGolden chạy tất cả file golden trên fixture store, không dùng AI
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "golden", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	p := newTestParser(t, newFixtureStore(t), nil, false)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			data, err := os.ReadFile(file)
			require.NoError(t, err)

			var cases []goldenCase
			require.NoError(t, json.Unmarshal(data, &cases))

			for _, gc := range cases {
				t.Run(gc.Raw, func(t *testing.T) {
					res := p.Normalize(context.Background(), gc.Raw, NormalizeOptions{})

					assert.Equal(t, gc.Expect.Success, res.Success)
					assert.Equal(t, gc.Expect.Message, res.Message)
					assert.Equal(t, gc.Expect.MgmtNo, res.MgmtNo)
					assert.Equal(t, gc.Expect.MatchStrategy, res.MatchStrategy)
					assert.Equal(t, gc.Expect.RoadAddress, res.RoadAddress)
					if gc.Expect.RefinedAddress != "" {
						assert.Equal(t, gc.Expect.RefinedAddress, res.RefinedAddress)
					}
					if gc.Expect.LotAddress != "" {
						assert.Equal(t, gc.Expect.LotAddress, res.LotAddress)
					}
					assert.Len(t, res.Candidates, gc.Expect.Candidates)
				})
			}
		})
	}
}
