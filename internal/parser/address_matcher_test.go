package parser

import (
	"context"
	"testing"

	"github.com/address-normalizer/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewAddressMatcher_NilStore(t *testing.T) {
	_, err := NewAddressMatcher(nil, MatcherConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, search.ErrNilStore)
}

func TestAddressMatcher_Match(t *testing.T) {
	matcher := newTestMatcher(t, newFixtureStore(t))

	testCases := []struct {
		name     string
		input    string
		mgmtNo   string
		strategy MatchStrategy
	}{
		{"no_spaces", "부산광역시남구수영로305", "P1", MatchStrategyExact},
		{"split_road_name", "가산 디지털 1로 25", "G1", MatchStrategyExact},
		{"fuzzy_road", "서울 금천구 디지털1로 25", "G1", MatchStrategyFuzzy},
		{"reference_building_tier", "인천 미추홀구 없는로 122 [정답빌딩]", "I1", MatchStrategyBuilding},
		{"district_renamed", "인천 남구 주안동 110", "I1", MatchStrategyGeneric},
		{"strict_lot_number", "서울 강남구 역삼동 1506", "L2", MatchStrategyGeneric},
		{"lot_with_suffix", "서울 강남구 역삼동 1506-11번지", "L1", MatchStrategyGeneric},
		{"numeral_dong", "제주 제주시 일도이동 1000", "J1", MatchStrategyGeneric},
		{"building_fallback", "파르나스 타워 521", "T4", MatchStrategyGenericBuilding},
		{"bracket_only", "[정답빌딩]", "I1", MatchStrategyReference},
		{"special_city_plain", "경기도 수원시 팔달구 효원로 241", "S1", MatchStrategyExact},
		{"special_city_special", "경기도 수원특례시 팔달구 효원로 241", "S1", MatchStrategyExact},
		{"full_width_digits", "부산 남구 수영로 ３０５", "P1", MatchStrategyExact},
		{"numeral_like_road_name", "서울 강남구 봉은사로 524", "B1", MatchStrategyExact},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := matcher.Match(context.Background(), tc.input)
			require.NoError(t, err)

			got, ok := m.(Matched)
			require.True(t, ok, "expected Matched, got %#v", m)
			assert.Equal(t, tc.mgmtNo, got.Record.MgmtNo)
			assert.Equal(t, tc.strategy, got.Strategy)
		})
	}
}

func TestAddressMatcher_Ambiguous(t *testing.T) {
	matcher := newTestMatcher(t, newFixtureStore(t))

	m, err := matcher.Match(context.Background(), "서울 강남구 테헤란로 152")
	require.NoError(t, err)

	amb, ok := m.(Ambiguous)
	require.True(t, ok)
	assert.Equal(t, MatchStrategyExact, amb.Strategy)
	assert.Equal(t, "T1", amb.Best.MgmtNo)
	require.Len(t, amb.Rows, 2)
	assert.Equal(t, "T2", amb.Rows[1].MgmtNo)
}

func TestAddressMatcher_TierPriority(t *testing.T) {
	matcher := newTestMatcher(t, newFixtureStore(t))

	// 테헤란로 427 còn khớp được bằng tên tòa nhà, nhưng tầng exact phải thắng
	m, err := matcher.Match(context.Background(), "서울 강남구 테헤란로 427 [위워크타워]")
	require.NoError(t, err)
	got, ok := m.(Matched)
	require.True(t, ok)
	assert.Equal(t, "T3", got.Record.MgmtNo)
	assert.Equal(t, MatchStrategyExact, got.Strategy)
}

func TestAddressMatcher_NotFound(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		reason string
		calls  int64
	}{
		{"empty", "", ReasonEmptyInput, 0},
		{"whitespace", "   \t ", ReasonEmptyInput, 0},
		{"single_token", "테헤란로", ReasonNoMatch, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &countingStore{Store: newFixtureStore(t)}
			matcher := newTestMatcher(t, store)

			m, err := matcher.Match(context.Background(), tc.input)
			require.NoError(t, err)
			assert.Equal(t, NotFound{Reason: tc.reason}, m)
			assert.Equal(t, tc.calls, store.calls.Load())
		})
	}

	matcher := newTestMatcher(t, newFixtureStore(t))
	m, err := matcher.Match(context.Background(), "엉터리 주소 입니다")
	require.NoError(t, err)
	assert.Equal(t, NotFound{Reason: ReasonNoMatch}, m)
}

func TestAddressMatcher_StoreError(t *testing.T) {
	matcher := newTestMatcher(t, failingStore{})

	_, err := matcher.Match(context.Background(), "부산광역시 남구 수영로 305")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAddressMatcher_Deterministic(t *testing.T) {
	matcher := newTestMatcher(t, newFixtureStore(t))
	inputs := []string{"인천 남구 주안동 110", "서울 강남구 테헤란로 152", "파르나스 타워 521"}

	for _, in := range inputs {
		first, err := matcher.Match(context.Background(), in)
		require.NoError(t, err)
		second, err := matcher.Match(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, second, "input %q", in)
	}
}
