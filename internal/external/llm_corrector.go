package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LLMConfig cấu hình endpoint chat completions tương thích OpenAI (mặc định Ollama local)
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	RateLimit   time.Duration // khoảng cách tối thiểu giữa hai request
	Temperature float64
	MaxTokens   int
}

// DefaultLLMConfig giá trị mặc định
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		BaseURL:     "http://localhost:11434/v1",
		APIKey:      "ollama",
		Model:       "llama3",
		Timeout:     30 * time.Second,
		RateLimit:   200 * time.Millisecond,
		Temperature: 0.1,
		MaxTokens:   100,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// fewShots cặp ví dụ (sai → đúng) đưa vào system prompt
var fewShots = [][2]string{
	{"성울 강남 테헤란로 152", "서울특별시 강남구 테헤란로 152"},
	{"가산 디지털 1로 25", "서울특별시 금천구 가산디지털1로 25"},
	{"인천 남구 주안로 122 [주안동]", "인천광역시 미추홀구 주안로 122"},
	{"부산광역시남구수영로305 101동 202호", "부산광역시 남구 수영로 305"},
	{"수원특례시 팔달구 효원로 I", "경기도 수원시 팔달구 효원로 1"},
}

const systemPrompt = `You are an expert Korean Address Correction AI. Input may contain typos, missing spaces, or incorrect formatting.
1. Fix region and district typos.
2. Infer a missing region or district only when the road name is unique.
3. If the road name is common and the region is missing, do not assume a region.
4. Fix road name typos and preserve numbers.
5. Remove spaces inside the road name.
6. Reorder components to: [Region] [District] [Road Name] [Number].
7. Keep the main building number. Remove detail such as apartment name, floor and unit.
8. Remove content inside square brackets.
9. Remove non-address text such as delivery memos, country names and postal codes.
10. Normalize full-width characters and letters used as digits.
11. Update old administrative names to current ones.
12. Restore missing suffixes of administrative names.
Return ONLY the standardized address string.`

// LLMCorrector sửa địa chỉ qua LLM, có giới hạn tốc độ
type LLMCorrector struct {
	httpClient *resty.Client
	config     LLMConfig
	limiter    *rate.Limiter
	prompt     string
	logger     *zap.Logger
}

// NewLLMCorrector tạo mới LLMCorrector
func NewLLMCorrector(config LLMConfig, logger *zap.Logger) *LLMCorrector {
	def := DefaultLLMConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.RateLimit <= 0 {
		config.RateLimit = def.RateLimit
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = def.MaxTokens
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if config.APIKey != "" {
		client.SetAuthToken(config.APIKey)
	}

	return &LLMCorrector{
		httpClient: client,
		config:     config,
		limiter:    rate.NewLimiter(rate.Every(config.RateLimit), 1),
		prompt:     buildPrompt(),
		logger:     logger,
	}
}

func buildPrompt() string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nExamples:\n")
	for _, ex := range fewShots {
		fmt.Fprintf(&b, "- Input: '%s' -> Output: '%s'\n", ex[0], ex[1])
	}
	return b.String()
}

// Correct implements Corrector
func (c *LLMCorrector) Correct(ctx context.Context, raw string) string {
	corrected, err := c.complete(ctx, raw)
	if err != nil {
		c.logger.Warn("LLM không sửa được địa chỉ, dùng chuỗi gốc",
			zap.String("raw", raw),
			zap.Error(err))
		return raw
	}
	c.logger.Debug("LLM đã sửa địa chỉ",
		zap.String("raw", raw),
		zap.String("corrected", corrected))
	return corrected
}

func (c *LLMCorrector) complete(ctx context.Context, raw string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	request := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: fmt.Sprintf("Original: %s\nCorrected:", raw)},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var response chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("call chat completions: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completions status %d", resp.StatusCode())
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completions: no choices")
	}

	corrected := cleanCompletion(response.Choices[0].Message.Content)
	if corrected == "" {
		return "", fmt.Errorf("chat completions: empty content")
	}
	return corrected, nil
}

// cleanCompletion bỏ dấu nháy mà model hay thêm vào
func cleanCompletion(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}
