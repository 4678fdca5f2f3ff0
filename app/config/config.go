package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/address-normalizer/internal/external"
	"github.com/address-normalizer/internal/parser"
	"gopkg.in/yaml.v3"
)

// Các backend của reference store
const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMeili    = "meili"
)

// Các loại cache kết quả
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheHybrid = "hybrid"
)

type StoreCfg struct {
	Driver       string `yaml:"driver" json:"driver"`
	DataPath     string `yaml:"data_path" json:"data_path"` // file JSON cho memory store
	FetchWindow  int    `yaml:"fetch_window" json:"fetch_window"`
	MaxTotalHits int    `yaml:"max_total_hits" json:"max_total_hits"` // trần số hit Meilisearch duyệt cho một truy vấn
}

type MatcherCfg struct {
	ExactLimit    int `yaml:"exact_limit" json:"exact_limit"`
	FuzzyLimit    int `yaml:"fuzzy_limit" json:"fuzzy_limit"`
	BuildingLimit int `yaml:"building_limit" json:"building_limit"`
}

type SearchCfg struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit"`
	FetchFactor  int `yaml:"fetch_factor" json:"fetch_factor"`
}

type LLMCfg struct {
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	Model       string        `yaml:"model" json:"model"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	RateLimit   time.Duration `yaml:"rate_limit" json:"rate_limit"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`
}

type CacheCfg struct {
	Driver string        `yaml:"driver" json:"driver"`
	Size   int           `yaml:"size" json:"size"`
	TTL    time.Duration `yaml:"ttl" json:"ttl"`
}

type JobsCfg struct {
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	MaxJobs int           `yaml:"max_jobs" json:"max_jobs"`
}

type ParserCfg struct {
	UseAI        bool       `yaml:"use_ai" json:"use_ai"`
	UseLibpostal bool       `yaml:"use_libpostal" json:"use_libpostal"`
	DataVersion  string     `yaml:"data_version" json:"data_version"`
	Store        StoreCfg   `yaml:"store" json:"store"`
	Matcher      MatcherCfg `yaml:"matcher" json:"matcher"`
	Search       SearchCfg  `yaml:"search" json:"search"`
	LLM          LLMCfg     `yaml:"llm" json:"llm"`
	Cache        CacheCfg   `yaml:"cache" json:"cache"`
	Jobs         JobsCfg    `yaml:"jobs" json:"jobs"`
}

var C = Default()

// Default cấu hình khi không có file
func Default() ParserCfg {
	llm := external.DefaultLLMConfig()
	matcher := parser.DefaultMatcherConfig()
	search := parser.DefaultSearchConfig()
	return ParserCfg{
		DataVersion: "1",
		Store:       StoreCfg{Driver: StoreMemory, DataPath: "data/address_master.json", FetchWindow: 1000, MaxTotalHits: 1_000_000},
		Matcher:     MatcherCfg{ExactLimit: matcher.ExactLimit, FuzzyLimit: matcher.FuzzyLimit, BuildingLimit: matcher.BuildingLimit},
		Search:      SearchCfg{DefaultLimit: search.DefaultLimit, MaxLimit: search.MaxLimit, FetchFactor: search.FetchFactor},
		LLM: LLMCfg{
			BaseURL:     llm.BaseURL,
			Model:       llm.Model,
			Timeout:     llm.Timeout,
			RateLimit:   llm.RateLimit,
			Temperature: llm.Temperature,
			MaxTokens:   llm.MaxTokens,
		},
		Cache: CacheCfg{Driver: CacheMemory, Size: 10000, TTL: 24 * time.Hour},
		Jobs:  JobsCfg{TTL: time.Hour, MaxJobs: 100},
	}
}

// Parse đọc YAML chồng lên giá trị mặc định
func Parse(b []byte) (ParserCfg, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return ParserCfg{}, err
	}
	return cfg, nil
}

// Load đọc file cấu hình vào C. File không tồn tại thì giữ mặc định.
func Load(path string) error {
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		if cfg, err = Parse(b); err != nil {
			return err
		}
	}

	applyEnv(&cfg)
	C = cfg
	return nil
}

// ENV overrides
func applyEnv(cfg *ParserCfg) {
	switch os.Getenv("USE_AI") {
	case "0", "false":
		cfg.UseAI = false
	case "1", "true":
		cfg.UseAI = true
	}
	switch os.Getenv("USE_LIBPOSTAL") {
	case "0":
		cfg.UseLibpostal = false
	case "1":
		cfg.UseLibpostal = true
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
}

// ParserConfig cấu hình cho parser.NewAddressParser. Bật libpostal cũng bật lượt sửa thứ hai
// vì corrector được chọn theo UseLibpostal.
func (c ParserCfg) ParserConfig() parser.Config {
	return parser.Config{
		UseAI: c.UseAI || c.UseLibpostal,
		Matcher: parser.MatcherConfig{
			ExactLimit:    c.Matcher.ExactLimit,
			FuzzyLimit:    c.Matcher.FuzzyLimit,
			BuildingLimit: c.Matcher.BuildingLimit,
		},
		Search: parser.SearchConfig{
			DefaultLimit: c.Search.DefaultLimit,
			MaxLimit:     c.Search.MaxLimit,
			FetchFactor:  c.Search.FetchFactor,
		},
	}
}

// LLMConfig cấu hình cho external.NewLLMCorrector. API key lấy từ môi trường.
func (c ParserCfg) LLMConfig(apiKey string) external.LLMConfig {
	return external.LLMConfig{
		BaseURL:     c.LLM.BaseURL,
		APIKey:      apiKey,
		Model:       c.LLM.Model,
		Timeout:     c.LLM.Timeout,
		RateLimit:   c.LLM.RateLimit,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

func RequestTimeout() time.Duration { return 1500 * time.Millisecond }
