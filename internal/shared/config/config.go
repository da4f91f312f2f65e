package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider    string
	OpenAIAPIKey   string
	LLMModel       string
	LLMFastModel   string
	EmbeddingModel string
	OpenAITimeout  time.Duration

	ExaAPIKey      string
	SearchTimeout  time.Duration
	RedisAddr      string
	SearchCacheTTL time.Duration

	RateLimitGeneratePerMin int
	RateLimitDefaultPerMin  int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai")))
	apiKey := os.Getenv("OPENAI_API_KEY")

	if env == "production" && provider == "openai" && apiKey == "" {
		log.Printf("OPENAI_API_KEY is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMProvider:    provider,
		OpenAIAPIKey:   apiKey,
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o"),
		LLMFastModel:   getEnv("LLM_FAST_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),
		OpenAITimeout:  getSeconds("OPENAI_TIMEOUT_SECONDS", 120),

		ExaAPIKey:      os.Getenv("EXA_API_KEY"),
		SearchTimeout:  getSeconds("SEARCH_TIMEOUT_SECONDS", 15),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		SearchCacheTTL: getDuration("SEARCH_CACHE_TTL", 6*time.Hour),

		RateLimitGeneratePerMin: getInt("RATE_LIMIT_GENERATE_PER_MIN", 10),
		RateLimitDefaultPerMin:  getInt("RATE_LIMIT_DEFAULT_PER_MIN", 120),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
