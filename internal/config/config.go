// Package config loads and validates the concierge service's runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tone is the persona style applied to generated answers.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneFormal   Tone = "formal"
	ToneSales    Tone = "sales"
	ToneLuxury   Tone = "luxury"
)

// Config holds every environment-driven setting the service needs at startup.
// It is populated by FromEnv and checked by Validate before anything else runs,
// mirroring the teacher's profile.Profile fail-fast-at-startup convention.
type Config struct {
	// Chat platform (Telegram).
	TelegramBotToken    string
	TelegramOwnerChatID int64
	TelegramBotUsername string

	// LLM / embedding providers (OpenAI-compatible protocol).
	LLMModel          string
	LLMAPIKey         string
	LLMBaseURL        string
	EmbeddingModel     string
	EmbeddingAPIKey    string
	EmbeddingBaseURL   string
	EmbeddingDimension int
	LLMMaxTokens       int
	ContextWindowSize  int

	// RAG tuning.
	RAGTopK         int
	RAGMinRelevance float64
	ChunkMaxTokens  int

	// Memory / summarization.
	SummaryThreshold int

	// Rate limiting.
	RateLimitPerMinute int
	RateLimitPerHour   int
	RateLimitPerDay    int

	// Admin HTTP surface.
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	AdminSecretKey    string
	AdminHost         string
	AdminPort         int

	// Storage.
	DataDir       string
	DBPath        string
	VectorIndexDir string

	// Business profile.
	BusinessName    string
	BusinessPhone   string
	BusinessAddress string
	BusinessWebsite string

	FollowUpEnabled bool

	// Referral credits.
	ReferralCreditAmount     float64
	ReferralCreditExpiryDays int

	Mode string // dev | prod
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// FromEnv populates a Config from the process environment, applying the
// defaults named in spec.md section 6.
func FromEnv() *Config {
	c := &Config{
		TelegramBotToken:    env("TELEGRAM_BOT_TOKEN", ""),
		TelegramOwnerChatID: envInt64("TELEGRAM_OWNER_CHAT_ID", 0),
		TelegramBotUsername: env("TELEGRAM_BOT_USERNAME", ""),

		LLMModel:         env("OPENAI_MODEL", "gpt-4o-mini"),
		LLMAPIKey:        env("OPENAI_API_KEY", ""),
		LLMBaseURL:       env("OPENAI_BASE_URL", ""),
		EmbeddingModel:     env("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingAPIKey:    env("EMBEDDING_API_KEY", env("OPENAI_API_KEY", "")),
		EmbeddingBaseURL:   env("EMBEDDING_BASE_URL", env("OPENAI_BASE_URL", "")),
		EmbeddingDimension: envInt("EMBEDDING_DIMENSION", 1536),
		LLMMaxTokens:      envInt("LLM_MAX_TOKENS", 1024),
		ContextWindowSize: envInt("CONTEXT_WINDOW_SIZE", 10),

		RAGTopK:         envInt("RAG_TOP_K", 10),
		RAGMinRelevance: envFloat("RAG_MIN_RELEVANCE", 0.3),
		ChunkMaxTokens:  envInt("CHUNK_MAX_TOKENS", 300),

		SummaryThreshold: envInt("SUMMARY_THRESHOLD", 10),

		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitPerHour:   envInt("RATE_LIMIT_PER_HOUR", 50),
		RateLimitPerDay:    envInt("RATE_LIMIT_PER_DAY", 100),

		AdminUsername:     env("ADMIN_USERNAME", "admin"),
		AdminPassword:     env("ADMIN_PASSWORD", ""),
		AdminPasswordHash: env("ADMIN_PASSWORD_HASH", ""),
		AdminSecretKey:    env("ADMIN_SECRET_KEY", ""),
		AdminHost:         env("ADMIN_HOST", "0.0.0.0"),
		AdminPort:         envInt("ADMIN_PORT", envInt("PORT", 8080)),

		DataDir: env("DATA_DIR", "./data"),

		BusinessName:    env("BUSINESS_NAME", "Our Business"),
		BusinessPhone:   env("BUSINESS_PHONE", ""),
		BusinessAddress: env("BUSINESS_ADDRESS", ""),
		BusinessWebsite: env("BUSINESS_WEBSITE", ""),

		FollowUpEnabled: envBool("FOLLOW_UP_ENABLED", true),

		ReferralCreditAmount:     envFloat("REFERRAL_CREDIT_AMOUNT", 10.0),
		ReferralCreditExpiryDays: envInt("REFERRAL_CREDIT_EXPIRY_DAYS", 60),

		Mode: env("CONCIERGE_MODE", "dev"),
	}

	c.DBPath = env("DB_PATH", filepath.Join(c.DataDir, "chatbot.db"))
	c.VectorIndexDir = env("FAISS_INDEX_PATH", filepath.Join(c.DataDir, "faiss_index"))

	return c
}

// Validate fails fast on missing secrets or an unusable data directory,
// matching the teacher's Profile.Validate convention.
func (c *Config) Validate() error {
	if c.AdminSecretKey == "" {
		return errors.New("ADMIN_SECRET_KEY is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return errors.Wrapf(err, "unable to create data directory %s", c.DataDir)
	}
	if err := os.MkdirAll(c.VectorIndexDir, 0o755); err != nil {
		return errors.Wrapf(err, "unable to create vector index directory %s", c.VectorIndexDir)
	}
	return nil
}

// RequireBotToken fails fast when running with --bot but no Telegram token configured.
func (c *Config) RequireBotToken() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required to run the chat bot")
	}
	return nil
}

// IsDev reports whether the service is running outside of production mode.
func (c *Config) IsDev() bool {
	return c.Mode != "prod"
}

// FallbackPhrase is the canned sentence the LLM pipeline and orchestrator use
// whenever they must hand off to a human rather than answer.
const FallbackPhrase = "I'm not able to answer that from what I know — let me transfer you to a human agent who can help."

// ParseTone validates a tone string against the supported set, defaulting to friendly.
func ParseTone(s string) Tone {
	switch Tone(strings.ToLower(s)) {
	case ToneFriendly, ToneFormal, ToneSales, ToneLuxury:
		return Tone(strings.ToLower(s))
	default:
		return ToneFriendly
	}
}
