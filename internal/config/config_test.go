package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	c := FromEnv()

	assert.Equal(t, "gpt-4o-mini", c.LLMModel)
	assert.Equal(t, "text-embedding-3-small", c.EmbeddingModel)
	assert.Equal(t, 1536, c.EmbeddingDimension)
	assert.Equal(t, 10, c.RateLimitPerMinute)
	assert.Equal(t, "admin", c.AdminUsername)
	assert.Equal(t, "dev", c.Mode)
	assert.True(t, c.FollowUpEnabled)
	assert.Equal(t, 10.0, c.ReferralCreditAmount)
	assert.Equal(t, filepath.Join(c.DataDir, "chatbot.db"), c.DBPath)
}

func TestFromEnv_EmbeddingFallsBackToOpenAICredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-shared")
	t.Setenv("OPENAI_BASE_URL", "https://shared.example/v1")

	c := FromEnv()

	assert.Equal(t, "sk-shared", c.EmbeddingAPIKey)
	assert.Equal(t, "https://shared.example/v1", c.EmbeddingBaseURL)
}

func TestFromEnv_EmbeddingOverrideWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-shared")
	t.Setenv("EMBEDDING_API_KEY", "sk-embedding-specific")

	c := FromEnv()

	assert.Equal(t, "sk-embedding-specific", c.EmbeddingAPIKey)
}

func TestFromEnv_PortFallsBackToGenericPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	c := FromEnv()
	assert.Equal(t, 9090, c.AdminPort)
}

func TestFromEnv_AdminPortOverridesGenericPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_PORT", "7070")
	c := FromEnv()
	assert.Equal(t, 7070, c.AdminPort)
}

func TestValidate(t *testing.T) {
	t.Run("missing secret key fails", func(t *testing.T) {
		c := &Config{AdminPassword: "x", DataDir: t.TempDir()}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_SECRET_KEY")
	})

	t.Run("missing password and hash fails", func(t *testing.T) {
		c := &Config{AdminSecretKey: "x", DataDir: t.TempDir()}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
	})

	t.Run("password hash alone is sufficient", func(t *testing.T) {
		dir := t.TempDir()
		c := &Config{AdminSecretKey: "x", AdminPasswordHash: "$2a$...", DataDir: dir, VectorIndexDir: filepath.Join(dir, "vec")}
		assert.NoError(t, c.Validate())
	})

	t.Run("creates missing data and vector directories", func(t *testing.T) {
		dir := t.TempDir()
		dataDir := filepath.Join(dir, "nested", "data")
		vecDir := filepath.Join(dir, "nested", "vec")
		c := &Config{AdminSecretKey: "x", AdminPassword: "y", DataDir: dataDir, VectorIndexDir: vecDir}
		require.NoError(t, c.Validate())
		assert.DirExists(t, dataDir)
		assert.DirExists(t, vecDir)
	})
}

func TestRequireBotToken(t *testing.T) {
	t.Run("missing token errors", func(t *testing.T) {
		c := &Config{}
		assert.Error(t, c.RequireBotToken())
	})

	t.Run("present token passes", func(t *testing.T) {
		c := &Config{TelegramBotToken: "123:abc"}
		assert.NoError(t, c.RequireBotToken())
	})
}

func TestIsDev(t *testing.T) {
	assert.True(t, (&Config{Mode: "dev"}).IsDev())
	assert.True(t, (&Config{Mode: ""}).IsDev())
	assert.False(t, (&Config{Mode: "prod"}).IsDev())
}

func TestParseTone(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want Tone
	}{
		{"friendly", "friendly", ToneFriendly},
		{"formal mixed case", "FORMAL", ToneFormal},
		{"sales", "sales", ToneSales},
		{"luxury", "luxury", ToneLuxury},
		{"unknown defaults to friendly", "sarcastic", ToneFriendly},
		{"empty defaults to friendly", "", ToneFriendly},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTone(tc.in))
		})
	}
}
