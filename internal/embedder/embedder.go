// Package embedder turns text into vectors, batching calls to the
// configured provider and falling back to a deterministic local embedding
// when the provider is unavailable.
package embedder

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/nadlanit/concierge/internal/llmclient"
)

// Embedder produces vectors for chunk texts.
type Embedder struct {
	client    *llmclient.Client
	dimension int

	warnOnce sync.Once
}

func New(client *llmclient.Client, dimension int) *Embedder {
	return &Embedder{client: client, dimension: dimension}
}

// Embed normalizes each input to non-empty whitespace-collapsed text and
// returns one unit-length vector per input. On provider failure it falls
// back to a deterministic local embedding for the whole batch, logging a
// warning exactly once per process lifetime.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	normalized := make([]string, len(texts))
	for i, t := range texts {
		normalized[i] = normalize(t)
	}

	vectors, err := e.client.Embed(ctx, normalized)
	if err != nil {
		e.warnOnce.Do(func() {
			slog.Warn("embedding provider unavailable, using local deterministic fallback", "error", err)
		})
		return e.localFallback(normalized), nil
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = normalizeVector(v)
	}
	return out, nil
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimSpace(text)
	if text == "" {
		text = " "
	}
	return text
}

// localFallback derives a deterministic vector per text via iterated
// SHA-256 hashing, then unit-normalizes. Never provider-accurate, but
// stable across calls so retrieval degrades gracefully instead of failing.
func (e *Embedder) localFallback(texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = normalizeVector(hashEmbed(t, e.dimension))
	}
	return out
}

func hashEmbed(text string, dim int) []float32 {
	vec := make([]float32, dim)
	seed := sha256.Sum256([]byte(text))
	block := seed[:]
	for i := 0; i < dim; i++ {
		if i%len(block) == 0 && i > 0 {
			next := sha256.Sum256(block)
			block = next[:]
		}
		b := block[i%len(block)]
		vec[i] = float32(b)/127.5 - 1.0
	}
	return vec
}

func normalizeVector(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
