// Package ragindex owns the chunk/embedding/vector-index lifecycle: it
// builds and persists the vector store, tracks staleness across process
// restarts, and serves retrieval with an automatic rebuild when stale.
package ragindex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/nadlanit/concierge/internal/chunker"
	"github.com/nadlanit/concierge/internal/embedder"
	"github.com/nadlanit/concierge/internal/store"
	"github.com/nadlanit/concierge/internal/vectorstore"
)

const (
	staleFile = ".stale"
	lockFile  = ".index_state.lock"
)

// RetrievedChunk is one retrieval hit, formatted for LLM context assembly.
type RetrievedChunk struct {
	EntryID    int64
	ChunkIndex int
	Category   string
	Title      string
	Text       string
	Score      float32
}

// Manager coordinates the chunker, embedder, and vector store against the
// relational store's KB tables.
type Manager struct {
	dir         string
	maxTokens   int
	topK        int
	store       *store.Store
	embedder    *embedder.Embedder
	vectorStore *vectorstore.Store

	rebuildMu sync.Mutex // serializes rebuilds within this process
}

func New(dir string, maxTokens, topK int, s *store.Store, emb *embedder.Embedder, vs *vectorstore.Store) *Manager {
	return &Manager{dir: dir, maxTokens: maxTokens, topK: topK, store: s, embedder: emb, vectorStore: vs}
}

// MarkStale sets the staleness sentinel. Called after every KB mutation.
func (m *Manager) MarkStale(ctx context.Context) error {
	lock := flock.New(filepath.Join(m.dir, lockFile))
	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "failed to acquire index state lock")
	}
	defer lock.Unlock()

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create index directory")
	}
	path := filepath.Join(m.dir, staleFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create stale sentinel")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close stale sentinel")
	}
	// OpenFile on an already-existing sentinel doesn't touch its mtime, but
	// the rebuild protocol uses that mtime as a token to detect a KB write
	// racing a rebuild — it must advance on every call, not just the first.
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return errors.Wrap(err, "failed to bump stale sentinel mtime")
	}
	return nil
}

func (m *Manager) isStale() bool {
	_, err := os.Stat(filepath.Join(m.dir, staleFile))
	return err == nil
}

// Retrieve runs retrieval, rebuilding first if the index is stale or
// empty. Returns up to k hits (m.topK if k <= 0).
func (m *Manager) Retrieve(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	if k <= 0 {
		k = m.topK
	}

	if m.isStale() {
		if err := m.Rebuild(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to rebuild stale index")
		}
	}

	if m.vectorStore.Size() == 0 {
		// Seed-then-rebuild once: the index may simply have never been
		// built (fresh DATA_DIR).
		if err := m.Rebuild(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to seed empty index")
		}
		if m.vectorStore.Size() == 0 {
			return nil, nil
		}
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	hits := m.vectorStore.Search(vectors[0], k)
	results := make([]RetrievedChunk, len(hits))
	for i, h := range hits {
		results[i] = RetrievedChunk{
			EntryID:    h.EntryID,
			ChunkIndex: h.ChunkIndex,
			Category:   h.Category,
			Title:      h.Title,
			Text:       h.Text,
			Score:      h.Score,
		}
	}
	return results, nil
}

// FormatContext concatenates retrieved chunks into numbered, sourced
// sections for the LLM Pipeline's context system message.
func FormatContext(chunks []RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var out string
	for i, c := range chunks {
		out += fmt.Sprintf("%d. %s\n(Source: %s — %s)\n\n", i+1, c.Text, c.Category, c.Title)
	}
	return out
}

type chunkKey struct {
	entryID    int64
	chunkIndex int
}

// entryPlan is the per-entry decision made by the first pass of Rebuild:
// whether its chunk-text sequence changed since the last rebuild.
type entryPlan struct {
	entry   *store.KBEntry
	chunks  []chunker.Chunk
	changed bool
}

// Rebuild performs the incremental rebuild algorithm: reuse embeddings for
// entries whose chunk-text sequence hasn't changed, embed only the changed
// entries, rebuild the index, and clear the staleness sentinel only if no
// mutation occurred during the rebuild.
func (m *Manager) Rebuild(ctx context.Context) error {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	lock := flock.New(filepath.Join(m.dir, lockFile))
	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "failed to acquire index state lock")
	}
	startToken := m.staleMtime()
	lock.Unlock()

	entries, err := m.store.ListKBEntries(ctx, &store.FindKBEntry{ActiveOnly: true})
	if err != nil {
		return errors.Wrap(err, "failed to list active kb entries")
	}

	existingChunks, err := m.store.ListAllChunks(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list existing chunks")
	}
	existingByEntry := map[int64][]*store.Chunk{}
	for _, c := range existingChunks {
		existingByEntry[c.EntryID] = append(existingByEntry[c.EntryID], c)
	}
	for _, cs := range existingByEntry {
		sort.Slice(cs, func(i, j int) bool { return cs[i].Index < cs[j].Index })
	}

	plans := make([]entryPlan, 0, len(entries))
	for _, e := range entries {
		candidate := chunker.Split(e.Category, e.Title, e.Content, m.maxTokens)
		prior := existingByEntry[e.ID]
		changed := len(candidate) != len(prior)
		if !changed {
			for i, c := range candidate {
				if c.Text != prior[i].Text {
					changed = true
					break
				}
			}
		}
		plans = append(plans, entryPlan{entry: e, chunks: candidate, changed: changed})
	}

	dimension := m.vectorStore.Dimension()

	// Reuse unchanged entries' cached embeddings, position-matched by
	// chunk_index; a missing or dimension-mismatched cached embedding
	// reclassifies the entry as changed.
	reused := map[chunkKey][]float32{}
	for pi, p := range plans {
		if p.changed {
			continue
		}
		prior := existingByEntry[p.entry.ID]
		ok := true
		candidate := map[chunkKey][]float32{}
		for ci := range p.chunks {
			var embedding []byte
			if ci < len(prior) {
				embedding = prior[ci].Embedding
			}
			vec, convErr := decodeEmbedding(embedding, dimension)
			if convErr != nil || vec == nil {
				ok = false
				break
			}
			candidate[chunkKey{p.entry.ID, ci}] = vec
		}
		if !ok {
			plans[pi].changed = true
			continue
		}
		for k, v := range candidate {
			reused[k] = v
		}
	}

	var textsToEmbed []string
	var embedKeys []chunkKey
	for _, p := range plans {
		if !p.changed {
			continue
		}
		for ci, c := range p.chunks {
			textsToEmbed = append(textsToEmbed, c.Text)
			embedKeys = append(embedKeys, chunkKey{p.entry.ID, ci})
		}
	}

	var freshVectors [][]float32
	if len(textsToEmbed) > 0 {
		freshVectors, err = m.embedder.Embed(ctx, textsToEmbed)
		if err != nil {
			return errors.Wrap(err, "failed to embed changed chunks")
		}
	}
	fresh := make(map[chunkKey][]float32, len(freshVectors))
	for i, key := range embedKeys {
		fresh[key] = freshVectors[i]
	}

	vectors := make([][]float32, 0, len(entries))
	metadata := make([]vectorstore.Metadata, 0, len(entries))
	for _, p := range plans {
		for ci, c := range p.chunks {
			key := chunkKey{p.entry.ID, ci}
			vec, ok := reused[key]
			if !ok {
				vec = fresh[key]
			}
			vectors = append(vectors, vec)
			metadata = append(metadata, vectorstore.Metadata{
				EntryID:    p.entry.ID,
				ChunkIndex: ci,
				Category:   p.entry.Category,
				Title:      p.entry.Title,
				Text:       c.Text,
			})
		}
	}

	if err := m.vectorStore.Replace(vectors, metadata); err != nil {
		return errors.Wrap(err, "failed to persist rebuilt index")
	}

	for _, p := range plans {
		if !p.changed {
			continue
		}
		chunks := make([]*store.Chunk, len(p.chunks))
		for ci, c := range p.chunks {
			var embedding []byte
			if vec, ok := fresh[chunkKey{p.entry.ID, ci}]; ok {
				embedding = encodeEmbedding(vec)
			}
			chunks[ci] = &store.Chunk{EntryID: p.entry.ID, Index: ci, Text: c.Text, Embedding: embedding}
		}
		if err := m.store.ReplaceChunks(ctx, &store.ReplaceEntryChunks{EntryID: p.entry.ID, Chunks: chunks}); err != nil {
			return errors.Wrap(err, "failed to replace chunks for entry")
		}
	}

	return m.clearStaleIfUnchanged(startToken)
}

func (m *Manager) staleMtime() *time.Time {
	info, err := os.Stat(filepath.Join(m.dir, staleFile))
	if err != nil {
		return nil
	}
	t := info.ModTime()
	return &t
}

func (m *Manager) clearStaleIfUnchanged(startToken *time.Time) error {
	lock := flock.New(filepath.Join(m.dir, lockFile))
	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "failed to acquire index state lock")
	}
	defer lock.Unlock()

	current := m.staleMtime()
	if !sameMtime(startToken, current) {
		slog.Info("index mutated during rebuild, leaving stale sentinel set")
		return nil
	}
	path := filepath.Join(m.dir, staleFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to clear stale sentinel")
	}
	return nil
}

func sameMtime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
