// Package vectorstore implements a flat inner-product index over
// unit-normalized vectors, persisted as three sibling files so the on-disk
// layout matches the one documented for the index directory.
package vectorstore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Metadata is the per-vector record, aligned 1:1 with index positions.
type Metadata struct {
	EntryID    int64  `json:"entry_id"`
	ChunkIndex int    `json:"chunk_index"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

// Hit is one search result.
type Hit struct {
	Metadata
	Score float32
}

const (
	indexFile    = "index"
	metadataFile = "metadata.json"
	configFile   = "config.json"
)

type fileConfig struct {
	Dimension int `json:"dimension"`
}

// Store is a flat in-memory index, mirrored to dir on every Save.
type Store struct {
	dir          string
	minRelevance float32

	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	metadata  []Metadata
}

// Open loads an existing index from dir, or returns an empty store if none
// exists yet. A legacy pickle sidecar at metadataFile + ".pkl" is refused:
// its presence forces a rebuild rather than being read.
func Open(dir string, minRelevance float32) (*Store, error) {
	s := &Store{dir: dir, minRelevance: minRelevance}

	if _, err := os.Stat(filepath.Join(dir, metadataFile+".pkl")); err == nil {
		return s, nil // legacy sidecar present: leave store empty, caller will rebuild
	}

	cfgPath := filepath.Join(dir, configFile)
	cfgBytes, err := os.ReadFile(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read index config")
	}
	var cfg fileConfig
	if err := json.Unmarshal(cfgBytes, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse index config")
	}
	s.dimension = cfg.Dimension

	metaBytes, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read index metadata")
	}
	var metadata []Metadata
	if err := json.Unmarshal(metaBytes, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse index metadata")
	}

	rawVectors, err := os.ReadFile(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read index vectors")
	}
	vectors, err := decodeVectors(rawVectors, s.dimension)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(metadata) {
		return s, nil // mismatched sidecars: treat as empty, caller will rebuild
	}

	s.vectors = vectors
	s.metadata = metadata
	return s, nil
}

// Dimension reports the configured vector dimension, 0 if the index has
// never been built.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

// Size reports the number of indexed vectors.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Replace swaps the entire index contents and persists them, each file
// written atomically.
func (s *Store) Replace(vectors [][]float32, metadata []Metadata) error {
	if len(vectors) != len(metadata) {
		return errors.Errorf("vector/metadata length mismatch: %d vs %d", len(vectors), len(metadata))
	}
	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	s.mu.Lock()
	s.vectors = vectors
	s.metadata = metadata
	s.dimension = dimension
	s.mu.Unlock()

	return s.persist(vectors, metadata, dimension)
}

func (s *Store) persist(vectors [][]float32, metadata []Metadata, dimension int) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create index directory")
	}

	metaBytes, err := json.Marshal(metadata)
	if err != nil {
		return errors.Wrap(err, "failed to marshal metadata")
	}
	cfgBytes, err := json.Marshal(fileConfig{Dimension: dimension})
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	vecBytes := encodeVectors(vectors)

	// Write each sibling to a temp file then rename, so a crash mid-write
	// never leaves any one file half-written. The three renames are not one
	// step: a crash between them can leave the files from different saves,
	// and Open treats a vector/metadata count mismatch as an empty index.
	for name, data := range map[string][]byte{
		indexFile:    vecBytes,
		metadataFile: metaBytes,
		configFile:   cfgBytes,
	} {
		if err := writeAtomic(filepath.Join(s.dir, name), data); err != nil {
			return errors.Wrapf(err, "failed to persist %s", name)
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Search returns up to k hits with similarity ≥ minRelevance, ordered by
// similarity descending. An empty index returns an empty slice.
func (s *Store) Search(query []float32, k int) []Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return []Hit{}
	}

	hits := make([]Hit, 0, len(s.vectors))
	for i, v := range s.vectors {
		score := dot(query, v)
		if score < s.minRelevance {
			continue
		}
		hits = append(hits, Hit{Metadata: s.metadata[i], Score: score})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func encodeVectors(vectors [][]float32) []byte {
	buf := new(bytes.Buffer)
	for _, v := range vectors {
		for _, x := range v {
			binary.Write(buf, binary.LittleEndian, x)
		}
	}
	return buf.Bytes()
}

func decodeVectors(data []byte, dimension int) ([][]float32, error) {
	if dimension == 0 || len(data) == 0 {
		return nil, nil
	}
	floatSize := 4
	stride := dimension * floatSize
	if len(data)%stride != 0 {
		return nil, errors.New("corrupt index file: length not a multiple of vector stride")
	}
	count := len(data) / stride
	vectors := make([][]float32, count)
	r := bytes.NewReader(data)
	for i := 0; i < count; i++ {
		v := make([]float32, dimension)
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, errors.Wrap(err, "failed to decode vector")
		}
		vectors[i] = v
	}
	return vectors, nil
}

// L2Norm reports the Euclidean norm of v, for test assertions that unit
// vectors stay unit-length.
func L2Norm(v []float32) float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	return math.Sqrt(sumSq)
}
