package ragindex

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// decodeEmbedding reads a little-endian float32 vector from its stored
// byte form. Returns (nil, nil) for an absent embedding, and an error only
// when the stored bytes are malformed or the wrong length for dimension.
func decodeEmbedding(raw []byte, dimension int) ([]float32, error) {
	if raw == nil {
		return nil, nil
	}
	if dimension <= 0 {
		return nil, errors.New("unknown target dimension")
	}
	const floatSize = 4
	if len(raw) != dimension*floatSize {
		return nil, nil // dimension mismatch: caller reclassifies as changed, not a hard error
	}
	vec := make([]float32, dimension)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &vec); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached embedding")
	}
	return vec, nil
}

func encodeEmbedding(vec []float32) []byte {
	buf := new(bytes.Buffer)
	for _, x := range vec {
		binary.Write(buf, binary.LittleEndian, x)
	}
	return buf.Bytes()
}
