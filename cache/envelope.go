package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/weo-soft/poeData-sub000/codec"
	"github.com/weo-soft/poeData-sub000/internal/hash"
)

// envelopeVersion guards the envelope layout itself; bump on incompatible
// change so old entries read as corrupt and get pruned.
const envelopeVersion = 1

// Meta is the self-describing metadata persisted with every cache entry.
type Meta struct {
	Version     int       `json:"version"`
	Category    string    `json:"category"`
	Mode        Mode      `json:"mode"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"createdAt"`
	LastAccess  time.Time `json:"lastAccess"`

	// Payload description. SizeEstimate is the stored payload length;
	// UncompressedSize restores the decode buffer; Checksum is CRC32C over
	// the stored (possibly compressed) payload bytes.
	Codec            string      `json:"codec"`
	Compression      Compression `json:"compression"`
	SizeEstimate     int         `json:"sizeEstimate"`
	UncompressedSize int         `json:"uncompressedSize"`
	Checksum         uint32      `json:"checksum"`

	// Bayesian bookkeeping. OriginalSampleCount records the draw count
	// before downsampling; Degraded marks entries persisted without raw
	// samples under quota pressure.
	OriginalSampleCount int  `json:"originalSampleCount,omitempty"`
	Degraded            bool `json:"degraded,omitempty"`
}

// envelope is the stored value: metadata plus the encoded payload. The outer
// layer is always encoding/json so a process configured with a different
// payload codec can still open the envelope and dispatch by Meta.Codec.
type envelope struct {
	Meta    Meta   `json:"meta"`
	Payload []byte `json:"payload"`
}

var errCorruptEntry = errors.New("cache: corrupt entry")

// sealEnvelope encodes result into a stored envelope value.
func sealEnvelope(meta Meta, result *Result, c codec.Codec, compression Compression) ([]byte, error) {
	payload, err := c.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	stored, applied, err := compressPayload(payload, compression)
	if err != nil {
		return nil, err
	}

	meta.Version = envelopeVersion
	meta.Codec = c.Name()
	meta.Compression = applied
	meta.SizeEstimate = len(stored)
	meta.UncompressedSize = len(payload)
	meta.Checksum = hash.CRC32C(stored)

	return json.Marshal(envelope{Meta: meta, Payload: stored})
}

// openEnvelope decodes a stored value back into its envelope and result.
// Any structural problem is reported as errCorruptEntry so the caller can
// prune the entry and treat the lookup as a miss.
func openEnvelope(data []byte) (envelope, *Result, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, nil, fmt.Errorf("%w: %w", errCorruptEntry, err)
	}
	if env.Meta.Version != envelopeVersion {
		return envelope{}, nil, fmt.Errorf("%w: unsupported envelope version %d", errCorruptEntry, env.Meta.Version)
	}
	if hash.CRC32C(env.Payload) != env.Meta.Checksum {
		return envelope{}, nil, fmt.Errorf("%w: payload checksum mismatch", errCorruptEntry)
	}

	c, ok := codec.ByName(env.Meta.Codec)
	if !ok {
		return envelope{}, nil, fmt.Errorf("%w: unknown codec %q", errCorruptEntry, env.Meta.Codec)
	}

	payload, err := decompressPayload(env.Payload, env.Meta.Compression, env.Meta.UncompressedSize)
	if err != nil {
		return envelope{}, nil, fmt.Errorf("%w: %w", errCorruptEntry, err)
	}

	var result Result
	if err := c.Unmarshal(payload, &result); err != nil {
		return envelope{}, nil, fmt.Errorf("%w: decode payload: %w", errCorruptEntry, err)
	}
	if !result.valid() {
		return envelope{}, nil, fmt.Errorf("%w: payload shape does not match mode", errCorruptEntry)
	}

	return env, &result, nil
}

// openMeta decodes only the metadata of a stored value, for eviction scans
// that never need the payload.
func openMeta(data []byte) (Meta, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Meta{}, fmt.Errorf("%w: %w", errCorruptEntry, err)
	}
	return env.Meta, nil
}
