package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores payloads uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 is fast with modest ratios; prefer for hot local stores.
	CompressionLZ4 Compression = 1
	// CompressionZSTD has better ratios; prefer for remote or quota-tight
	// stores. The default.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// zstd encoder/decoder pools; both are safe to reuse with EncodeAll/DecodeAll.
var (
	zstdEncoderPool = sync.Pool{New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		return enc
	}}
	zstdDecoderPool = sync.Pool{New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	}}
)

// incompressibleRatio is the cutoff above which compression is not worth the
// decode cost and the payload is stored raw.
const incompressibleRatio = 0.9

// compressPayload compresses data with the requested algorithm. It returns
// the (possibly original) bytes and the compression actually applied: when
// the ratio is poor or the codec reports incompressible input, the payload
// falls back to CompressionNone so Meta always reflects the stored bytes.
func compressPayload(data []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			// Incompressible.
			return data, CompressionNone, nil
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := zstdEncoderPool.Get().(*zstd.Encoder)
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("unknown compression %d", c)
	}

	if float64(len(compressed)) > float64(len(data))*incompressibleRatio {
		return data, CompressionNone, nil
	}
	return compressed, c, nil
}

// decompressPayload reverses compressPayload. uncompressedSize comes from the
// envelope metadata and bounds the allocation.
func decompressPayload(data []byte, c Compression, uncompressedSize int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != uncompressedSize {
			return nil, errors.New("lz4 decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		dec := zstdDecoderPool.Get().(*zstd.Decoder)
		out, err := dec.DecodeAll(data, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != uncompressedSize {
			return nil, errors.New("zstd decompressed size mismatch")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}
