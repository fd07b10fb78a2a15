package tracelog

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression selects the algorithm applied to record payloads.
type Compression byte

const (
	Uncompressed Compression = iota
	Snappy
	Zstd
)

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	case "none", "":
		return Uncompressed, nil
	default:
		return Uncompressed, fmt.Errorf("invalid compression type %q", s)
	}
}

func (c Compression) String() string {
	switch c {
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	zstdEncoderPool objectPool[*zstd.Encoder]
	zstdDecoderPool objectPool[*zstd.Decoder]
)

type objectPool[T any] struct {
	pool sync.Pool
}

func (p *objectPool[T]) get(newObject func() T) T {
	v, ok := p.pool.Get().(T)
	if ok {
		return v
	}
	return newObject()
}

func (p *objectPool[T]) put(obj T) {
	p.pool.Put(obj)
}

func compress(dst, src []byte, compression Compression) ([]byte, error) {
	switch compression {
	case Snappy:
		return snappy.Encode(dst, src), nil
	case Zstd:
		enc := zstdEncoderPool.get(func() *zstd.Encoder {
			e, _ := zstd.NewWriter(nil,
				zstd.WithEncoderCRC(false),
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderLevel(zstd.SpeedFastest),
			)
			return e
		})
		defer zstdEncoderPool.put(enc)
		return enc.EncodeAll(src, dst[:0]), nil
	case Uncompressed:
		return append(dst[:0], src...), nil
	default:
		return nil, fmt.Errorf("unknown compression format: %d", compression)
	}
}

func decompress(dst, src []byte, compression Compression) ([]byte, error) {
	switch compression {
	case Snappy:
		return snappy.Decode(dst, src)
	case Zstd:
		dec := zstdDecoderPool.get(func() *zstd.Decoder {
			d, _ := zstd.NewReader(nil,
				zstd.IgnoreChecksum(true),
				zstd.WithDecoderConcurrency(1),
			)
			return d
		})
		defer zstdDecoderPool.put(dec)
		return dec.DecodeAll(src, dst[:0])
	case Uncompressed:
		return append(dst[:0], src...), nil
	default:
		return nil, fmt.Errorf("unknown compression format: %d", compression)
	}
}
