package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor сжимает упакованные тайлы перед выгрузкой.
type Compressor interface {
	Compress(raw []byte) ([]byte, error)
	Decompress(payload []byte) ([]byte, error)
	Name() string
}

const (
	EncodingRaw  = "raw"
	EncodingZstd = "zstd"
)

// NewCompressor возвращает компрессор по имени кодировки
func NewCompressor(name string) (Compressor, error) {
	switch name {
	case EncodingRaw, "":
		return NewPassthroughCompressor(), nil
	case EncodingZstd:
		return NewZstdCompressor()
	default:
		return nil, fmt.Errorf("неизвестная кодировка %q", name)
	}
}

type passthroughCompressor struct{}

func NewPassthroughCompressor() Compressor { return &passthroughCompressor{} }

func (p *passthroughCompressor) Compress(raw []byte) ([]byte, error) {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (p *passthroughCompressor) Decompress(payload []byte) ([]byte, error) {
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (p *passthroughCompressor) Name() string { return EncodingRaw }

// zstdCompressor держит переиспользуемые encoder/decoder; EncodeAll/DecodeAll
// безопасны для конкурентного вызова.
type zstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstdCompressor() (Compressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("ошибка создания zstd decoder: %w", err)
	}
	return &zstdCompressor{enc: enc, dec: dec}, nil
}

func (z *zstdCompressor) Compress(raw []byte) ([]byte, error) {
	return z.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func (z *zstdCompressor) Decompress(payload []byte) ([]byte, error) {
	out, err := z.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки zstd: %w", err)
	}
	return out, nil
}

func (z *zstdCompressor) Name() string { return EncodingZstd }
