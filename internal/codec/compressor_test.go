package codec

import (
	"bytes"
	"testing"

	"github.com/annel0/dwarf-miner/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompressor(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"", EncodingRaw, false},
		{EncodingRaw, EncodingRaw, false},
		{EncodingZstd, EncodingZstd, false},
		{"gzip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := NewCompressor(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, comp.Name())
		})
	}
}

func TestCompressorRoundTrip(t *testing.T) {
	tiles := sampleTiles()
	raw := EncodeTiles(&tiles)

	for _, name := range []string{EncodingRaw, EncodingZstd} {
		t.Run(name, func(t *testing.T) {
			comp, err := NewCompressor(name)
			require.NoError(t, err)

			packed, err := comp.Compress(raw)
			require.NoError(t, err)

			unpacked, err := comp.Decompress(packed)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(raw, unpacked))

			decoded, err := DecodeTiles(unpacked)
			require.NoError(t, err)
			assert.Equal(t, tiles, decoded)
		})
	}
}

func TestZstdCompressesEmptyChunk(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	raw := EncodeChunk(world.NewEmptyChunk(0, 0))
	packed, err := comp.Compress(raw)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(raw)/10, "Пустой чанк должен хорошо сжиматься")
}

func TestZstdDecompressGarbage(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = comp.Decompress([]byte("not a zstd frame"))
	assert.Error(t, err)
}

func TestPassthroughCopies(t *testing.T) {
	comp := NewPassthroughCompressor()
	raw := []byte{1, 2, 3}

	out, err := comp.Compress(raw)
	require.NoError(t, err)
	out[0] = 9
	assert.Equal(t, byte(1), raw[0], "Исходный буфер не должен меняться")
}
