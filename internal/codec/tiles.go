package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/annel0/dwarf-miner/internal/world"
)

// BytesPerTile — размер одного тайла в упакованном виде: int16 блока + int8 стены
const BytesPerTile = 3

// TilePayloadSize — размер упакованного массива тайлов одного чанка
const TilePayloadSize = world.TileAreaPerChunk * BytesPerTile

// ErrInvalidPayload возвращается для данных неверной длины
var ErrInvalidPayload = errors.New("некорректный размер данных тайлов")

// EncodeTiles упаковывает тайлы чанка в непрерывный буфер в порядке линейного индекса.
// Формат тайла: BlockID (little-endian int16), WallID (int8).
func EncodeTiles(tiles *[world.TileAreaPerChunk]world.Block) []byte {
	buf := make([]byte, TilePayloadSize)
	for i, b := range tiles {
		off := i * BytesPerTile
		binary.LittleEndian.PutUint16(buf[off:], uint16(b.BlockID))
		buf[off+2] = byte(b.WallID)
	}
	return buf
}

// DecodeTiles распаковывает буфер, полученный из EncodeTiles
func DecodeTiles(data []byte) ([world.TileAreaPerChunk]world.Block, error) {
	var tiles [world.TileAreaPerChunk]world.Block
	if len(data) != TilePayloadSize {
		return tiles, fmt.Errorf("%w: %d байт, ожидалось %d", ErrInvalidPayload, len(data), TilePayloadSize)
	}

	for i := range tiles {
		off := i * BytesPerTile
		tiles[i] = world.Block{
			BlockID: int16(binary.LittleEndian.Uint16(data[off:])),
			WallID:  int8(data[off+2]),
		}
	}
	return tiles, nil
}

// EncodeChunk упаковывает снимок тайлов чанка
func EncodeChunk(c *world.Chunk) []byte {
	tiles := c.Snapshot()
	return EncodeTiles(&tiles)
}
