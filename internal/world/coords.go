package world

import (
	"fmt"
	"math"

	"github.com/annel0/dwarf-miner/internal/vec"
)

// maxWorldCoord ограничивает координаты, которые ещё точно представимы в int после floor.
const maxWorldCoord = 1 << 52

// TileLocation описывает положение тайла в мире
type TileLocation struct {
	Chunk vec.Vec2 // Координаты чанка в сетке чанков
	Row   int      // Локальная строка тайла в чанке (ось X)
	Col   int      // Локальный столбец тайла в чанке (ось Y)
	Index int      // Линейный индекс в Chunk.Tiles
}

// LinearIndexTo2D раскладывает линейный индекс тайла на (row, col).
// row = index / TilePerChunk, col = index % TilePerChunk.
func LinearIndexTo2D(index int) (row, col int, err error) {
	if index < 0 || index >= TileAreaPerChunk {
		return 0, 0, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return index / TilePerChunk, index % TilePerChunk, nil
}

// TileIndex собирает линейный индекс из локальных (row, col)
func TileIndex(row, col int) (int, error) {
	if row < 0 || row >= TilePerChunk || col < 0 || col >= TilePerChunk {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}
	return row*TilePerChunk + col, nil
}

// ChunkOrigin возвращает позицию чанка в пикселях мира по его координатам в сетке чанков
func ChunkOrigin(coord vec.Vec2) vec.Vec2 {
	return coord.Scale(chunkPixelSpan)
}

// WorldToChunkCoord возвращает координаты чанка, содержащего точку мира.
// NaN, бесконечность и |v| >= 2^52 дают ErrOutOfRange.
func WorldToChunkCoord(p vec.Vec2Float) (vec.Vec2, error) {
	if !finiteCoord(p.X) || !finiteCoord(p.Y) {
		return vec.Vec2{}, fmt.Errorf("%w: точка (%g,%g)", ErrOutOfRange, p.X, p.Y)
	}
	return p.Div(ChunkPixelSize).Floor().ToVec2(), nil
}

// LocateTile находит чанк и локальный тайл, содержащие точку мира (в пикселях).
// Для отрицательных координат используется деление с округлением вниз.
func LocateTile(p vec.Vec2Float) (TileLocation, error) {
	chunk, err := WorldToChunkCoord(p)
	if err != nil {
		return TileLocation{}, err
	}

	tile := p.Div(TileSize).Floor().ToVec2()
	row := floorMod(tile.X, TilePerChunk)
	col := floorMod(tile.Y, TilePerChunk)

	return TileLocation{
		Chunk: chunk,
		Row:   row,
		Col:   col,
		Index: row*TilePerChunk + col,
	}, nil
}

func finiteCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < maxWorldCoord
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
