package world

import (
	"fmt"
	"sync"

	"github.com/annel0/dwarf-miner/internal/vec"
)

// Размеры сетки. Значения зафиксированы контрактом с рендерером и не настраиваются.
const (
	TileSize         = 32.0                        // Размер тайла в пикселях мира
	TilePerChunk     = 32                          // Тайлов по одной стороне чанка
	TileAreaPerChunk = TilePerChunk * TilePerChunk // Всего тайлов в чанке (1024)
	ChunkPixelSize   = TileSize * TilePerChunk     // Сторона чанка в пикселях мира (1024)
	DefaultXChunks   = 20                          // Ширина мира по умолчанию (в чанках)
	DefaultYChunks   = 20                          // Высота мира по умолчанию (в чанках)
	chunkPixelSpan   = int(ChunkPixelSize)         // ChunkPixelSize для целочисленной арифметики
	chunkHalfExtent  = ChunkPixelSize / 2          // Половина стороны чанка
)

// Chunk представляет участок мира размером 32x32 тайла.
// Тайлы хранятся одним непрерывным массивом фиксированной длины,
// индекс тайла (row, col) равен row*TilePerChunk + col.
type Chunk struct {
	Active   bool     // Участвует ли чанк в симуляции (пока не переключается)
	Position vec.Vec2 // Позиция левого нижнего угла в пикселях мира

	Tiles [TileAreaPerChunk]Block

	Mu sync.RWMutex // Каждый чанк блокируется независимо от остальных
}

// NewEmptyChunk создаёт неактивный чанк в позиции (x, y) в пикселях мира,
// все тайлы которого пусты.
func NewEmptyChunk(x, y int) *Chunk {
	c := &Chunk{
		Active:   false,
		Position: vec.Vec2{X: x, Y: y},
	}
	for i := range c.Tiles {
		c.Tiles[i] = EmptyBlock()
	}
	return c
}

// Tile возвращает тайл по линейному индексу
func (c *Chunk) Tile(index int) (Block, error) {
	if index < 0 || index >= TileAreaPerChunk {
		return Block{}, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.Tiles[index], nil
}

// SetTile устанавливает тайл по линейному индексу
func (c *Chunk) SetTile(index int, b Block) error {
	if index < 0 || index >= TileAreaPerChunk {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Tiles[index] = b
	return nil
}

// Snapshot возвращает копию всех тайлов чанка
func (c *Chunk) Snapshot() [TileAreaPerChunk]Block {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.Tiles
}

// CountEmpty возвращает количество пустых тайлов
func (c *Chunk) CountEmpty() int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	n := 0
	for _, b := range c.Tiles {
		if b.IsEmpty() {
			n++
		}
	}
	return n
}

// PixelToChunkPosition переводит позицию чанка из пикселей мира в координаты сетки чанков
func (c *Chunk) PixelToChunkPosition() vec.Vec2Float {
	return vec.FromVec2(c.Position).Div(ChunkPixelSize).Floor()
}

// PixelToTilePosition переводит позицию чанка из пикселей мира в координаты сетки тайлов
func (c *Chunk) PixelToTilePosition() vec.Vec2Float {
	return vec.FromVec2(c.Position).Div(TileSize).Floor()
}

// Center возвращает центр чанка в пикселях мира
func (c *Chunk) Center() vec.Vec2Float {
	return vec.FromVec2(c.Position).Add(vec.Splat(chunkHalfExtent))
}
