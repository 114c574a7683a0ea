package engine

import (
	"sync"

	"github.com/annel0/dwarf-miner/internal/vec"
)

// Camera — 2D камера с позицией в пикселях мира и масштабом
type Camera struct {
	mu          sync.RWMutex
	translation vec.Vec2Float
	scale       float64
}

// NewCamera создаёт камеру в начале координат с масштабом 1
func NewCamera() *Camera {
	return &Camera{scale: 1}
}

// Reset ставит камеру в позицию pos с масштабом scale
func (c *Camera) Reset(pos vec.Vec2Float, scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translation = pos
	c.scale = scale
}

// Translate сдвигает камеру на d
func (c *Camera) Translate(d vec.Vec2Float) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translation = c.translation.Add(d)
}

// Translation возвращает текущую позицию камеры
func (c *Camera) Translation() vec.Vec2Float {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.translation
}

// Scale возвращает текущий масштаб камеры
func (c *Camera) Scale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}
