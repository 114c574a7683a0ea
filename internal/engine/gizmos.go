package engine

import (
	"sync"

	"github.com/annel0/dwarf-miner/internal/vec"
)

// Color — цвет в линейном RGBA
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var (
	ColorBlack        = Color{R: 0, G: 0, B: 0, A: 1}
	ColorWhite        = Color{R: 1, G: 1, B: 1, A: 1}
	ColorAntiqueWhite = Color{R: 0.98, G: 0.92, B: 0.84, A: 1}
)

// Gizmos принимает команды отладочной отрисовки
type Gizmos interface {
	Rect2D(center vec.Vec2Float, rotation float64, size vec.Vec2Float, color Color)
}

// frameEnder реализуют приёмники, которым нужен сигнал конца кадра
type frameEnder interface {
	EndFrame()
}

// RectCommand описывает контур прямоугольника
type RectCommand struct {
	Center   vec.Vec2Float `json:"center"`
	Rotation float64       `json:"rotation"`
	Size     vec.Vec2Float `json:"size"`
	Color    Color         `json:"color"`
}

// FrameRecorder накапливает команды текущего кадра и хранит команды последнего завершённого.
type FrameRecorder struct {
	mu      sync.RWMutex
	pending []RectCommand
	last    []RectCommand
}

// NewFrameRecorder создаёт пустой приёмник команд
func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{}
}

func (r *FrameRecorder) Rect2D(center vec.Vec2Float, rotation float64, size vec.Vec2Float, color Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, RectCommand{Center: center, Rotation: rotation, Size: size, Color: color})
}

// EndFrame публикует команды кадра
func (r *FrameRecorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = r.pending
	r.pending = make([]RectCommand, 0, len(r.last))
}

// LastFrame возвращает копию команд последнего завершённого кадра
func (r *FrameRecorder) LastFrame() []RectCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RectCommand, len(r.last))
	copy(out, r.last)
	return out
}
