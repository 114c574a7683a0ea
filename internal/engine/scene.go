package engine

import (
	"sync/atomic"

	"github.com/annel0/dwarf-miner/internal/world"
)

// Scene — всё, с чем работают системы движка.
// Реестр чанков принадлежит сцене и передаётся системам по ссылке.
type Scene struct {
	Registry    *world.Registry
	Camera      *Camera
	Input       *Input
	Gizmos      Gizmos
	Diagnostics *Diagnostics

	Material   ChunkMaterial
	ClearColor Color

	WorldWidth  int     // Ширина мира в чанках
	WorldHeight int     // Высота мира в чанках
	CameraScale float64 // Масштаб камеры при старте
	CameraSpeed float64 // Сдвиг камеры за кадр на зажатую стрелку

	exit atomic.Bool
}

// NewScene создаёт сцену с параметрами по умолчанию вокруг реестра
func NewScene(registry *world.Registry) *Scene {
	return &Scene{
		Registry:    registry,
		Camera:      NewCamera(),
		Input:       NewInput(),
		Gizmos:      NewFrameRecorder(),
		Diagnostics: NewDiagnostics(nil, nil),
		Material:    DefaultChunkMaterial(),
		ClearColor:  ColorAntiqueWhite,
		WorldWidth:  world.DefaultXChunks,
		WorldHeight: world.DefaultYChunks,
		CameraScale: 12,
		CameraSpeed: 10,
	}
}

// RequestExit просит движок завершить цикл кадров
func (s *Scene) RequestExit() {
	s.exit.Store(true)
}

// ExitRequested возвращает true после RequestExit
func (s *Scene) ExitRequested() bool {
	return s.exit.Load()
}

// EntityCount — число сущностей сцены: чанки и камера
func (s *Scene) EntityCount() int {
	return s.Registry.Len() + 1
}
