package engine

import (
	"context"
	"fmt"

	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/annel0/dwarf-miner/internal/vec"
	"github.com/annel0/dwarf-miner/internal/world"
)

// System — шаг движка, работающий со сценой
type System func(ctx context.Context, s *Scene, t FrameTime) error

// SetupCamera ставит камеру в начало координат с масштабом сцены
func SetupCamera(_ context.Context, s *Scene, _ FrameTime) error {
	s.Camera.Reset(vec.Vec2Float{}, s.CameraScale)
	logging.GetEngineLogger().Debug("Камера установлена, масштаб %.1f", s.CameraScale)
	return nil
}

// CreateChunks создаёт чанки мира. Выполняется один раз при старте.
func CreateChunks(ctx context.Context, s *Scene, _ FrameTime) error {
	chunks, err := s.Registry.InitializeWorld(ctx, s.WorldWidth, s.WorldHeight)
	if err != nil {
		return fmt.Errorf("ошибка создания чанков: %w", err)
	}
	logging.GetEngineLogger().Info("🧱 Создано %d чанков", len(chunks))
	return nil
}

// RenderChunks рисует контур каждого чанка
func RenderChunks(_ context.Context, s *Scene, _ FrameTime) error {
	size := vec.Splat(world.ChunkPixelSize)
	s.Registry.ForEachChunk(func(_ vec.Vec2, c *world.Chunk) {
		s.Gizmos.Rect2D(c.Center(), 0, size, ColorBlack)
	})
	return nil
}

// MoveCamera двигает камеру стрелками на CameraSpeed за кадр
func MoveCamera(_ context.Context, s *Scene, _ FrameTime) error {
	var d vec.Vec2Float
	if s.Input.Pressed(KeyArrowRight) {
		d.X += s.CameraSpeed
	}
	if s.Input.Pressed(KeyArrowUp) {
		d.Y += s.CameraSpeed
	}
	if s.Input.Pressed(KeyArrowLeft) {
		d.X -= s.CameraSpeed
	}
	if s.Input.Pressed(KeyArrowDown) {
		d.Y -= s.CameraSpeed
	}
	if d != (vec.Vec2Float{}) {
		s.Camera.Translate(d)
	}
	return nil
}

// CloseOnEsc завершает движок по Escape
func CloseOnEsc(_ context.Context, s *Scene, _ FrameTime) error {
	if s.Input.Pressed(KeyEscape) {
		s.RequestExit()
	}
	return nil
}

// CollectDiagnostics обновляет данные оверлея производительности
func CollectDiagnostics(_ context.Context, s *Scene, t FrameTime) error {
	s.Diagnostics.Record(t.Frame, t.Delta, s.EntityCount(), t.Now)
	return nil
}
