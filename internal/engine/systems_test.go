package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annel0/dwarf-miner/internal/vec"
	"github.com/annel0/dwarf-miner/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(w, h int) *Scene {
	s := NewScene(world.NewRegistry())
	s.WorldWidth = w
	s.WorldHeight = h
	return s
}

func TestSetupCamera(t *testing.T) {
	s := newTestScene(1, 1)
	s.Camera.Translate(vec.Vec2Float{X: 5, Y: 5})

	require.NoError(t, SetupCamera(context.Background(), s, FrameTime{}))
	assert.Equal(t, vec.Vec2Float{}, s.Camera.Translation())
	assert.Equal(t, 12.0, s.Camera.Scale())
}

func TestCreateChunks(t *testing.T) {
	s := newTestScene(world.DefaultXChunks, world.DefaultYChunks)

	require.NoError(t, CreateChunks(context.Background(), s, FrameTime{}))
	assert.Equal(t, 400, s.Registry.Len())
	assert.Equal(t, 401, s.EntityCount())

	err := CreateChunks(context.Background(), s, FrameTime{})
	assert.True(t, errors.Is(err, world.ErrAlreadyInitialized))
	assert.Equal(t, 400, s.Registry.Len())
}

func TestCreateChunksAllocationFailure(t *testing.T) {
	s := NewScene(world.NewRegistry(world.WithAllocator(world.NewBudgetAllocator(3))))
	s.WorldWidth, s.WorldHeight = 2, 2

	err := CreateChunks(context.Background(), s, FrameTime{})
	assert.True(t, errors.Is(err, world.ErrAllocationFailure))
	assert.Equal(t, 0, s.Registry.Len())
}

func TestRenderChunks(t *testing.T) {
	s := newTestScene(world.DefaultXChunks, world.DefaultYChunks)
	require.NoError(t, CreateChunks(context.Background(), s, FrameTime{}))

	rec := s.Gizmos.(*FrameRecorder)
	require.NoError(t, RenderChunks(context.Background(), s, FrameTime{}))
	rec.EndFrame()

	rects := rec.LastFrame()
	require.Len(t, rects, 400)

	// Порядок отрисовки совпадает с порядком создания
	assert.Equal(t, vec.Vec2Float{X: 512, Y: 512}, rects[0].Center)
	assert.Equal(t, vec.Vec2Float{X: 512, Y: 1024 + 512}, rects[1].Center)
	assert.Equal(t, vec.Vec2Float{X: 19*1024 + 512, Y: 19*1024 + 512}, rects[399].Center)

	for _, r := range rects {
		assert.Equal(t, vec.Vec2Float{X: 1024, Y: 1024}, r.Size)
		assert.Equal(t, 0.0, r.Rotation)
		assert.Equal(t, ColorBlack, r.Color)
	}
}

func TestRenderChunksBeforeCreation(t *testing.T) {
	s := newTestScene(2, 2)
	require.NoError(t, RenderChunks(context.Background(), s, FrameTime{}))

	rec := s.Gizmos.(*FrameRecorder)
	rec.EndFrame()
	assert.Empty(t, rec.LastFrame())
}

func TestMoveCamera(t *testing.T) {
	tests := []struct {
		name     string
		keys     []KeyCode
		expected vec.Vec2Float
	}{
		{"без клавиш", nil, vec.Vec2Float{}},
		{"вправо", []KeyCode{KeyArrowRight}, vec.Vec2Float{X: 10}},
		{"вверх", []KeyCode{KeyArrowUp}, vec.Vec2Float{Y: 10}},
		{"влево", []KeyCode{KeyArrowLeft}, vec.Vec2Float{X: -10}},
		{"вниз", []KeyCode{KeyArrowDown}, vec.Vec2Float{Y: -10}},
		{"по диагонали", []KeyCode{KeyArrowRight, KeyArrowUp}, vec.Vec2Float{X: 10, Y: 10}},
		{"противоположные", []KeyCode{KeyArrowLeft, KeyArrowRight}, vec.Vec2Float{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(1, 1)
			for _, k := range tt.keys {
				s.Input.Press(k)
			}
			require.NoError(t, MoveCamera(context.Background(), s, FrameTime{}))
			assert.Equal(t, tt.expected, s.Camera.Translation())
		})
	}
}

func TestCloseOnEsc(t *testing.T) {
	s := newTestScene(1, 1)

	require.NoError(t, CloseOnEsc(context.Background(), s, FrameTime{}))
	assert.False(t, s.ExitRequested())

	s.Input.Press(KeyEscape)
	require.NoError(t, CloseOnEsc(context.Background(), s, FrameTime{}))
	assert.True(t, s.ExitRequested())
}

func TestCollectDiagnostics(t *testing.T) {
	s := newTestScene(2, 3)
	require.NoError(t, CreateChunks(context.Background(), s, FrameTime{}))

	now := time.Now()
	require.NoError(t, CollectDiagnostics(context.Background(), s, FrameTime{Frame: 4, Delta: 20 * time.Millisecond, Now: now}))

	snap := s.Diagnostics.Snapshot()
	assert.Equal(t, uint64(4), snap.Frame)
	assert.Equal(t, 7, snap.EntityCount)
	assert.InDelta(t, 20.0, snap.FrameTimeMs, 0.001)
	assert.InDelta(t, 50.0, snap.FPS, 0.001)
}
