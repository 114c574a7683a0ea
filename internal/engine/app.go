package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/dwarf-miner/internal/logging"
)

// ErrAlreadyStarted возвращается при повторном запуске стартовых систем
var ErrAlreadyStarted = errors.New("движок уже запущен")

// FrameTime описывает текущий кадр
type FrameTime struct {
	Frame uint64        // Номер кадра, начиная с 1
	Delta time.Duration // Время с предыдущего кадра
	Now   time.Time     // Время начала кадра
}

type namedSystem struct {
	name string
	fn   System
}

// App выполняет стартовые системы один раз, а системы обновления — каждый кадр.
// Все системы выполняются последовательно в одной горутине.
type App struct {
	scene   *Scene
	tps     int
	startup []namedSystem
	update  []namedSystem

	started   bool
	frame     uint64
	lastFrame time.Time
	log       *logging.Logger
}

// NewApp создаёт движок с частотой tps кадров в секунду
func NewApp(scene *Scene, tps int) *App {
	if tps <= 0 {
		tps = 60
	}
	return &App{
		scene: scene,
		tps:   tps,
		log:   logging.GetEngineLogger(),
	}
}

// NewDefaultApp создаёт движок со стандартным набором систем
func NewDefaultApp(scene *Scene, tps int) *App {
	return NewApp(scene, tps).
		AddStartupSystem("setup_camera", SetupCamera).
		AddStartupSystem("create_chunks", CreateChunks).
		AddSystem("close_on_esc", CloseOnEsc).
		AddSystem("render_chunks", RenderChunks).
		AddSystem("move_camera", MoveCamera).
		AddSystem("collect_diagnostics", CollectDiagnostics)
}

// AddStartupSystem добавляет систему, выполняемую один раз при старте
func (a *App) AddStartupSystem(name string, fn System) *App {
	a.startup = append(a.startup, namedSystem{name: name, fn: fn})
	return a
}

// AddSystem добавляет систему, выполняемую каждый кадр
func (a *App) AddSystem(name string, fn System) *App {
	a.update = append(a.update, namedSystem{name: name, fn: fn})
	return a
}

// Scene возвращает сцену движка
func (a *App) Scene() *Scene {
	return a.scene
}

// Startup выполняет стартовые системы по порядку.
// Ошибка любой из них прерывает запуск.
func (a *App) Startup(ctx context.Context) error {
	if a.started {
		return ErrAlreadyStarted
	}

	now := time.Now()
	for _, sys := range a.startup {
		if err := sys.fn(ctx, a.scene, FrameTime{Now: now}); err != nil {
			return fmt.Errorf("стартовая система %s: %w", sys.name, err)
		}
		a.log.Debug("Стартовая система %s выполнена", sys.name)
	}

	a.started = true
	a.lastFrame = now
	return nil
}

// Step выполняет один кадр. Ошибки систем логируются и не прерывают кадр.
func (a *App) Step(ctx context.Context, now time.Time) {
	a.frame++
	t := FrameTime{Frame: a.frame, Delta: now.Sub(a.lastFrame), Now: now}
	a.lastFrame = now

	for _, sys := range a.update {
		if err := sys.fn(ctx, a.scene, t); err != nil {
			a.log.Warn("Система %s, кадр %d: %v", sys.name, t.Frame, err)
		}
	}

	if fe, ok := a.scene.Gizmos.(frameEnder); ok {
		fe.EndFrame()
	}
}

// Frame возвращает номер последнего выполненного кадра
func (a *App) Frame() uint64 {
	return a.frame
}

// Run запускает стартовые системы (если ещё не запущены) и цикл кадров.
// Возвращается при отмене ctx или по запросу выхода из сцены.
func (a *App) Run(ctx context.Context) error {
	if !a.started {
		if err := a.Startup(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.tps))
	defer ticker.Stop()

	a.log.Info("▶️ Цикл кадров запущен (%d TPS)", a.tps)
	for {
		select {
		case <-ctx.Done():
			a.log.Info("⏹ Цикл кадров остановлен на кадре %d", a.frame)
			return nil
		case now := <-ticker.C:
			a.Step(ctx, now)
			if a.scene.ExitRequested() {
				a.log.Info("⏹ Выход по запросу сцены на кадре %d", a.frame)
				return nil
			}
		}
	}
}
