package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/annel0/dwarf-miner/internal/vec"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/dwarf-miner/internal/world"

// MaxWorldSide — наибольшая сторона мира в чанках.
// При таком размере width*height и пиксельные позиции чанков не переполняют int.
const MaxWorldSide = 1 << 16

// initialCapacity ограничивает предварительное выделение памяти под реестр.
// Дальше слайсы растут по мере того, как аллокатор выдаёт чанки.
const initialCapacity = 4096

// Registry владеет всеми чанками мира.
// Чанки создаются один раз при старте и больше не удаляются и не пересоздаются.
type Registry struct {
	id string

	chunks []*Chunk         // Чанки в порядке создания
	coords []vec.Vec2       // Координаты чанков в сетке, параллельно chunks
	index  map[vec.Vec2]int // Координаты чанка -> позиция в chunks
	width  int              // Ширина мира в чанках
	height int              // Высота мира в чанках

	initialized bool
	allocator   ChunkAllocator
	metrics     *Metrics
	tracer      trace.Tracer

	mu sync.RWMutex
}

// Option настраивает Registry
type Option func(*Registry)

// WithAllocator задаёт аллокатор чанков (по умолчанию HeapAllocator)
func WithAllocator(a ChunkAllocator) Option {
	return func(r *Registry) {
		if a != nil {
			r.allocator = a
		}
	}
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry создаёт пустой реестр чанков
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		id:        uuid.NewString(),
		index:     make(map[vec.Vec2]int),
		allocator: HeapAllocator{},
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InitializeWorld создаёт width x height чанков. Для каждой пары (i, j) чанк
// размещается в (i*ChunkPixelSize, j*ChunkPixelSize) пикселей мира; обход идёт
// по i, затем по j. Повторный вызов возвращает ErrAlreadyInitialized,
// стороны вне (0, MaxWorldSide] возвращают ErrInvalidWorldSize.
// При ошибке аллокации реестр остаётся пустым.
func (r *Registry) InitializeWorld(ctx context.Context, width, height int) ([]*Chunk, error) {
	_, span := r.tracer.Start(ctx, "world.InitializeWorld", trace.WithAttributes(
		attribute.Int("world.width", width),
		attribute.Int("world.height", height),
	))
	defer span.End()

	chunks, err := r.initialize(width, height)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("world.chunks", len(chunks)))
	return chunks, nil
}

func (r *Registry) initialize(width, height int) ([]*Chunk, error) {
	if width <= 0 || height <= 0 || width > MaxWorldSide || height > MaxWorldSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidWorldSize, width, height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil, ErrAlreadyInitialized
	}

	log := logging.GetWorldLogger()
	start := time.Now()

	prealloc := width * height
	if prealloc > initialCapacity {
		prealloc = initialCapacity
	}
	chunks := make([]*Chunk, 0, prealloc)
	coords := make([]vec.Vec2, 0, prealloc)

	for i := 0; i < width; i++ {
		for j := 0; j < height; j++ {
			coord := vec.Vec2{X: i, Y: j}
			origin := ChunkOrigin(coord)

			c, err := r.allocator.Allocate(origin.X, origin.Y)
			if err == nil && c == nil {
				err = ErrAllocationFailure
			}
			if err != nil {
				if rel, ok := r.allocator.(chunkReleaser); ok {
					rel.Release(len(chunks))
				}
				r.metrics.allocFailed()
				log.Error("❌ Ошибка выделения чанка %v: %v", coord, err)
				return nil, fmt.Errorf("%w: чанк %v: %w", ErrAllocationFailure, coord, err)
			}

			chunks = append(chunks, c)
			coords = append(coords, coord)
		}
	}

	for slot, coord := range coords {
		r.index[coord] = slot
	}
	r.chunks = chunks
	r.coords = coords
	r.width = width
	r.height = height
	r.initialized = true

	elapsed := time.Since(start)
	r.metrics.observeInit(len(chunks), elapsed)
	log.Info("🌍 Мир %s инициализирован: %dx%d чанков (%d) за %s", r.id, width, height, len(chunks), elapsed)

	out := make([]*Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// ForEachChunk вызывает fn для каждого чанка в порядке создания.
// fn не должна вызывать InitializeWorld.
func (r *Registry) ForEachChunk(fn func(coord vec.Vec2, c *Chunk)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for slot, c := range r.chunks {
		fn(r.coords[slot], c)
	}
}

// Chunk возвращает чанк по координатам в сетке чанков
func (r *Registry) Chunk(coord vec.Vec2) (*Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.index[coord]
	if !ok {
		return nil, false
	}
	return r.chunks[slot], true
}

// Coords возвращает координаты всех чанков в порядке создания
func (r *Registry) Coords() []vec.Vec2 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vec.Vec2, len(r.coords))
	copy(out, r.coords)
	return out
}

// Len возвращает количество чанков
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.chunks)
}

// Size возвращает размер мира в чанках
func (r *Registry) Size() (width, height int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.width, r.height
}

// Initialized возвращает true после успешной инициализации
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.initialized
}

// ID возвращает уникальный идентификатор реестра
func (r *Registry) ID() string {
	return r.id
}
