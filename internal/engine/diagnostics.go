package engine

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemInfo — снимок загрузки системы и процесса
type SystemInfo struct {
	SystemCPUPercent  float64 `json:"system_cpu_percent"`
	ProcessCPUPercent float64 `json:"process_cpu_percent"`
	SystemMemPercent  float64 `json:"system_mem_percent"`
	ProcessRSSMB      float64 `json:"process_rss_mb"`
}

// SystemSampler снимает показатели системы
type SystemSampler interface {
	Sample() (SystemInfo, error)
}

// gopsutilSampler читает показатели через gopsutil
type gopsutilSampler struct {
	proc *process.Process
}

// NewSystemSampler создаёт сэмплер для текущего процесса
func NewSystemSampler() SystemSampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		proc = nil
	}
	return &gopsutilSampler{proc: proc}
}

func (s *gopsutilSampler) Sample() (SystemInfo, error) {
	var info SystemInfo

	// interval=0: процент с момента предыдущего вызова, без блокировки кадра
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		return info, err
	}
	if len(cpuPercents) > 0 {
		info.SystemCPUPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, err
	}
	info.SystemMemPercent = vm.UsedPercent

	if s.proc != nil {
		if p, err := s.proc.CPUPercent(); err == nil {
			info.ProcessCPUPercent = p
		}
		if mi, err := s.proc.MemoryInfo(); err == nil {
			info.ProcessRSSMB = float64(mi.RSS) / 1024 / 1024
		}
	}
	return info, nil
}

// DiagnosticsSnapshot — данные для оверлея производительности
type DiagnosticsSnapshot struct {
	Frame       uint64     `json:"frame"`
	FrameTimeMs float64    `json:"frame_time_ms"`
	FPS         float64    `json:"fps"`
	EntityCount int        `json:"entity_count"`
	HeapAllocMB float64    `json:"heap_alloc_mb"`
	Goroutines  int        `json:"goroutines"`
	System      SystemInfo `json:"system"`
	SampledAt   time.Time  `json:"sampled_at"`
}

// Diagnostics собирает время кадра, число сущностей и загрузку системы.
type Diagnostics struct {
	mu          sync.RWMutex
	snap        DiagnosticsSnapshot
	sampler     SystemSampler
	sampleEvery time.Duration
	lastSample  time.Time
	log         *logging.Logger

	frames    prometheus.Counter
	frameTime prometheus.Histogram
	entities  prometheus.Gauge
	cpu       prometheus.Gauge
	memory    prometheus.Gauge
}

// NewDiagnostics создаёт сборщик. reg == nil отключает Prometheus-метрики,
// sampler == nil отключает системные показатели.
func NewDiagnostics(reg prometheus.Registerer, sampler SystemSampler) *Diagnostics {
	d := &Diagnostics{
		sampler:     sampler,
		sampleEvery: time.Second,
		log:         logging.GetEngineLogger(),
	}
	if reg == nil {
		return d
	}

	d.frames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dwarf",
		Subsystem: "engine",
		Name:      "frames_total",
		Help:      "Общее число обработанных кадров.",
	})
	d.frameTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dwarf",
		Subsystem: "engine",
		Name:      "frame_time_seconds",
		Help:      "Время между кадрами.",
		Buckets:   []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25},
	})
	d.entities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dwarf",
		Subsystem: "engine",
		Name:      "entities",
		Help:      "Количество сущностей в сцене.",
	})
	d.cpu = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dwarf",
		Subsystem: "engine",
		Name:      "process_cpu_percent",
		Help:      "Загрузка CPU процессом.",
	})
	d.memory = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dwarf",
		Subsystem: "engine",
		Name:      "process_rss_megabytes",
		Help:      "Резидентная память процесса.",
	})
	reg.MustRegister(d.frames, d.frameTime, d.entities, d.cpu, d.memory)
	return d
}

// Record фиксирует завершённый кадр
func (d *Diagnostics) Record(frame uint64, dt time.Duration, entities int, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.snap.Frame = frame
	d.snap.FrameTimeMs = float64(dt.Microseconds()) / 1000
	if dt > 0 {
		d.snap.FPS = 1 / dt.Seconds()
	}
	d.snap.EntityCount = entities

	if d.frames != nil {
		d.frames.Inc()
		d.frameTime.Observe(dt.Seconds())
		d.entities.Set(float64(entities))
	}

	if now.Sub(d.lastSample) < d.sampleEvery {
		return
	}
	d.lastSample = now
	d.snap.SampledAt = now

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	d.snap.HeapAllocMB = float64(m.HeapAlloc) / 1024 / 1024
	d.snap.Goroutines = runtime.NumGoroutine()

	if d.sampler == nil {
		return
	}
	info, err := d.sampler.Sample()
	if err != nil {
		d.log.Warn("Ошибка снятия системных показателей на кадре %d: %v", frame, err)
		return
	}
	d.snap.System = info
	if d.cpu != nil {
		d.cpu.Set(info.ProcessCPUPercent)
		d.memory.Set(info.ProcessRSSMB)
	}
}

// Snapshot возвращает последние собранные данные
func (d *Diagnostics) Snapshot() DiagnosticsSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}
