package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/dwarf-miner/internal/codec"
	"github.com/annel0/dwarf-miner/internal/engine"
	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/annel0/dwarf-miner/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer — inspector API: только чтение состояния мира плюс ввод для камеры
type RestServer struct {
	router      *gin.Engine
	httpServer  *http.Server
	scene       *engine.Scene
	port        string
	metrics     *ServerMetrics
	compressors map[string]codec.Compressor
	log         *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port       string                // порт для запуска сервера, например ":8089"
	Scene      *engine.Scene         // сцена движка с реестром чанков
	Registerer prometheus.Registerer // куда регистрировать HTTP-метрики
	Gatherer   prometheus.Gatherer   // откуда отдавать /metrics
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Scene == nil {
		return nil, errors.New("api: сцена не задана")
	}
	if config.Port == "" {
		config.Port = ":8089"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	compressors := make(map[string]codec.Compressor)
	for _, name := range []string{codec.EncodingRaw, codec.EncodingZstd} {
		comp, err := codec.NewCompressor(name)
		if err != nil {
			return nil, err
		}
		compressors[comp.Name()] = comp
	}

	gin.SetMode(gin.ReleaseMode)

	log := logging.GetAPILogger()

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("inspector"))
	router.Use(middleware.NewRequestLogger(log).Handler())

	promMw := middleware.NewPrometheusMiddleware("inspector", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:      router,
		scene:       config.Scene,
		port:        config.Port,
		metrics:     NewServerMetrics(),
		compressors: compressors,
		log:         log,
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.GET("/world", rs.handleWorld)
		api.GET("/chunks", rs.handleChunks)
		api.GET("/chunks/:x/:y", rs.handleChunk)
		api.GET("/tiles/:index", rs.handleTileIndex)
		api.GET("/locate", rs.handleLocate)
		api.GET("/camera", rs.handleCamera)
		api.POST("/camera/keys", rs.handleCameraKey)
		api.GET("/diagnostics", rs.handleDiagnostics)
		api.GET("/frame", rs.handleFrame)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера (используется в тестах)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает HTTP-сервер и блокируется до Shutdown
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 Inspector API слушает %s", rs.port)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска inspector API: %w", err)
	}
	return nil
}

// Shutdown останавливает HTTP-сервер
func (rs *RestServer) Shutdown(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
