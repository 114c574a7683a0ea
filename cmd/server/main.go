package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/dwarf-miner/internal/api"
	"github.com/annel0/dwarf-miner/internal/config"
	"github.com/annel0/dwarf-miner/internal/engine"
	"github.com/annel0/dwarf-miner/internal/logging"
	"github.com/annel0/dwarf-miner/internal/observability"
	"github.com/annel0/dwarf-miner/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию $DWARF_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Dwarf Miner остановлен")
}

func setupLogging(cfg config.LoggingConfig) error {
	consoleLevel, err := logging.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel, err := logging.ParseLevel(cfg.FileLevel)
	if err != nil {
		return err
	}

	logging.Configure(logging.Options{
		Dir:          cfg.Dir,
		ConsoleLevel: consoleLevel,
		FileLevel:    fileLevel,
	})
	return logging.InitDefaultLogger("server")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("⛏️ Запуск Dwarf Miner: мир %dx%d чанков, %d TPS", cfg.World.XChunks, cfg.World.YChunks, cfg.Engine.TPS)

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("ошибка инициализации OpenTelemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
		}
	}()

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// === МИР И СЦЕНА ===
	opts := []world.Option{world.WithMetrics(world.NewMetrics(reg))}
	if cfg.World.MaxChunks > 0 {
		opts = append(opts, world.WithAllocator(world.NewBudgetAllocator(cfg.World.MaxChunks)))
	}
	registry := world.NewRegistry(opts...)

	scene := engine.NewScene(registry)
	scene.WorldWidth = cfg.World.XChunks
	scene.WorldHeight = cfg.World.YChunks
	scene.CameraScale = cfg.Engine.CameraScale
	scene.CameraSpeed = cfg.Engine.CameraSpeed
	scene.Diagnostics = engine.NewDiagnostics(reg, engine.NewSystemSampler())

	app := engine.NewDefaultApp(scene, cfg.Engine.TPS)
	if err := app.Startup(ctx); err != nil {
		return err
	}

	// === INSPECTOR API ===
	port := fmt.Sprintf(":%d", cfg.Server.GetInspectorPort())
	server, err := api.NewRestServer(api.Config{
		Port:       port,
		Scene:      scene,
		Registerer: reg,
		Gatherer:   reg,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop() // выход по Escape останавливает и API
		return app.Run(gctx)
	})
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   ❤️  Health check: http://localhost%s/health", port)
	logging.Info("   📊 Метрики: http://localhost%s/metrics", port)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
