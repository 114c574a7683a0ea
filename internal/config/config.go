package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/dwarf-miner/internal/world"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Engine    EngineConfig    `yaml:"engine"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorldConfig задаёт размер мира в чанках.
// Размеры тайлов и чанков фиксированы и здесь не настраиваются.
type WorldConfig struct {
	XChunks   int `yaml:"x_chunks"`
	YChunks   int `yaml:"y_chunks"`
	MaxChunks int `yaml:"max_chunks"` // 0 — без ограничения
}

type EngineConfig struct {
	TPS         int     `yaml:"tps"`
	CameraScale float64 `yaml:"camera_scale"`
	CameraSpeed float64 `yaml:"camera_speed"`
}

type ServerConfig struct {
	InspectorPort int `yaml:"inspector_port"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			XChunks: 20,
			YChunks: 20,
		},
		Engine: EngineConfig{
			TPS:         60,
			CameraScale: 12,
			CameraSpeed: 10,
		},
		Logging: LoggingConfig{
			Dir:          "logs",
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "dwarf-miner",
		},
	}
}

// GetInspectorPort возвращает порт inspector API с поддержкой fallback значений
func (s *ServerConfig) GetInspectorPort() int {
	return getPortWithEnvFallback(s.InspectorPort, "DWARF_INSPECTOR_PORT", 8089)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV DWARF_CONFIG; если и он пуст,
// возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("DWARF_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.World.XChunks <= 0 || c.World.YChunks <= 0 {
		return fmt.Errorf("world: размер мира должен быть положительным, получено %dx%d", c.World.XChunks, c.World.YChunks)
	}
	if c.World.XChunks > world.MaxWorldSide || c.World.YChunks > world.MaxWorldSide {
		return fmt.Errorf("world: сторона мира не может превышать %d чанков, получено %dx%d", world.MaxWorldSide, c.World.XChunks, c.World.YChunks)
	}
	if c.World.MaxChunks < 0 {
		return fmt.Errorf("world: max_chunks не может быть отрицательным: %d", c.World.MaxChunks)
	}
	if c.Engine.TPS <= 0 {
		return fmt.Errorf("engine: tps должен быть положительным: %d", c.Engine.TPS)
	}
	if c.Engine.CameraScale <= 0 {
		return fmt.Errorf("engine: camera_scale должен быть положительным: %g", c.Engine.CameraScale)
	}
	return nil
}
