package api

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/annel0/dwarf-miner/internal/codec"
	"github.com/annel0/dwarf-miner/internal/engine"
	"github.com/annel0/dwarf-miner/internal/vec"
	"github.com/annel0/dwarf-miner/internal/world"
	"github.com/gin-gonic/gin"
)

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WorldInfo описывает мир целиком
type WorldInfo struct {
	ID               string               `json:"id"`
	Initialized      bool                 `json:"initialized"`
	Width            int                  `json:"width"`
	Height           int                  `json:"height"`
	Chunks           int                  `json:"chunks"`
	TileSize         float64              `json:"tile_size"`
	TilePerChunk     int                  `json:"tile_per_chunk"`
	TileAreaPerChunk int                  `json:"tile_area_per_chunk"`
	ChunkPixelSize   float64              `json:"chunk_pixel_size"`
	Material         engine.ChunkMaterial `json:"material"`
	ClearColor       engine.Color         `json:"clear_color"`
}

// ChunkSummary — краткая информация о чанке
type ChunkSummary struct {
	Coord    vec.Vec2 `json:"coord"`
	Position vec.Vec2 `json:"position"`
	Active   bool     `json:"active"`
}

// ChunkDetail — подробная информация о чанке
type ChunkDetail struct {
	ChunkSummary
	ChunkPosition vec.Vec2Float `json:"chunk_position"`
	TilePosition  vec.Vec2Float `json:"tile_position"`
	Center        vec.Vec2Float `json:"center"`
	EmptyTiles    int           `json:"empty_tiles"`
	Encoding      string        `json:"encoding,omitempty"`
	Tiles         string        `json:"tiles,omitempty"` // base64 упакованных тайлов
}

// TileIndexInfo — разложение линейного индекса тайла
type TileIndexInfo struct {
	Index int `json:"index"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

// LocateInfo — положение точки мира в сетке
type LocateInfo struct {
	Point  vec.Vec2Float `json:"point"`
	Chunk  vec.Vec2      `json:"chunk"`
	Row    int           `json:"row"`
	Col    int           `json:"col"`
	Index  int           `json:"index"`
	Loaded bool          `json:"loaded"` // есть ли такой чанк в реестре
}

// CameraInfo — состояние камеры и ввода
type CameraInfo struct {
	Translation vec.Vec2Float    `json:"translation"`
	Scale       float64          `json:"scale"`
	Pressed     []engine.KeyCode `json:"pressed"`
}

// KeyRequest — нажатие или отпускание клавиши
type KeyRequest struct {
	Key     string `json:"key" binding:"required"`
	Pressed bool   `json:"pressed"`
}

// FrameInfo — команды отрисовки последнего кадра
type FrameInfo struct {
	Rects []engine.RectCommand `json:"rects"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: data})
}

// handleHealth обрабатывает health check
func (rs *RestServer) handleHealth(c *gin.Context) {
	respondOK(c, gin.H{
		"status":      "ok",
		"uptime":      rs.metrics.GetUptime(),
		"world_ready": rs.scene.Registry.Initialized(),
	})
}

// handleWorld возвращает параметры мира
func (rs *RestServer) handleWorld(c *gin.Context) {
	reg := rs.scene.Registry
	w, h := reg.Size()
	respondOK(c, WorldInfo{
		ID:               reg.ID(),
		Initialized:      reg.Initialized(),
		Width:            w,
		Height:           h,
		Chunks:           reg.Len(),
		TileSize:         world.TileSize,
		TilePerChunk:     world.TilePerChunk,
		TileAreaPerChunk: world.TileAreaPerChunk,
		ChunkPixelSize:   world.ChunkPixelSize,
		Material:         rs.scene.Material,
		ClearColor:       rs.scene.ClearColor,
	})
}

// handleChunks возвращает все чанки в порядке создания
func (rs *RestServer) handleChunks(c *gin.Context) {
	chunks := make([]ChunkSummary, 0, rs.scene.Registry.Len())
	rs.scene.Registry.ForEachChunk(func(coord vec.Vec2, ch *world.Chunk) {
		chunks = append(chunks, ChunkSummary{Coord: coord, Position: ch.Position, Active: ch.Active})
	})
	respondOK(c, chunks)
}

// handleChunk возвращает один чанк; ?encoding=raw|zstd добавляет тайлы
func (rs *RestServer) handleChunk(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	if errX != nil || errY != nil {
		respondError(c, http.StatusBadRequest, "координаты чанка должны быть целыми числами")
		return
	}

	coord := vec.Vec2{X: x, Y: y}
	ch, ok := rs.scene.Registry.Chunk(coord)
	if !ok {
		respondError(c, http.StatusNotFound, "чанк "+coord.String()+" не найден")
		return
	}

	detail := ChunkDetail{
		ChunkSummary:  ChunkSummary{Coord: coord, Position: ch.Position, Active: ch.Active},
		ChunkPosition: ch.PixelToChunkPosition(),
		TilePosition:  ch.PixelToTilePosition(),
		Center:        ch.Center(),
		EmptyTiles:    ch.CountEmpty(),
	}

	if encoding := c.Query("encoding"); encoding != "" {
		comp, ok := rs.compressors[encoding]
		if !ok {
			respondError(c, http.StatusBadRequest, "неизвестная кодировка "+encoding)
			return
		}
		payload, err := comp.Compress(codec.EncodeChunk(ch))
		if err != nil {
			rs.log.Error("Ошибка сжатия тайлов чанка %v: %v", coord, err)
			respondError(c, http.StatusInternalServerError, "ошибка сжатия тайлов")
			return
		}
		detail.Encoding = comp.Name()
		detail.Tiles = base64.StdEncoding.EncodeToString(payload)
	}

	respondOK(c, detail)
}

// handleTileIndex раскладывает линейный индекс тайла
func (rs *RestServer) handleTileIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "индекс должен быть целым числом")
		return
	}

	row, col, err := world.LinearIndexTo2D(index)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, TileIndexInfo{Index: index, Row: row, Col: col})
}

// handleLocate находит чанк и тайл для точки мира
func (rs *RestServer) handleLocate(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		respondError(c, http.StatusBadRequest, "параметры x и y обязательны и должны быть числами")
		return
	}

	p := vec.Vec2Float{X: x, Y: y}
	loc, err := world.LocateTile(p)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	_, loaded := rs.scene.Registry.Chunk(loc.Chunk)

	respondOK(c, LocateInfo{
		Point:  p,
		Chunk:  loc.Chunk,
		Row:    loc.Row,
		Col:    loc.Col,
		Index:  loc.Index,
		Loaded: loaded,
	})
}

// handleCamera возвращает состояние камеры
func (rs *RestServer) handleCamera(c *gin.Context) {
	respondOK(c, rs.cameraInfo())
}

// handleCameraKey нажимает или отпускает клавишу
func (rs *RestServer) handleCameraKey(c *gin.Context) {
	var req KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	key, err := engine.ParseKeyCode(req.Key)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Pressed {
		rs.scene.Input.Press(key)
	} else {
		rs.scene.Input.Release(key)
	}
	respondOK(c, rs.cameraInfo())
}

func (rs *RestServer) cameraInfo() CameraInfo {
	return CameraInfo{
		Translation: rs.scene.Camera.Translation(),
		Scale:       rs.scene.Camera.Scale(),
		Pressed:     rs.scene.Input.PressedKeys(),
	}
}

// handleDiagnostics возвращает данные оверлея производительности
func (rs *RestServer) handleDiagnostics(c *gin.Context) {
	respondOK(c, rs.scene.Diagnostics.Snapshot())
}

// handleFrame возвращает команды отрисовки последнего кадра
func (rs *RestServer) handleFrame(c *gin.Context) {
	rec, ok := rs.scene.Gizmos.(*engine.FrameRecorder)
	if !ok {
		respondError(c, http.StatusNotFound, "приёмник кадров не поддерживает чтение")
		return
	}
	respondOK(c, FrameInfo{Rects: rec.LastFrame()})
}
