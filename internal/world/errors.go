package world

import "errors"

var (
	// ErrOutOfRange возвращается для линейного индекса вне [0, TileAreaPerChunk)
	// или локальной координаты тайла вне [0, TilePerChunk).
	ErrOutOfRange = errors.New("индекс тайла вне диапазона")

	// ErrAllocationFailure возвращается, когда аллокатор не смог выделить чанк.
	ErrAllocationFailure = errors.New("не удалось выделить память под чанк")

	// ErrAlreadyInitialized возвращается при повторной инициализации мира.
	ErrAlreadyInitialized = errors.New("мир уже инициализирован")

	// ErrInvalidWorldSize возвращается для неположительных размеров мира.
	ErrInvalidWorldSize = errors.New("некорректный размер мира")
)
