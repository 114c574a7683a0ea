package world

// Block представляет собой одну клетку мира: блок переднего плана и стену за ним.
// Значение {0, 0} означает пустую клетку (воздух).
type Block struct {
	BlockID int16 // Идентификатор блока переднего плана
	WallID  int8  // Идентификатор фоновой стены
}

// EmptyBlock возвращает пустой блок
func EmptyBlock() Block {
	return Block{BlockID: 0, WallID: 0}
}

// IsEmpty возвращает true для пустой клетки
func (b Block) IsEmpty() bool {
	return b.BlockID == 0 && b.WallID == 0
}
