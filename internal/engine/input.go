package engine

import (
	"fmt"
	"sort"
	"sync"
)

// KeyCode идентифицирует клавишу
type KeyCode string

const (
	KeyArrowRight KeyCode = "ArrowRight"
	KeyArrowUp    KeyCode = "ArrowUp"
	KeyArrowLeft  KeyCode = "ArrowLeft"
	KeyArrowDown  KeyCode = "ArrowDown"
	KeyEscape     KeyCode = "Escape"
)

// ParseKeyCode проверяет имя клавиши
func ParseKeyCode(s string) (KeyCode, error) {
	switch k := KeyCode(s); k {
	case KeyArrowRight, KeyArrowUp, KeyArrowLeft, KeyArrowDown, KeyEscape:
		return k, nil
	default:
		return "", fmt.Errorf("неизвестная клавиша %q", s)
	}
}

// Input хранит множество зажатых клавиш. Безопасен для конкурентного доступа.
type Input struct {
	mu      sync.RWMutex
	pressed map[KeyCode]struct{}
}

// NewInput создаёт пустое состояние ввода
func NewInput() *Input {
	return &Input{pressed: make(map[KeyCode]struct{})}
}

// Press отмечает клавишу зажатой
func (in *Input) Press(k KeyCode) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pressed[k] = struct{}{}
}

// Release отпускает клавишу
func (in *Input) Release(k KeyCode) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.pressed, k)
}

// Pressed возвращает true, если клавиша зажата
func (in *Input) Pressed(k KeyCode) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	_, ok := in.pressed[k]
	return ok
}

// PressedKeys возвращает отсортированный список зажатых клавиш
func (in *Input) PressedKeys() []KeyCode {
	in.mu.RLock()
	defer in.mu.RUnlock()

	keys := make([]KeyCode, 0, len(in.pressed))
	for k := range in.pressed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
