package world

import (
	"fmt"
	"sync"
)

// ChunkAllocator выделяет память под новые чанки.
// Реализация должна вернуть либо полностью инициализированный чанк, либо ошибку.
type ChunkAllocator interface {
	Allocate(x, y int) (*Chunk, error)
}

// chunkReleaser реализуют аллокаторы, которым нужно вернуть выделенное при откате.
type chunkReleaser interface {
	Release(n int)
}

// HeapAllocator выделяет чанки в куче и никогда не возвращает ошибку
type HeapAllocator struct{}

// Allocate создаёт пустой чанк в позиции (x, y) в пикселях мира
func (HeapAllocator) Allocate(x, y int) (*Chunk, error) {
	return NewEmptyChunk(x, y), nil
}

// BudgetAllocator ограничивает общее число выделенных чанков.
// Используется на хостах с ограниченной памятью.
type BudgetAllocator struct {
	mu        sync.Mutex
	limit     int
	allocated int
}

// NewBudgetAllocator создаёт аллокатор с лимитом limit чанков
func NewBudgetAllocator(limit int) *BudgetAllocator {
	return &BudgetAllocator{limit: limit}
}

// Allocate создаёт пустой чанк, если лимит ещё не исчерпан
func (a *BudgetAllocator) Allocate(x, y int) (*Chunk, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.allocated >= a.limit {
		return nil, fmt.Errorf("%w: лимит %d чанков исчерпан", ErrAllocationFailure, a.limit)
	}
	a.allocated++
	return NewEmptyChunk(x, y), nil
}

// Release возвращает n чанков в бюджет
func (a *BudgetAllocator) Release(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.allocated -= n
	if a.allocated < 0 {
		a.allocated = 0
	}
}

// Allocated возвращает число выделенных чанков
func (a *BudgetAllocator) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.allocated
}
