package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena хранит узлы одного вида подряд; индекс 0 зарезервирован под
// "нет узла", поэтому выдаваемые индексы начинаются с 1.
type Arena[T any] struct {
	data []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return a.Len()
}

// Get returns nil for 0 and for indexes past the end.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || uint64(index) > uint64(len(a.data)) {
		return nil
	}
	return &a.data[index-1]
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast arena: %w", err))
	}
	return n
}
