package terminal

import (
	"slices"
	"sync"
)

type listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]T
}

func (l *listeners[T]) add(fn T) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]T)
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

// snapshot returns the listeners in registration order.
func (l *listeners[T]) snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.fns[id])
	}
	return out
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
