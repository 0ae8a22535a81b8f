package ipv

import (
	"context"
	"sync"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// LocalLocker SectionLocker en proceso: un mutex por área.
type LocalLocker struct {
	mu       sync.Mutex
	sections map[entity.Section]*sync.Mutex
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sections: make(map[entity.Section]*sync.Mutex)}
}

func (l *LocalLocker) Lock(ctx context.Context, section entity.Section) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	m, ok := l.sections[section]
	if !ok {
		m = &sync.Mutex{}
		l.sections[section] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
