package locker

import (
	"context"
	"fmt"
	"sync"
)

// Local блокировки по ключу внутри одного процесса.
// Каждому ключу соответствует канал-семафор ёмкостью 1, запись удаляется,
// когда ключ больше никто не держит и не ждёт.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocal создает локальный менеджер блокировок
func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

// Lock захватывает блокировку key. Ожидание прерывается отменой ctx.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
	}, nil
}

func (l *Local) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// size количество ключей с активными владельцами или ожидающими
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
