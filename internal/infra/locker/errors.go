package locker

import "errors"

var (
	// ErrLockTimeout возвращается, если блокировку не удалось получить за отведённое время
	ErrLockTimeout = errors.New("locker: lock wait timeout")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("locker: lock backend failure")
)
