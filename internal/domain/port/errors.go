package port

import "errors"

var (
	// ErrNotFound возвращается хранилищами, если запись не найдена
	ErrNotFound = errors.New("not found")

	// ErrConflict возвращается при нарушении уникальности
	ErrConflict = errors.New("already exists")
)
