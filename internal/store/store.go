// Package store: gorm-хранилище тикетов, операторов, сессий клиентов и FAQ.
//
// Store не кэширует состояние между вызовами: каждый метод обращается к базе.
// Переходы статуса тикета выполняются одним условным UPDATE (см. TransitionTicket).
package store

import "gorm.io/gorm"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}
