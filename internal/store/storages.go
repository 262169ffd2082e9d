package store

import (
	"github.com/MKhiriev/go-screenly/internal/logger"
)

// Storages groups every repository backed by one *DB.
type Storages struct {
	UserRepository       UserRepository
	ResetTokenRepository ResetTokenRepository
	WatchlistRepository  WatchlistRepository
	MovieRepository      MovieRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		ResetTokenRepository: NewResetTokenRepository(db, log),
		WatchlistRepository:  NewWatchlistRepository(db, log),
		MovieRepository:      NewMovieRepository(db, log),
	}
}
