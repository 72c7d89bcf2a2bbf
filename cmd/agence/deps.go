package main

import (
	"context"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/storage"
)

// notificationStore is the repository surface the store-backed commands need.
type notificationStore interface {
	domain.NotificationRepository
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// storeOpener opens the store at dbPath, or the configured db_path when empty.
type storeOpener func(dbPath string) (notificationStore, error)

func openConfiguredStore(dbPath string) (notificationStore, error) {
	s, err := storage.NewFromConfig(dbPath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withStore runs fn against an opened store and closes it afterwards.
func withStore(open storeOpener, dbPath string, fn func(notificationStore) error) (err error) {
	s, err := open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
