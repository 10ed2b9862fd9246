package service

import (
	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/storage"
)

// Service provides the agents and meetings procedures.
type Service struct {
	store storage.Store
}

// New creates a new Service with the given store.
func New(store storage.Store) *Service {
	return &Service{
		store: store,
	}
}

// Store returns the underlying store.
// This is useful for advanced operations not covered by the service.
func (s *Service) Store() storage.Store {
	return s.store
}

// authorize rejects sessions without a user id.
func authorize(session meetpg.Session) error {
	if !session.Valid() {
		return meetpg.Unauthorized("Unauthorized")
	}
	return nil
}
