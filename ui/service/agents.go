package service

import (
	"context"
	"errors"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/schema"
	"github.com/youssefsiam38/meetpg/storage"
)

// Fixed NOT_FOUND messages of the agents procedures.
const (
	msgAgentGone     = "Agent already removed or not found"
	msgAgentNotFound = "Agent not found"
)

// CreateAgent inserts an agent owned by the caller.
func (s *Service) CreateAgent(ctx context.Context, session meetpg.Session, in AgentsInsertInput) (*storage.Agent, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.AgentsInsert, &in); err != nil {
		return nil, err
	}

	return s.store.CreateAgent(ctx, &storage.CreateAgentParams{
		UserID:       session.UserID,
		Name:         in.Name,
		Instructions: in.Instructions,
	})
}

// UpdateAgent replaces name and instructions of one of the caller's agents.
func (s *Service) UpdateAgent(ctx context.Context, session meetpg.Session, in AgentsUpdateInput) (*storage.Agent, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.AgentsUpdate, &in); err != nil {
		return nil, err
	}

	agent, err := s.store.UpdateAgent(ctx, &storage.UpdateAgentParams{
		ID:           in.ID,
		UserID:       session.UserID,
		Name:         in.Name,
		Instructions: in.Instructions,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, meetpg.NotFound(msgAgentGone)
	}
	return agent, err
}

// RemoveAgent deletes one of the caller's agents and returns its prior state.
func (s *Service) RemoveAgent(ctx context.Context, session meetpg.Session, in IDInput) (*storage.Agent, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.IDInput, &in); err != nil {
		return nil, err
	}

	agent, err := s.store.DeleteAgent(ctx, in.ID, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, meetpg.NotFound(msgAgentGone)
	}
	return agent, err
}

// GetAgent returns one of the caller's agents with its meeting count.
func (s *Service) GetAgent(ctx context.Context, session meetpg.Session, in IDInput) (*storage.Agent, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.IDInput, &in); err != nil {
		return nil, err
	}

	agent, err := s.store.GetAgent(ctx, in.ID, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, meetpg.NotFound(msgAgentNotFound)
	}
	return agent, err
}

// ListAgents returns a page of the caller's agents, newest first.
func (s *Service) ListAgents(ctx context.Context, session meetpg.Session, in AgentsGetManyInput) (*AgentsPage, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.AgentsGetMany, &in); err != nil {
		return nil, err
	}

	agents, total, err := s.store.ListAgents(ctx, &storage.ListAgentsParams{
		UserID: session.UserID,
		Search: in.Search,
		Limit:  in.PageSize,
		Offset: Offset(in.Page, in.PageSize),
	})
	if err != nil {
		return nil, err
	}
	return newPage(agents, total, in.PageSize), nil
}
