package service

import (
	"context"
	"errors"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/schema"
	"github.com/youssefsiam38/meetpg/storage"
)

// Fixed NOT_FOUND messages of the meetings procedures.
const (
	msgMeetingGone     = "Meeting already removed or not found"
	msgMeetingNotFound = "Meeting not found"
)

// agentNotFound reports a meeting whose agentId is not one of the caller's agents.
func agentNotFound() *meetpg.Error {
	return &meetpg.Error{Code: meetpg.CodeNotFound, Message: msgAgentNotFound, Field: "agentId"}
}

// CreateMeeting inserts a meeting owned by the caller. The referenced agent
// must belong to the caller. New meetings start as upcoming.
func (s *Service) CreateMeeting(ctx context.Context, session meetpg.Session, in MeetingsInsertInput) (*storage.Meeting, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.MeetingsInsert, &in); err != nil {
		return nil, err
	}

	meeting, err := s.store.CreateMeeting(ctx, &storage.CreateMeetingParams{
		UserID:  session.UserID,
		Name:    in.Name,
		AgentID: in.AgentID,
	})
	if errors.Is(err, storage.ErrAgentNotFound) {
		return nil, agentNotFound()
	}
	return meeting, err
}

// UpdateMeeting replaces name and agent of one of the caller's meetings.
func (s *Service) UpdateMeeting(ctx context.Context, session meetpg.Session, in MeetingsUpdateInput) (*storage.Meeting, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.MeetingsUpdate, &in); err != nil {
		return nil, err
	}

	meeting, err := s.store.UpdateMeeting(ctx, &storage.UpdateMeetingParams{
		ID:      in.ID,
		UserID:  session.UserID,
		Name:    in.Name,
		AgentID: in.AgentID,
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, meetpg.NotFound(msgMeetingGone)
	case errors.Is(err, storage.ErrAgentNotFound):
		return nil, agentNotFound()
	}
	return meeting, err
}

// RemoveMeeting deletes one of the caller's meetings and returns its prior state.
func (s *Service) RemoveMeeting(ctx context.Context, session meetpg.Session, in IDInput) (*storage.Meeting, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.IDInput, &in); err != nil {
		return nil, err
	}

	meeting, err := s.store.DeleteMeeting(ctx, in.ID, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, meetpg.NotFound(msgMeetingGone)
	}
	return meeting, err
}

// GetMeeting returns one of the caller's meetings with its agent summary.
func (s *Service) GetMeeting(ctx context.Context, session meetpg.Session, in IDInput) (*storage.Meeting, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.IDInput, &in); err != nil {
		return nil, err
	}

	meeting, err := s.store.GetMeeting(ctx, in.ID, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, meetpg.NotFound(msgMeetingNotFound)
	}
	return meeting, err
}

// ListMeetings returns a page of the caller's meetings, newest first,
// optionally narrowed by name search, status and agent.
func (s *Service) ListMeetings(ctx context.Context, session meetpg.Session, in MeetingsGetManyInput) (*MeetingsPage, error) {
	if err := authorize(session); err != nil {
		return nil, err
	}
	if err := schema.Normalize(schema.MeetingsGetMany, &in); err != nil {
		return nil, err
	}

	meetings, total, err := s.store.ListMeetings(ctx, &storage.ListMeetingsParams{
		UserID:  session.UserID,
		Search:  in.Search,
		Status:  meetpg.MeetingStatus(in.Status),
		AgentID: in.AgentID,
		Limit:   in.PageSize,
		Offset:  Offset(in.Page, in.PageSize),
	})
	if err != nil {
		return nil, err
	}
	return newPage(meetings, total, in.PageSize), nil
}
