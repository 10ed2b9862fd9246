package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/storage"
)

const meetingColumns = `m.id, m.name, m.agent_id, m.user_id, m.status, m.created_at, m.updated_at, a.name`

func (s *Store) scanMeeting(row driver.Row, withAgent bool) (*storage.Meeting, error) {
	var (
		meeting   storage.Meeting
		status    string
		agentName string
	)
	dest := []any{
		&meeting.ID,
		&meeting.Name,
		&meeting.AgentID,
		&meeting.UserID,
		&status,
		s.timeDest(&meeting.CreatedAt),
		s.timeDest(&meeting.UpdatedAt),
	}
	if withAgent {
		dest = append(dest, &agentName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	meeting.Status = statusOf(status)
	if withAgent {
		meeting.Agent = &storage.AgentSummary{ID: meeting.AgentID, Name: agentName}
	}
	return &meeting, nil
}

// CreateMeeting inserts a meeting owned by params.UserID. The insert only
// happens when params.AgentID names an agent of the same owner.
func (s *Store) CreateMeeting(ctx context.Context, params *storage.CreateMeetingParams) (*storage.Meeting, error) {
	query := `
		INSERT INTO meetings (id, name, name_lower, agent_id, user_id, status, created_at, updated_at)
		SELECT $1, $2, $7, $3, $4, $5, ` + s.castTime("$6") + `, ` + s.castTime("$6") + `
		WHERE EXISTS (SELECT 1 FROM agents ea WHERE ea.id = $3 AND ea.user_id = $4)
		RETURNING id, name, agent_id, user_id, status, created_at, updated_at,
		          (SELECT ra.name FROM agents ra WHERE ra.id = $3)
	`

	meeting, err := s.scanMeeting(s.queryRow(ctx, query,
		s.newID(),
		params.Name,
		params.AgentID,
		params.UserID,
		string(meetpg.MeetingStatusUpcoming),
		s.dialect.Time(s.timestamp()),
		foldName(params.Name),
	), true)
	if isNoRows(err) {
		return nil, storage.ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return meeting, nil
}

// UpdateMeeting replaces name and agent of an owned meeting. The status is
// left untouched.
func (s *Store) UpdateMeeting(ctx context.Context, params *storage.UpdateMeetingParams) (*storage.Meeting, error) {
	query := `
		UPDATE meetings
		SET name = $1, name_lower = $6, agent_id = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		  AND EXISTS (SELECT 1 FROM agents ea WHERE ea.id = $2 AND ea.user_id = $5)
		RETURNING id, name, agent_id, user_id, status, created_at, updated_at,
		          (SELECT ra.name FROM agents ra WHERE ra.id = $2)
	`

	meeting, err := s.scanMeeting(s.queryRow(ctx, query,
		params.Name, params.AgentID, s.dialect.Time(s.timestamp()), params.ID, params.UserID, foldName(params.Name)), true)
	if err == nil {
		return meeting, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}

	// Nothing matched: either the meeting or the agent is missing.
	if _, getErr := s.GetMeeting(ctx, params.ID, params.UserID); getErr != nil {
		if errors.Is(getErr, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, getErr
	}
	return nil, storage.ErrAgentNotFound
}

// DeleteMeeting removes an owned meeting and returns its prior state
// without the agent summary.
func (s *Store) DeleteMeeting(ctx context.Context, id, userID string) (*storage.Meeting, error) {
	query := `
		DELETE FROM meetings
		WHERE id = $1 AND user_id = $2
		RETURNING id, name, agent_id, user_id, status, created_at, updated_at
	`

	meeting, err := s.scanMeeting(s.queryRow(ctx, query, id, userID), false)
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete meeting: %w", err)
	}
	return meeting, nil
}

// GetMeeting retrieves an owned meeting with its agent summary.
func (s *Store) GetMeeting(ctx context.Context, id, userID string) (*storage.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings m
		JOIN agents a ON a.id = m.agent_id
		WHERE m.id = $1 AND m.user_id = $2`

	meeting, err := s.scanMeeting(s.queryRow(ctx, query, id, userID), true)
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetings returns a page of owned meetings, newest first.
func (s *Store) ListMeetings(ctx context.Context, params *storage.ListMeetingsParams) ([]*storage.Meeting, int, error) {
	f := ownedFilter("m", params.UserID, params.Search)
	if params.Status != "" {
		f.add("m.status = %s", string(params.Status))
	}
	if params.AgentID != "" {
		f.add("m.agent_id = %s", params.AgentID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM meetings m ` + f.where()
	if err := s.queryRow(ctx, countQuery, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	query := `SELECT ` + meetingColumns + `
		FROM meetings m
		JOIN agents a ON a.id = m.agent_id
		` + f.where() + `
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ` + f.next(1) + ` OFFSET ` + f.next(2)
	args := append(f.args, params.Limit, params.Offset)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]*storage.Meeting, 0, params.Limit)
	for rows.Next() {
		meeting, err := s.scanMeeting(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return meetings, total, nil
}
