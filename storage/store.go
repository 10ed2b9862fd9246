// Package storage defines the persistence contract for agents and meetings.
//
// Every Store operation is scoped to a single owner: rows belonging to a
// different user id are indistinguishable from rows that do not exist.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/youssefsiam38/meetpg"
)

var (
	// ErrNotFound is returned when the target row does not exist or is
	// owned by another user.
	ErrNotFound = errors.New("storage: row not found")

	// ErrAgentNotFound is returned when a meeting references an agent that
	// does not exist or is owned by another user.
	ErrAgentNotFound = errors.New("storage: referenced agent not found")
)

// Store defines the storage interface for agents and meetings
type Store interface {
	// Agent operations
	CreateAgent(ctx context.Context, params *CreateAgentParams) (*Agent, error)
	// UpdateAgent replaces name and instructions in a single conditional
	// statement. Returns ErrNotFound when no owned row matched.
	UpdateAgent(ctx context.Context, params *UpdateAgentParams) (*Agent, error)
	// DeleteAgent removes the row and returns its prior state. Meetings of
	// the agent are removed with it.
	DeleteAgent(ctx context.Context, id, userID string) (*Agent, error)
	GetAgent(ctx context.Context, id, userID string) (*Agent, error)
	// ListAgents returns one page and the number of rows matching the
	// filters regardless of Limit and Offset.
	ListAgents(ctx context.Context, params *ListAgentsParams) ([]*Agent, int, error)

	// Meeting operations
	// CreateMeeting returns ErrAgentNotFound when AgentID is not owned by UserID.
	CreateMeeting(ctx context.Context, params *CreateMeetingParams) (*Meeting, error)
	UpdateMeeting(ctx context.Context, params *UpdateMeetingParams) (*Meeting, error)
	DeleteMeeting(ctx context.Context, id, userID string) (*Meeting, error)
	GetMeeting(ctx context.Context, id, userID string) (*Meeting, error)
	ListMeetings(ctx context.Context, params *ListMeetingsParams) ([]*Meeting, int, error)

	// Ping checks database connectivity.
	Ping(ctx context.Context) error
}

// Agent is a user-owned assistant configuration
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	UserID       string    `json:"userId"`
	MeetingCount int       `json:"meetingCount"` // Number of meetings referencing this agent
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AgentSummary is the part of an agent embedded in meeting reads
type AgentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Meeting is a user-owned session that references one agent
type Meeting struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	AgentID   string               `json:"agentId"`
	UserID    string               `json:"userId"`
	Status    meetpg.MeetingStatus `json:"status"`
	Agent     *AgentSummary        `json:"agent,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// CreateAgentParams holds the columns of a new agent
type CreateAgentParams struct {
	UserID       string
	Name         string
	Instructions string
}

// UpdateAgentParams holds the full replacement of an agent
type UpdateAgentParams struct {
	ID           string
	UserID       string
	Name         string
	Instructions string
}

// ListAgentsParams filters and pages agents
type ListAgentsParams struct {
	UserID string
	Search string // Case-insensitive substring of the name; empty means no filter
	Limit  int
	Offset int
}

// CreateMeetingParams holds the columns of a new meeting
type CreateMeetingParams struct {
	UserID  string
	Name    string
	AgentID string
}

// UpdateMeetingParams holds the full replacement of a meeting
type UpdateMeetingParams struct {
	ID      string
	UserID  string
	Name    string
	AgentID string
}

// ListMeetingsParams filters and pages meetings
type ListMeetingsParams struct {
	UserID  string
	Search  string
	Status  meetpg.MeetingStatus // Empty means any status
	AgentID string               // Empty means any agent
	Limit   int
	Offset  int
}
