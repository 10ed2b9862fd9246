package sqlstore

import (
	"context"
	"fmt"

	"github.com/youssefsiam38/meetpg/driver"
	"github.com/youssefsiam38/meetpg/storage"
)

// meetingCountExpr counts the meetings referencing the agent aliased as alias.
func meetingCountExpr(alias string) string {
	return `(SELECT COUNT(*) FROM meetings mc WHERE mc.agent_id = ` + alias + `.id)`
}

var agentColumns = `a.id, a.name, a.instructions, a.user_id, ` + meetingCountExpr("a") + `, a.created_at, a.updated_at`

func (s *Store) scanAgent(row driver.Row) (*storage.Agent, error) {
	var agent storage.Agent
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Instructions,
		&agent.UserID,
		&agent.MeetingCount,
		s.timeDest(&agent.CreatedAt),
		s.timeDest(&agent.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent inserts an agent owned by params.UserID.
func (s *Store) CreateAgent(ctx context.Context, params *storage.CreateAgentParams) (*storage.Agent, error) {
	now := s.timestamp()
	agent := &storage.Agent{
		ID:           s.newID(),
		Name:         params.Name,
		Instructions: params.Instructions,
		UserID:       params.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO agents (id, name, name_lower, instructions, user_id, created_at, updated_at)
		VALUES ($1, $2, $6, $3, $4, $5, $5)
	`
	_, err := s.getExecutor(ctx).Exec(ctx, s.dialect.Rebind(query),
		agent.ID, agent.Name, agent.Instructions, agent.UserID, s.dialect.Time(now), foldName(agent.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return agent, nil
}

// UpdateAgent replaces name and instructions of an owned agent.
func (s *Store) UpdateAgent(ctx context.Context, params *storage.UpdateAgentParams) (*storage.Agent, error) {
	query := `
		UPDATE agents
		SET name = $1, name_lower = $6, instructions = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING id, name, instructions, user_id,
		          (SELECT COUNT(*) FROM meetings mc WHERE mc.agent_id = $4),
		          created_at, updated_at
	`

	agent, err := s.scanAgent(s.queryRow(ctx, query,
		params.Name, params.Instructions, s.dialect.Time(s.timestamp()), params.ID, params.UserID, foldName(params.Name)))
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	return agent, nil
}

// DeleteAgent removes an owned agent and returns its prior state. The
// returned MeetingCount is not populated.
func (s *Store) DeleteAgent(ctx context.Context, id, userID string) (*storage.Agent, error) {
	query := `
		DELETE FROM agents
		WHERE id = $1 AND user_id = $2
		RETURNING id, name, instructions, user_id, 0, created_at, updated_at
	`

	agent, err := s.scanAgent(s.queryRow(ctx, query, id, userID))
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete agent: %w", err)
	}
	return agent, nil
}

// GetAgent retrieves an owned agent with its meeting count.
func (s *Store) GetAgent(ctx context.Context, id, userID string) (*storage.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents a WHERE a.id = $1 AND a.user_id = $2`

	agent, err := s.scanAgent(s.queryRow(ctx, query, id, userID))
	if isNoRows(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}

// ListAgents returns a page of owned agents, newest first.
func (s *Store) ListAgents(ctx context.Context, params *storage.ListAgentsParams) ([]*storage.Agent, int, error) {
	f := ownedFilter("a", params.UserID, params.Search)

	var total int
	countQuery := `SELECT COUNT(*) FROM agents a ` + f.where()
	if err := s.queryRow(ctx, countQuery, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count agents: %w", err)
	}

	query := `SELECT ` + agentColumns + ` FROM agents a ` + f.where() + `
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ` + f.next(1) + ` OFFSET ` + f.next(2)
	args := append(f.args, params.Limit, params.Offset)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	agents := make([]*storage.Agent, 0, params.Limit)
	for rows.Next() {
		agent, err := s.scanAgent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate agents: %w", err)
	}

	return agents, total, nil
}
