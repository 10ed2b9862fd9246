// Package api provides the JSON procedure endpoints of meetpg.
//
// Mutations take a JSON body, queries take URL query parameters. Every
// response is an envelope, either {"data": ...} or
// {"error": {"code": "NOT_FOUND", "message": "...", "details": {"field": "..."}}}.
//
// # Endpoints
//
// Agents:
//   - POST /agents.create - Create agent {name, instructions}
//   - POST /agents.update - Update agent {id, name, instructions}
//   - POST /agents.remove - Remove agent {id}
//   - GET /agents.getOne?id= - Agent with meetingCount
//   - GET /agents.getMany?page=&pageSize=&search= - Paginated agents
//
// Meetings:
//   - POST /meetings.create - Create meeting {name, agentId}
//   - POST /meetings.update - Update meeting {id, name, agentId}
//   - POST /meetings.remove - Remove meeting {id}
//   - GET /meetings.getOne?id= - Meeting with agent summary
//   - GET /meetings.getMany?page=&pageSize=&search=&status=&agentId= - Paginated meetings
//
// Health:
//   - GET /health - Store connectivity
//
// The caller identity is read from the request context (see meetpg.WithSession);
// requests without one fail with UNAUTHORIZED.
package api
