// Package frontend provides the server-rendered pages of meetpg.
//
// Pages are html/template documents embedded in the binary; list state
// (page, pageSize, search, status, agentId) lives in the URL query so views
// can be bookmarked and shared. Forms post back to the same resource and
// redirect on success.
//
// # Routes
//
// Agents:
//   - GET /agents - Agents list with search and pagination
//   - GET /agents/new - Create form
//   - POST /agents - Create agent
//   - GET /agents/{id} - Agent detail, meetings, edit and remove forms
//   - POST /agents/{id} - Update agent
//   - POST /agents/{id}/remove - Remove agent and its meetings
//
// Meetings:
//   - GET /meetings - Meetings list with search, status and agent filters
//   - GET /meetings/new - Create form
//   - POST /meetings - Create meeting
//   - GET /meetings/{id} - Meeting detail, edit and remove forms
//   - POST /meetings/{id} - Update meeting
//   - POST /meetings/{id}/remove - Remove meeting
//
// Static Assets:
//   - GET /static/* - Embedded stylesheet
package frontend
