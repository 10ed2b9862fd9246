package service

import (
	"math"

	"github.com/youssefsiam38/meetpg/storage"
)

// Page is one page of a list procedure.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`      // Rows matching the filters, ignoring pagination
	TotalPages int `json:"totalPages"` // ceil(Total / pageSize)
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Offset returns the number of rows preceding the 1-based page, saturating
// at math.MaxInt instead of overflowing.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func newPage[T any](items []T, total, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// AgentsInsertInput is the input of agents.create.
type AgentsInsertInput struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// AgentsUpdateInput is the input of agents.update.
type AgentsUpdateInput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// IDInput is the input of remove and getOne.
type IDInput struct {
	ID string `json:"id"`
}

// AgentsGetManyInput is the input of agents.getMany. Zero values take
// the defaults page 1 and meetpg.DefaultPageSize.
type AgentsGetManyInput struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Search   string `json:"search,omitempty"`
}

// MeetingsInsertInput is the input of meetings.create.
type MeetingsInsertInput struct {
	Name    string `json:"name"`
	AgentID string `json:"agentId"`
}

// MeetingsUpdateInput is the input of meetings.update.
type MeetingsUpdateInput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	AgentID string `json:"agentId"`
}

// MeetingsGetManyInput is the input of meetings.getMany.
type MeetingsGetManyInput struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	AgentID  string `json:"agentId,omitempty"`
}

// AgentsPage is the output of agents.getMany.
type AgentsPage = Page[*storage.Agent]

// MeetingsPage is the output of meetings.getMany.
type MeetingsPage = Page[*storage.Meeting]
