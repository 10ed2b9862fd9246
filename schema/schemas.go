package schema

import (
	"math"

	"github.com/youssefsiam38/meetpg"
)

// AgentsInsert is the input of agents.create.
var AgentsInsert = Schema{
	Name: "agentsInsert",
	Type: "object",
	Properties: map[string]PropertyDef{
		"name": {
			Type:        "string",
			Description: "Display name of the agent",
			MinLength:   ptr(1),
			Trim:        true,
			Message:     "Name is required",
		},
		"instructions": {
			Type:        "string",
			Description: "Free-text instructions describing the agent's behavior",
			MinLength:   ptr(1),
			Trim:        true,
			Message:     "Instructions are required",
		},
	},
	Required: []string{"name", "instructions"},
}

// AgentsUpdate is the input of agents.update.
var AgentsUpdate = AgentsInsert.Extend("agentsUpdate", map[string]PropertyDef{
	"id": idProperty,
}, "id")

// MeetingsInsert is the input of meetings.create.
var MeetingsInsert = Schema{
	Name: "meetingsInsert",
	Type: "object",
	Properties: map[string]PropertyDef{
		"name": {
			Type:        "string",
			Description: "Display name of the meeting",
			MinLength:   ptr(1),
			Trim:        true,
			Message:     "Name is required",
		},
		"agentId": {
			Type:        "string",
			Description: "Id of an agent owned by the caller",
			MinLength:   ptr(1),
			Trim:        true,
			Message:     "Agent is required",
		},
	},
	Required: []string{"name", "agentId"},
}

// MeetingsUpdate is the input of meetings.update.
var MeetingsUpdate = MeetingsInsert.Extend("meetingsUpdate", map[string]PropertyDef{
	"id": idProperty,
}, "id")

// IDInput is the input of remove and getOne on both entities.
var IDInput = Schema{
	Name:       "idInput",
	Type:       "object",
	Properties: map[string]PropertyDef{"id": idProperty},
	Required:   []string{"id"},
}

// AgentsGetMany is the input of agents.getMany.
var AgentsGetMany = Schema{
	Name:       "agentsGetMany",
	Type:       "object",
	Properties: paginationProperties(),
}

// MeetingsGetMany is the input of meetings.getMany.
var MeetingsGetMany = AgentsGetMany.Extend("meetingsGetMany", map[string]PropertyDef{
	"status": {
		Type:        "string",
		Description: "Only return meetings with this status",
		Enum:        meetpg.MeetingStatusStrings(),
		Nullable:    true,
	},
	"agentId": {
		Type:        "string",
		Description: "Only return meetings of this agent",
		Nullable:    true,
	},
})

var idProperty = PropertyDef{
	Type:      "string",
	MinLength: ptr(1),
	Trim:      true,
	Message:   "Id is required",
}

func paginationProperties() map[string]PropertyDef {
	return map[string]PropertyDef{
		"page": {
			Type:        "integer",
			Description: "1-based page number",
			Minimum:     ptr(1.0),
			Maximum:     ptr(float64(math.MaxInt32)),
			Default:     meetpg.DefaultPage,
		},
		"pageSize": {
			Type:        "integer",
			Description: "Number of items per page",
			Minimum:     ptr(float64(meetpg.MinPageSize)),
			Maximum:     ptr(float64(meetpg.MaxPageSize)),
			Default:     meetpg.DefaultPageSize,
		},
		"search": {
			Type:        "string",
			Description: "Case-insensitive substring of the name",
			Trim:        true,
			Nullable:    true,
		},
	}
}
