// Package service provides the agents and meetings procedures shared by the
// JSON API and the SSR frontend.
//
// The service layer is HTTP-agnostic. Every method takes the caller's
// meetpg.Session explicitly, validates its input against the schema
// package, scopes the store call to the caller and maps store conditions
// to classified *meetpg.Error values.
//
// # Usage
//
//	svc := service.New(drv.GetStore())
//
//	agent, err := svc.CreateAgent(ctx, session, service.AgentsInsertInput{
//	    Name:         "Tutor",
//	    Instructions: "Help with math",
//	})
//
//	page, err := svc.ListMeetings(ctx, session, service.MeetingsGetManyInput{
//	    Search: "weekly",
//	    Status: "upcoming",
//	})
//
// # Design
//
// The service layer:
//   - Uses the storage.Store interface for all database operations
//   - Reports missing or foreign rows as NOT_FOUND with fixed messages
//   - Computes page offsets and totalPages
//   - Is transaction-aware but doesn't manage transactions
package service
