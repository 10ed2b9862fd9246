// Package meetpg provides a dashboard for managing agents and meetings on
// top of PostgreSQL (or SQLite for local development).
//
// An agent is a named, user-owned assistant configuration described by
// free-text instructions. A meeting is a named, user-owned session that
// references one of the caller's agents and carries a status.
//
// # Packages
//
//   - meetpg: typed errors, caller sessions and shared constants
//   - schema: input validation schemas for every procedure
//   - storage: the Store interface and entity types
//   - driver: database abstractions, dialects and migrations
//   - driver/sqlstore: the SQL implementation of storage.Store
//   - driver/pgxv5, driver/databasesql: concrete drivers
//   - ui/service: the agents and meetings procedures
//   - ui/api: JSON remote-procedure endpoints
//   - ui/frontend: server-rendered list pages
//   - ui: handler constructors mounting ui/api and ui/frontend
//   - auth: caller identity middleware
//   - config: YAML configuration of the meetpg binary
//   - cmd/meetpg: the server binary
//
// # Quick Start
//
//	pool, _ := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
//	drv := pgxv5.New(pool)
//	if err := drv.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.Handle("/api/", http.StripPrefix("/api", ui.APIHandler(drv.GetStore(), nil)))
//	mux.Handle("/", ui.UIHandler(drv.GetStore(), nil))
//
//	authn := auth.NewHeaderAuthenticator("X-Forwarded-User")
//	http.ListenAndServe(":8080", auth.Middleware(authn, mux))
//
// Every procedure is scoped to the caller identified by the meetpg.Session
// stored in the request context. Rows owned by other users are reported as
// not found.
package meetpg
