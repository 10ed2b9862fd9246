// Package ui provides the HTTP surface of meetpg.
//
// The package provides two handlers over a storage.Store:
//   - UIHandler: server-rendered agents and meetings pages
//   - APIHandler: JSON procedures (agents.create, meetings.getMany, ...)
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
//	mux.Handle("/ui/", http.StripPrefix("/ui", ui.UIHandler(drv.GetStore(), &ui.Config{BasePath: "/ui"})))
//
//	authn := auth.NewHeaderAuthenticator("X-Forwarded-User")
//	http.ListenAndServe(":8080", auth.Middleware(authn, mux))
//
// # Caller Identity
//
// Neither handler authenticates requests. Each reads the caller from the
// request context (meetpg.WithSession), so wrap them with auth.Middleware or
// any middleware that stores a meetpg.Session.
//
// # Framework Integration
//
// The handlers are standard http.Handler values, compatible with any Go framework:
//
//	// Chi
//	r.Mount("/ui", ui.UIHandler(store, cfg))
//
//	// Gin
//	router.Any("/ui/*any", gin.WrapH(ui.UIHandler(store, cfg)))
package ui
