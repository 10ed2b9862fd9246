package ui

import (
	"net/http"

	"github.com/youssefsiam38/meetpg/storage"
	"github.com/youssefsiam38/meetpg/ui/api"
	"github.com/youssefsiam38/meetpg/ui/frontend"
	"github.com/youssefsiam38/meetpg/ui/service"
)

// UIHandler returns an http.Handler for the SSR frontend.
//
// Usage:
//
//	http.Handle("/ui/", http.StripPrefix("/ui", ui.UIHandler(store, &ui.Config{BasePath: "/ui"})))
func UIHandler(store storage.Store, cfg *Config) http.Handler {
	cfg = prepare(cfg)
	return frontend.NewRouter(service.New(store), &frontend.Config{
		BasePath: cfg.BasePath,
		ReadOnly: cfg.ReadOnly,
		Logger:   cfg.Logger,
	})
}

// APIHandler returns an http.Handler for the JSON procedure endpoints.
//
// Usage:
//
//	http.Handle("/api/", http.StripPrefix("/api", ui.APIHandler(store, cfg)))
func APIHandler(store storage.Store, cfg *Config) http.Handler {
	cfg = prepare(cfg)
	return api.NewRouter(service.New(store), &api.Config{
		ReadOnly:  cfg.ReadOnly,
		RateLimit: cfg.rateLimit(),
		Logger:    cfg.Logger,
	})
}

// prepare returns a defaulted copy of cfg. It panics on invalid
// configuration as this is a programmer error.
func prepare(cfg *Config) *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		c := *cfg
		cfg = &c
		cfg.applyDefaults()
	}
	if err := cfg.validate(); err != nil {
		panic("ui: invalid configuration: " + err.Error())
	}
	return cfg
}
