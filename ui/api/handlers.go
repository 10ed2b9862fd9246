package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/youssefsiam38/meetpg"
	"github.com/youssefsiam38/meetpg/schema"
)

// maxBodyBytes bounds mutation request bodies.
const maxBodyBytes = 1 << 20

// Response wraps all API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response. Internal failures are logged and
// their cause is not exposed.
func (rt *router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := meetpg.AsError(err)
	apiErr := &APIError{Code: string(e.Code), Message: e.Message}
	if e.Code == meetpg.CodeInternal {
		if rt.config.Logger != nil {
			rt.config.Logger.Error("procedure failed", "error", err, "path", r.URL.Path)
		}
		apiErr.Message = "internal server error"
	}
	if e.Field != "" {
		apiErr.Details = map[string]string{"field": e.Field}
	}

	w.WriteHeader(e.Code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(Response{Error: apiErr})
}

// mutation serves a procedure whose input is the JSON request body.
func mutation[In, Out any](rt *router, s schema.Schema, call func(context.Context, meetpg.Session, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := rt.session(w, r)
		if !ok {
			return
		}
		if rt.config.ReadOnly {
			rt.writeError(w, r, meetpg.Forbidden("read-only mode"))
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			rt.writeError(w, r, meetpg.BadRequest("", fmt.Sprintf("failed to read body: %v", err)))
			return
		}

		var in In
		if err := schema.Decode(s, body, &in); err != nil {
			rt.writeError(w, r, err)
			return
		}
		serve(rt, w, r, call, session, in)
	}
}

// query serves a procedure whose input is the URL query.
func query[In, Out any](rt *router, s schema.Schema, call func(context.Context, meetpg.Session, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := rt.session(w, r)
		if !ok {
			return
		}

		var in In
		if err := schema.Decode(s, schema.FromValues(s, r.URL.Query()), &in); err != nil {
			rt.writeError(w, r, err)
			return
		}
		serve(rt, w, r, call, session, in)
	}
}

// session returns the caller session, writing UNAUTHORIZED when the
// request carries none.
func (rt *router) session(w http.ResponseWriter, r *http.Request) (meetpg.Session, bool) {
	session, err := meetpg.SessionFromContextSafely(r.Context())
	if err != nil {
		rt.writeError(w, r, meetpg.Unauthorized("Unauthorized"))
		return meetpg.Session{}, false
	}
	return session, true
}

// serve runs call and writes its result.
func serve[In, Out any](rt *router, w http.ResponseWriter, r *http.Request, call func(context.Context, meetpg.Session, In) (Out, error), session meetpg.Session, in In) {
	out, err := call(r.Context(), session, in)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Health handlers

func (rt *router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Store().Ping(r.Context()); err != nil {
		rt.writeError(w, r, meetpg.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
