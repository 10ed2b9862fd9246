package meetpg

import (
	"context"
	"errors"
	"testing"
)

func TestSessionFromContextSafely(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		ctx := WithSession(context.Background(), Session{UserID: "user-1"})

		s, err := SessionFromContextSafely(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.UserID != "user-1" {
			t.Errorf("got %q, want %q", s.UserID, "user-1")
		}
	})

	t.Run("returns error when missing", func(t *testing.T) {
		_, err := SessionFromContextSafely(context.Background())
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("got %v, want ErrNoSession", err)
		}
	})

	t.Run("rejects session without user id", func(t *testing.T) {
		ctx := WithSession(context.Background(), Session{Name: "anonymous"})

		_, err := SessionFromContextSafely(ctx)
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("got %v, want ErrNoSession", err)
		}
	})
}
