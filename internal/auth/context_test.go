package auth

import (
	"context"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), 7)
	if got := UserID(ctx); got != 7 {
		t.Errorf("UserID = %d, want 7", got)
	}
}

func TestUserIDAbsent(t *testing.T) {
	if got := UserID(context.Background()); got != 0 {
		t.Errorf("UserID = %d, want 0", got)
	}
}
