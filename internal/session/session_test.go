package session

import (
	"context"
	"testing"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

func TestUserRoundTrip(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatalf("empty context must not carry a user")
	}
	ctx := WithUser(context.Background(), models.User{ID: "u1", Email: "a@b.c"})
	user, ok := UserFromContext(ctx)
	if !ok || user.ID != "u1" {
		t.Fatalf("UserFromContext = %+v, %v", user, ok)
	}
}
