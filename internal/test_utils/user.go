package test_utils

import (
	"context"

	"github.com/payplan/payplan/pkg/user"
)

// TestUser is the user installed by ContextWithTestUser.
var TestUser = user.User{
	Id:          123,
	Uid:         "8e0c0f0e-5f6a-4f3e-9c8e-1f2a3b4c5d6e",
	Username:    "test_user",
	DisplayName: "Test User",
}

// ContextWithTestUser returns ctx carrying TestUser as the current user, the
// same way the auth middleware does for a real request.
func ContextWithTestUser(ctx context.Context) context.Context {
	return user.WithUser(ctx, TestUser)
}
