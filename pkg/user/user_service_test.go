package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_CreateUser(t *testing.T) {
	t.Run("should assign a uid when creating a user", func(t *testing.T) {
		// given
		repo := NewStubUserRepo()
		service := NewService(repo)

		// when
		created, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, created.Id)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "anna", created.Username)
	})

	t.Run("should reject a duplicate username", func(t *testing.T) {
		// given
		repo := NewStubUserRepo()
		service := NewService(repo)
		_, err := service.CreateUser(context.Background(), User{Username: "anna"})
		require.NoError(t, err)

		// when
		_, err = service.CreateUser(context.Background(), User{Username: "anna"})

		// then
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should return the user carried by the context", func(t *testing.T) {
		// given
		repo := NewStubUserRepo()
		service := NewService(repo)
		created, err := service.CreateUser(context.Background(), User{Username: "anna"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, created, current)
	})

	t.Run("should fail when no user is in the context", func(t *testing.T) {
		// given
		service := NewService(NewStubUserRepo())

		// when
		_, err := service.GetCurrentUser(context.Background())

		// then
		assert.ErrorIs(t, err, ErrNoUser)
	})
}

func TestServiceImpl_UpdateCurrentUser(t *testing.T) {
	t.Run("should update username and display name of the current user", func(t *testing.T) {
		// given
		repo := NewStubUserRepo()
		service := NewService(repo)
		created, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		updated, err := service.UpdateCurrentUser(ctx, "anna.k", "Anna K.")

		// then
		require.NoError(t, err)
		assert.Equal(t, "anna.k", updated.Username)
		assert.Equal(t, "Anna K.", updated.DisplayName)
		assert.Equal(t, created.Uid, updated.Uid)
	})
}
