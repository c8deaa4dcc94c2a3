package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/exactmatch/internal/domain"
)

func TestAccountUC_RegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	uc := &AccountUC{Users: users, Hasher: fakeHasher{}, Tokens: fakeTokens{}}
	ctx := context.Background()

	s, err := uc.Register(ctx, domain.RegisterInput{Username: "jane", Email: "Jane@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	assert.Equal(t, "jane@example.com", s.User.Email)
	assert.Equal(t, "hashed:s3cret-pass", s.User.PasswordHash)

	_, err = uc.Register(ctx, domain.RegisterInput{Username: "jane", Email: "jane@example.com", Password: "s3cret-pass"})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")

	_, err = uc.Register(ctx, domain.RegisterInput{Username: "jo", Email: "bad", Password: "short"})
	fields = fieldErrors(t, err)
	assert.Len(t, fields, 3)

	s, err = uc.Login(ctx, "jane", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.User.ID)

	_, err = uc.Login(ctx, "jane", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	actor, err := uc.Authenticate("tok-1")
	require.NoError(t, err)
	me, err := uc.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "jane", me.Username)

	_, err = uc.Authenticate("garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAccountUC_GoogleLogin(t *testing.T) {
	users := newFakeUsers()
	uc := &AccountUC{Users: users, Hasher: fakeHasher{}, Tokens: fakeTokens{}}
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &domain.User{Username: "jane", Email: "someone@else.com"}))

	s, err := uc.GoogleLogin(ctx, GoogleProfile{Email: "Jane@gmail.com", GivenName: "Jane", FamilyName: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, "jane2", s.User.Username)
	assert.Equal(t, "Jane Doe", s.User.DisplayName())
	assert.Empty(t, s.User.PasswordHash)

	again, err := uc.GoogleLogin(ctx, GoogleProfile{Email: "jane@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, again.User.ID)
	assert.Len(t, users.byID, 2)

	// accounts without a password cannot use the password flow
	_, err = uc.Login(ctx, "jane2", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
