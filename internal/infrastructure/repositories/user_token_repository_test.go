package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullharslan/ProductManager/domain"
)

func TestUserTokenRepositoryImpl_StoreAndConsume(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewUserTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, domain.TokenPurposeEmailConfirmation, "u-1", "tok+/=", time.Hour))

	key := "usertoken:" + domain.TokenPurposeEmailConfirmation + ":u-1"
	require.True(t, mr.Exists(key))
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotEqual(t, "tok+/=", stored, "raw token must not be stored")
	assert.Equal(t, time.Hour, mr.TTL(key))

	tests := []struct {
		name    string
		purpose string
		userID  string
		token   string
		want    bool
	}{
		{name: "wrong token", purpose: domain.TokenPurposeEmailConfirmation, userID: "u-1", token: "nope", want: false},
		{name: "wrong purpose", purpose: domain.TokenPurposePasswordReset, userID: "u-1", token: "tok+/=", want: false},
		{name: "wrong user", purpose: domain.TokenPurposeEmailConfirmation, userID: "u-2", token: "tok+/=", want: false},
		{name: "empty token", purpose: domain.TokenPurposeEmailConfirmation, userID: "u-1", token: "", want: false},
		{name: "correct token", purpose: domain.TokenPurposeEmailConfirmation, userID: "u-1", token: "tok+/=", want: true},
		{name: "replayed token", purpose: domain.TokenPurposeEmailConfirmation, userID: "u-1", token: "tok+/=", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.Consume(ctx, tt.purpose, tt.userID, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestUserTokenRepositoryImpl_WrongGuessKeepsToken(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewUserTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, domain.TokenPurposePasswordReset, "u-1", "secret", time.Hour))

	ok, err := repo.Consume(ctx, domain.TokenPurposePasswordReset, "u-1", "guess")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, domain.TokenPurposePasswordReset, "u-1", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserTokenRepositoryImpl_NewTokenReplacesOld(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewUserTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, domain.TokenPurposePasswordReset, "u-1", "first", time.Hour))
	require.NoError(t, repo.Store(ctx, domain.TokenPurposePasswordReset, "u-1", "second", time.Hour))

	ok, err := repo.Consume(ctx, domain.TokenPurposePasswordReset, "u-1", "first")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, domain.TokenPurposePasswordReset, "u-1", "second")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserTokenRepositoryImpl_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewUserTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, domain.TokenPurposePasswordReset, "u-1", "secret", time.Hour))
	mr.FastForward(time.Hour + time.Second)

	ok, err := repo.Consume(ctx, domain.TokenPurposePasswordReset, "u-1", "secret")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserTokenRepositoryImpl_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewUserTokenRepository(client)
	mr.Close()

	err := repo.Store(context.Background(), domain.TokenPurposePasswordReset, "u-1", "secret", time.Hour)
	assert.Error(t, err)

	_, err = repo.Consume(context.Background(), domain.TokenPurposePasswordReset, "u-1", "secret")
	assert.Error(t, err)
}
