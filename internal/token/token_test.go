package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weshare/internal/config"
	"weshare/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "weshare",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(config.JWTConfig{})
	assert.ErrorIs(t, err, ErrSecretEmpty)
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(t)
	user := &model.User{ID: 1, Email: "traveler@weshare.io"}
	now := time.Now()

	access, err := svc.GenerateAccessToken(user, now)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(user, now)
	require.NoError(t, err)

	email, err := svc.ExtractEmail(access)
	require.NoError(t, err)
	assert.Equal(t, user.Email, email)

	assert.True(t, svc.IsTokenValid(access, user, TypeAccess))
	assert.False(t, svc.IsTokenValid(access, user, TypeRefresh))
	assert.True(t, svc.IsTokenValid(refresh, user, TypeRefresh))
	assert.False(t, svc.IsTokenValid(access, &model.User{Email: "other@weshare.io"}, TypeAccess))

	ttl, err := svc.RemainingTTL(access, now)
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 1)
}

func TestService_RotationYieldsDistinctTokens(t *testing.T) {
	svc := newTestService(t)
	user := &model.User{Email: "traveler@weshare.io"}
	now := time.Now()

	first, err := svc.GenerateRefreshToken(user, now)
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken(user, now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	user := &model.User{Email: "traveler@weshare.io"}

	expired, err := svc.GenerateAccessToken(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ExtractEmail(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewService(config.JWTConfig{Secret: "another", Issuer: "weshare", AccessTTL: time.Hour})
	require.NoError(t, err)
	forged, err := other.GenerateAccessToken(user, time.Now())
	require.NoError(t, err)
	assert.False(t, svc.IsTokenValid(forged, user, TypeAccess))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: user.Email})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedisLogoutStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	store := NewRedisLogoutStore(client)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, "tok", time.Minute))
	exists, err = store.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, srv.Exists("logout:tok"))

	srv.FastForward(2 * time.Minute)
	exists, err = store.Exists(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, "gone", 0))
	assert.False(t, srv.Exists("logout:gone"))
}
