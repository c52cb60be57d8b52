package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weshare/internal/config"
	"weshare/internal/model"
)

type fakeProvider struct {
	tokenStatus    int
	userInfoStatus int
	userInfo       any
	gotState       string
	gotMethod      string
	gotAuth        string
}

func (f *fakeProvider) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.gotState = r.PostForm.Get("state")
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		f.gotMethod = r.Method
		f.gotAuth = r.Header.Get("Authorization")
		if f.userInfoStatus != 0 {
			w.WriteHeader(f.userInfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func providerConfig(srv *httptest.Server, state string) config.OAuthProviderConfig {
	return config.OAuthProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/callback",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/me",
		State:        state,
	}
}

func TestGoogle_AuthUser(t *testing.T) {
	f := &fakeProvider{userInfo: map[string]string{"email": "alice@gmail.com", "picture": "https://img/alice.png"}}
	srv := f.server(t)

	u, err := NewGoogle(providerConfig(srv, ""), srv.Client()).AuthUser(context.Background(), "code-1")
	require.NoError(t, err)

	assert.Equal(t, "alice@gmail.com", u.Email)
	assert.Equal(t, "https://img/alice.png", u.ProfileImg)
	assert.Equal(t, model.SocialGoogle, u.Social)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Len(t, u.Name, 16)
	assert.Len(t, u.Password, 16)
	assert.Nil(t, u.BirthDate)
	assert.Equal(t, http.MethodGet, f.gotMethod)
	assert.Equal(t, "Bearer provider-token", f.gotAuth)
}

func TestNaver_AuthUser(t *testing.T) {
	f := &fakeProvider{userInfo: map[string]any{"response": map[string]string{
		"email": "bob@naver.com", "profile_image": "https://img/bob.png", "birthyear": "1994", "birthday": "03-14",
	}}}
	srv := f.server(t)

	u, err := NewNaver(providerConfig(srv, "xyz"), srv.Client()).AuthUser(context.Background(), "code-2")
	require.NoError(t, err)

	assert.Equal(t, "bob@naver.com", u.Email)
	assert.Equal(t, model.SocialNaver, u.Social)
	require.NotNil(t, u.BirthDate)
	assert.Equal(t, "1994-03-14", u.BirthDate.String())
	assert.Equal(t, "xyz", f.gotState)
	assert.Equal(t, http.MethodPost, f.gotMethod)
}

func TestProvider_ClientErrors(t *testing.T) {
	t.Run("token endpoint 400", func(t *testing.T) {
		f := &fakeProvider{tokenStatus: http.StatusBadRequest}
		srv := f.server(t)

		_, err := NewGoogle(providerConfig(srv, ""), srv.Client()).AuthUser(context.Background(), "stale")
		assert.ErrorIs(t, err, ErrProviderAPI)
	})

	t.Run("user info 401", func(t *testing.T) {
		f := &fakeProvider{userInfoStatus: http.StatusUnauthorized}
		srv := f.server(t)

		_, err := NewNaver(providerConfig(srv, "s"), srv.Client()).AuthUser(context.Background(), "code")
		assert.ErrorIs(t, err, ErrProviderAPI)
	})

	t.Run("user info 502 is not a client error", func(t *testing.T) {
		f := &fakeProvider{userInfoStatus: http.StatusBadGateway}
		srv := f.server(t)

		_, err := NewGoogle(providerConfig(srv, ""), srv.Client()).AuthUser(context.Background(), "code")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProviderAPI)
	})
}

func TestProviders(t *testing.T) {
	ps := Providers(config.OAuthConfig{Google: config.OAuthProviderConfig{ClientID: "g"}}, nil)
	assert.Contains(t, ps, ProviderGoogle)
	assert.NotContains(t, ps, ProviderNaver)
	assert.Equal(t, ProviderGoogle, ps[ProviderGoogle].Name())
}
