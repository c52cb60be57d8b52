package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"weshare/internal/config"
	"weshare/internal/model"
)

// Package oauth exchanges authorization codes with external identity providers
// and maps their user-info payloads to unsaved accounts.

const (
	ProviderGoogle = "google"
	ProviderNaver  = "naver"
)

// ErrProviderAPI marks a 4xx answer from the provider, usually a stale or forged code.
var ErrProviderAPI = errors.New("oauth provider rejected the request")

// Provider resolves the account behind an authorization code.
type Provider interface {
	Name() string
	AuthUser(ctx context.Context, code string) (*model.User, error)
}

// NewHTTPClient returns the traced client used for provider calls.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Providers builds the configured providers keyed by name. Providers without a client id are skipped.
func Providers(cfg config.OAuthConfig, client *http.Client) map[string]Provider {
	out := make(map[string]Provider, 2)
	if cfg.Google.ClientID != "" {
		out[ProviderGoogle] = NewGoogle(cfg.Google, client)
	}
	if cfg.Naver.ClientID != "" {
		out[ProviderNaver] = NewNaver(cfg.Naver, client)
	}
	return out
}

// base holds the code exchange and user-info plumbing shared by providers.
type base struct {
	conf        *oauth2.Config
	userInfoURL string
	state       string
	client      *http.Client
}

func newBase(cfg config.OAuthProviderConfig, client *http.Client) base {
	if client == nil {
		client = NewHTTPClient()
	}
	return base{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		state:       cfg.State,
		client:      client,
	}
}

func (b base) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.client)
	var opts []oauth2.AuthCodeOption
	if b.state != "" {
		opts = append(opts, oauth2.SetAuthURLParam("state", b.state))
	}
	tok, err := b.conf.Exchange(ctx, code, opts...)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && isClientError(re.Response.StatusCode) {
			return nil, fmt.Errorf("%w: token endpoint answered %d", ErrProviderAPI, re.Response.StatusCode)
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// userInfo calls the user-info endpoint with the access token and decodes the JSON body into dst.
func (b base) userInfo(ctx context.Context, method string, tok *oauth2.Token, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, b.userInfoURL, nil)
	if err != nil {
		return fmt.Errorf("build user info request: %w", err)
	}
	req.Header.Set("Authorization", model.TokenTypeBearer+tok.AccessToken)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("user info request: %w", err)
	}
	defer resp.Body.Close()

	if isClientError(resp.StatusCode) {
		return fmt.Errorf("%w: user info endpoint answered %d", ErrProviderAPI, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("user info endpoint answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode user info: %w", err)
	}
	return nil
}

func isClientError(status int) bool {
	return status >= 400 && status < 500
}

// newAuthUser builds an unsaved account with a random 16 character name and password.
func newAuthUser(email, profileImg string, birth *model.Date, social model.Social) *model.User {
	return &model.User{
		Email:      email,
		Name:       randomString(16),
		Password:   randomString(16),
		BirthDate:  birth,
		ProfileImg: profileImg,
		Role:       model.RoleUser,
		Social:     social,
	}
}

func randomString(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return s[:n]
}
