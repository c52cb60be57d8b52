package oauth

import (
	"context"
	"fmt"
	"net/http"

	"weshare/internal/config"
	"weshare/internal/model"
)

type google struct {
	base
}

func NewGoogle(cfg config.OAuthProviderConfig, client *http.Client) Provider {
	return &google{base: newBase(cfg, client)}
}

func (g *google) Name() string { return ProviderGoogle }

type googleUserInfo struct {
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (g *google) AuthUser(ctx context.Context, code string) (*model.User, error) {
	tok, err := g.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	var info googleUserInfo
	if err := g.userInfo(ctx, http.MethodGet, tok, &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google user info has no email")
	}
	return newAuthUser(info.Email, info.Picture, nil, model.SocialGoogle), nil
}
