package oauth

import (
	"context"
	"fmt"
	"net/http"

	"weshare/internal/config"
	"weshare/internal/model"
)

type naver struct {
	base
}

// NewNaver builds the Naver provider. Naver expects the state parameter on the token request
// and serves user info over POST.
func NewNaver(cfg config.OAuthProviderConfig, client *http.Client) Provider {
	return &naver{base: newBase(cfg, client)}
}

func (n *naver) Name() string { return ProviderNaver }

type naverUserInfo struct {
	Response struct {
		Email        string `json:"email"`
		ProfileImage string `json:"profile_image"`
		BirthYear    string `json:"birthyear"`
		Birthday     string `json:"birthday"`
	} `json:"response"`
}

func (n *naver) AuthUser(ctx context.Context, code string) (*model.User, error) {
	tok, err := n.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	var info naverUserInfo
	if err := n.userInfo(ctx, http.MethodPost, tok, &info); err != nil {
		return nil, err
	}
	r := info.Response
	if r.Email == "" {
		return nil, fmt.Errorf("naver user info has no email")
	}

	var birth *model.Date
	if r.BirthYear != "" && r.Birthday != "" {
		d, err := model.ParseDate(r.BirthYear + "-" + r.Birthday)
		if err != nil {
			return nil, fmt.Errorf("naver birth date: %w", err)
		}
		birth = &d
	}
	return newAuthUser(r.Email, r.ProfileImage, birth, model.SocialNaver), nil
}
