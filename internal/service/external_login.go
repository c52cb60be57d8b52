package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/oauth"
	"weshare/internal/repository"
	"weshare/internal/token"
)

// ExternalLoginResult is either a fresh registration (no tokens) or a token pair.
type ExternalLoginResult struct {
	Registered bool
	Tokens     *LoginResult
}

// ExternalLoginService signs users in through an OAuth provider, registering them on first contact.
type ExternalLoginService interface {
	Login(ctx context.Context, provider, code string, issuedAt time.Time) (*ExternalLoginResult, error)
}

type externalLoginService struct {
	tokenIssuer
	providers map[string]oauth.Provider
	users     repository.UserRepository
	tx        repository.Transactor
	bus       *event.Bus
}

func NewExternalLoginService(
	providers map[string]oauth.Provider,
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	tx repository.Transactor,
	jwt *token.Service,
	bus *event.Bus,
) ExternalLoginService {
	return &externalLoginService{
		tokenIssuer: tokenIssuer{jwt: jwt, tokens: tokens},
		providers:   providers,
		users:       users,
		tx:          tx,
		bus:         bus,
	}
}

func (s *externalLoginService) Login(ctx context.Context, provider, code string, issuedAt time.Time) (*ExternalLoginResult, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%q: %w", provider, ErrUnsupportedProvider)
	}
	if code == "" {
		return nil, invalidArgument("authorization code is required")
	}

	// the provider round trip stays outside the transaction
	authUser, err := p.AuthUser(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrProviderAPI) {
			return nil, fmt.Errorf("%w: %v", ErrOAuthAPI, err)
		}
		return nil, fmt.Errorf("%s auth user: %w", provider, err)
	}

	var res *ExternalLoginResult
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		existing, err := s.users.FindByEmail(ctx, authUser.Email)
		if errors.Is(err, sql.ErrNoRows) {
			if err := s.register(ctx, authUser); err != nil {
				return err
			}
			res = &ExternalLoginResult{Registered: true}
			return nil
		}
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if !existing.IsSameSocial(authUser.Social) {
			return fmt.Errorf("%s is registered through %s: %w", existing.Email, existing.Social, ErrEmailDuplicate)
		}
		tokens, err := s.issue(ctx, existing, issuedAt)
		if err != nil {
			return err
		}
		res = &ExternalLoginResult{Tokens: tokens}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *externalLoginService) register(ctx context.Context, u *model.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	created, err := s.users.Create(ctx, u)
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("register %s: %w", u.Email, duplicateUser(err))
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return s.bus.Publish(ctx, event.UserRegistered{UserID: created.ID, Email: created.Email, Social: string(created.Social)})
}
