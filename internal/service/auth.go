package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"weshare/internal/event"
	"weshare/internal/model"
	"weshare/internal/repository"
	"weshare/internal/token"
)

const minPasswordLength = 8

// SignupInput is the local registration form. BirthDate is YYYY-MM-DD.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserName  string `json:"user_name"`
	BirthDate string `json:"birth_date"`
}

// LoginResult carries a freshly issued token pair.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
	UserName     string `json:"user_name"`
}

// AuthService manages local accounts and the token lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	CheckDuplicateEmail(ctx context.Context, email string) error
	CheckDuplicateName(ctx context.Context, name string) error
	Login(ctx context.Context, email, password string, issuedAt time.Time) (*LoginResult, error)
	// ReissueToken rotates the refresh token: the presented one stops resolving once a new pair is issued.
	ReissueToken(ctx context.Context, refreshToken string, issuedAt time.Time) (*LoginResult, error)
	// Logout blacklists the access token for its remaining lifetime and drops the user's refresh token.
	Logout(ctx context.Context, accessToken string) error
	// Authenticate resolves the user behind a non-blacklisted access token.
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
	// PurgeRefreshTokens deletes refresh tokens that outlived the refresh TTL.
	PurgeRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// tokenIssuer signs token pairs and keeps the single refresh token row of a user current.
type tokenIssuer struct {
	jwt    *token.Service
	tokens repository.RefreshTokenRepository
}

func (ti tokenIssuer) issue(ctx context.Context, u *model.User, issuedAt time.Time) (*LoginResult, error) {
	access, err := ti.jwt.GenerateAccessToken(u, issuedAt)
	if err != nil {
		return nil, err
	}
	refresh, err := ti.jwt.GenerateRefreshToken(u, issuedAt)
	if err != nil {
		return nil, err
	}
	rt := &model.RefreshToken{UserID: u.ID, TokenType: model.TokenTypeBearer}
	rt.UpdateToken(refresh, issuedAt)
	if err := ti.tokens.Save(ctx, rt); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, UserName: u.Name}, nil
}

type authService struct {
	tokenIssuer
	users  repository.UserRepository
	tx     repository.Transactor
	logout token.LogoutStore
	bus    *event.Bus
	now    func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	tx repository.Transactor,
	jwt *token.Service,
	logout token.LogoutStore,
	bus *event.Bus,
) AuthService {
	return &authService{
		tokenIssuer: tokenIssuer{jwt: jwt, tokens: tokens},
		users:       users,
		tx:          tx,
		logout:      logout,
		bus:         bus,
		now:         time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	u, err := s.newLocalUser(in)
	if err != nil {
		return nil, err
	}

	var stored *model.User
	err = s.bus.Atomic(ctx, s.tx, func(ctx context.Context) error {
		if err := s.CheckDuplicateEmail(ctx, u.Email); err != nil {
			return err
		}
		if err := s.CheckDuplicateName(ctx, u.Name); err != nil {
			return err
		}
		created, err := s.users.Create(ctx, u)
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("signup %s: %w", u.Email, duplicateUser(err))
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		stored = created
		return s.bus.Publish(ctx, event.UserRegistered{UserID: created.ID, Email: created.Email, Social: string(created.Social)})
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *authService) newLocalUser(in SignupInput) (*model.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.UserName)
	if name == "" {
		return nil, invalidArgument("user name is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalidArgument("password must be at least %d characters", minPasswordLength)
	}
	birth, err := model.ParseDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	if birth.After(model.NewDate(s.now()).Time) {
		return nil, invalidArgument("birth date %s is in the future", birth)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &model.User{
		Email:      email,
		Name:       name,
		Password:   string(hash),
		BirthDate:  &birth,
		ProfileImg: model.DefaultProfileImage,
		Role:       model.RoleUser,
		Social:     model.SocialDefault,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalidArgument("email %q is malformed", raw)
	}
	return email, nil
}

func (s *authService) CheckDuplicateEmail(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", email, ErrEmailDuplicate)
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("find user by email: %w", err)
	}
}

func (s *authService) CheckDuplicateName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidArgument("user name is required")
	}
	_, err := s.users.FindByName(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", name, ErrUsernameDuplicate)
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("find user by name: %w", err)
	}
}

func (s *authService) Login(ctx context.Context, email, password string, issuedAt time.Time) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	var res *LoginResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.issue(ctx, u, issuedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) ReissueToken(ctx context.Context, refreshToken string, issuedAt time.Time) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is missing: %w", ErrInvalidToken)
	}

	var res *LoginResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stored, err := s.tokens.FindByToken(ctx, refreshToken)
		if err != nil {
			return notFound(err, ErrTokenNotFound)
		}
		u, err := s.users.FindByID(ctx, stored.UserID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if !s.jwt.IsTokenValid(refreshToken, u, token.TypeRefresh) {
			return ErrInvalidToken
		}
		res, err = s.issue(ctx, u, issuedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.Parse(accessToken)
	if err != nil || claims.Type != token.TypeAccess {
		return ErrInvalidToken
	}
	ttl, err := s.jwt.RemainingTTL(accessToken, s.now())
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.logout.Save(ctx, accessToken, ttl); err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := s.tokens.DeleteByUserID(ctx, u.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	blacklisted, err := s.logout.Exists(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, fmt.Errorf("logged out: %w", ErrInvalidToken)
	}
	email, err := s.jwt.ExtractEmail(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !s.jwt.IsTokenValid(accessToken, u, token.TypeAccess) {
		return nil, ErrInvalidToken
	}
	return u, nil
}

func (s *authService) PurgeRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.tokens.DeleteOlderThan(ctx, now.Add(-s.jwt.RefreshTTL()))
}
