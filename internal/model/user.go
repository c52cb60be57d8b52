package model

import "time"

// DefaultProfileImage is assigned to locally registered accounts.
const DefaultProfileImage = "https://static.vecteezy.com/system/resources/thumbnails/020/765/399/small/default-profile-account-unknown-icon-black-silhouette-free-vector.jpg"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Social identifies where an account was registered.
type Social string

const (
	SocialDefault Social = "DEFAULT"
	SocialGoogle  Social = "GOOGLE"
	SocialNaver   Social = "NAVER"
)

// User is a registered account. Password holds the bcrypt hash and never leaves the service layer.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Password   string    `json:"-"`
	BirthDate  *Date     `json:"birth_date,omitempty"`
	ProfileImg string    `json:"profile_img"`
	Role       Role      `json:"role"`
	Social     Social    `json:"social"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) IsSameID(id int64) bool {
	return u.ID == id
}

// IsSameSocial reports whether the account was registered through s.
func (u *User) IsSameSocial(s Social) bool {
	return u.Social == s
}

// TokenTypeBearer prefixes access tokens in the Authorization header.
const TokenTypeBearer = "Bearer "

// RefreshToken is the single persisted refresh credential of a user.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	TokenType string
	UpdatedAt time.Time
}

// UpdateToken replaces the stored credential during rotation.
func (t *RefreshToken) UpdateToken(token string, at time.Time) {
	t.Token = token
	t.UpdatedAt = at
}
