package ports

import (
	"context"
	"time"
)

const (
	TypeCustomer = "customer"
	TypeBusiness = "business"
)

func IsValidType(userType string) bool {
	return userType == TypeCustomer || userType == TypeBusiness
}

// User is an account with its public profile fields. PasswordHash never
// leaves the context boundary.
type User struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
	Type         string
	FirstName    string
	LastName     string
	Location     string
	Tel          string
	Description  string
	WorkingHours string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Type             string
}

// ProfilePatch carries optional profile updates; nil fields are left
// untouched.
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
}

// AuthSession is the result of a successful registration or login.
type AuthSession struct {
	Token string
	User  User
}

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID string
	Role   string
}

type Repository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateUser(ctx context.Context, user User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenCodec issues and validates the bearer tokens handed out at
// registration and login.
type TokenCodec interface {
	Issue(identity Identity, issuedAt time.Time) (string, error)
	Decode(token string) (Identity, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
