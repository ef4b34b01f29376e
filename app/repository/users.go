// Package repository stores users in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/authflow"
	"github.com/dmitrymomot/authflow/pkg/db"
)

var (
	ErrNotFound      = errors.New("repository: user not found")
	ErrUsernameTaken = errors.New("repository: username already exists")
	ErrEmailTaken    = errors.New("repository: email already exists")
)

// Unique constraint names from the users migration.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type User struct {
	CreatedAt    time.Time
	Username     string
	Email        string
	PasswordHash string
	ID           int64
}

// Identity returns the request identity view of u.
func (u User) Identity() *authflow.Identity {
	return &authflow.Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

type Users struct {
	q Querier
}

func New(q Querier) *Users {
	return &Users{q: q}
}

// Create inserts a user. A duplicate username or email is reported as
// ErrUsernameTaken or ErrEmailTaken.
func (r *Users) Create(ctx context.Context, u NewUser) (User, error) {
	created := User{Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
	err := r.q.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			switch constraint {
			case usernameConstraint:
				return User{}, ErrUsernameTaken
			case emailConstraint:
				return User{}, ErrEmailTaken
			}
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *Users) FindByID(ctx context.Context, id int64) (User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *Users) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`, username)
}

// FindIdentity loads the identity of a signed-in user. An unknown id yields nil, nil.
func (r *Users) FindIdentity(ctx context.Context, id int64) (*authflow.Identity, error) {
	u, err := r.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

func (r *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

// CountCreatedSince counts users registered at or after since.
func (r *Users) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *Users) findOne(ctx context.Context, query string, arg any) (User, error) {
	var u User
	err := r.q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if db.IsNotFound(err) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *Users) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return ok, nil
}
