package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	dbTimeout = time.Second * 3
)

var (
	// Email validation regex - standard email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidUser        = errors.New("invalid user")
)

const createUsersSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username      TEXT UNIQUE NOT NULL,
	email         TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresRepository struct {
	Conn *pgxpool.Pool
}

// NewPostgresRepository stores users in the given pool
func NewPostgresRepository(conn *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Conn: conn,
	}
}

func stringPtr(s string) *string {
	return &s
}

// Migrate creates the users table
func (p *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := p.Conn.Exec(ctx, createUsersSQL); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// ValidateNewUser validates a new user before creation
func ValidateNewUser(user *User) error {
	if user.Username == nil || strings.TrimSpace(*user.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	}

	if user.Email == nil || strings.TrimSpace(*user.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}

	// Validate email format
	if !emailRegex.MatchString(*user.Email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidUser)
	}

	if user.Password == nil || len(*user.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidUser)
	}

	if user.Role == nil || (*user.Role != RoleUser && *user.Role != RoleAdmin) {
		return fmt.Errorf("%w: invalid role", ErrInvalidUser)
	}

	return nil
}

func (p *PostgresRepository) CreateUser(user *User) error {
	// Validate user data before proceeding
	if err := ValidateNewUser(user); err != nil {
		return err
	}

	// Hash the password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(*user.Password), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = stringPtr(string(passwordHash))

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var (
		id        string
		createdAt time.Time
	)
	err = p.Conn.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text, created_at`,
		*user.Username, *user.Email, *user.PasswordHash, *user.Role,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return err
	}

	createdAt = createdAt.UTC()
	user.ID = &id
	user.CreatedAt = &createdAt
	// The plain password is no longer needed
	user.Password = nil

	return nil
}

func (p *PostgresRepository) AuthenticateUser(cred *UserLoginCredentials) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var passwordHash string
	err := p.Conn.QueryRow(ctx, `SELECT password_hash FROM users WHERE username = $1`, cred.Username).Scan(&passwordHash)
	if err != nil {
		return false, ErrInvalidCredentials
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(cred.Password)); err != nil {
		return false, ErrInvalidCredentials
	}

	// Successful authentication
	return true, nil
}

func (p *PostgresRepository) GetUserInfo(username string) (*User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var (
		id, name, email, role string
		createdAt             time.Time
	)
	err := p.Conn.QueryRow(ctx,
		`SELECT id::text, username, email, role, created_at FROM users WHERE username = $1`, username,
	).Scan(&id, &name, &email, &role, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return nil, err
	}

	createdAt = createdAt.UTC()
	return &User{
		ID:        &id,
		Username:  &name,
		Email:     &email,
		Role:      &role,
		CreatedAt: &createdAt,
	}, nil
}
