package auth

import "time"

// Roles stored in users.role. Viewers hold RoleUser; RoleAdmin may drive the timer.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           *string    `json:"id,omitempty"`
	Username     *string    `json:"username,omitempty"`
	Password     *string    `json:"password,omitempty"`
	PasswordHash *string    `json:"password_hash,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Role         *string    `json:"role,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type NewUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type UserLoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserLoginResponse struct {
	Token string `json:"token"`
}

type UserRegistrationResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewUserFromRequest creates a timer viewer
func NewUserFromRequest(req *NewUserRequest) *User {
	return newUser(req, RoleUser)
}

// NewAdminUserFromRequest creates a user allowed to drive the timer
func NewAdminUserFromRequest(req *NewUserRequest) *User {
	return newUser(req, RoleAdmin)
}

func newUser(req *NewUserRequest, role string) *User {
	return &User{
		Username: &req.Username,
		Password: &req.Password,
		Email:    &req.Email,
		Role:     &role,
	}
}
