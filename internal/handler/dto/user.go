package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/foundly/foundly/internal/model"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// CreateUserRequest is the body of POST /auth/create-user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Validate checks email syntax, name, password length and role.
func (r *CreateUserRequest) Validate() []FieldError {
	var v validator
	validateEmail(&v, r.Email)
	if strings.TrimSpace(r.Name) == "" {
		v.add("name", "Name must contain at least 1 character")
	}
	if len(r.Password) < MinPasswordLength {
		v.add("password", "Password must contain at least 6 characters")
	}
	if _, ok := model.ParseRole(r.Role); !ok {
		v.add("role", "Role must be one of: agent, passenger")
	}
	return v.result()
}

// ParsedRole returns the requested role, defaulting to passenger.
// Only meaningful after Validate succeeded.
func (r *CreateUserRequest) ParsedRole() model.Role {
	role, _ := model.ParseRole(r.Role)
	return role
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() []FieldError {
	var v validator
	validateEmail(&v, r.Email)
	if r.Password == "" {
		v.add("password", "Required")
	}
	return v.result()
}

func validateEmail(v *validator, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		v.add("email", "Required")
		return
	}
	// Reject display-name forms such as "Ann <ann@example.com>".
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		v.add("email", "Invalid email")
	}
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// CreateUserResponse is returned after registration.
type CreateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ToCreateUserResponse converts a stored user into the registration body.
func ToCreateUserResponse(user *model.User) *CreateUserResponse {
	createdAt := user.CreatedAt
	return &CreateUserResponse{
		Message: "User created successfully",
		User: UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: &createdAt,
		},
	}
}

// ToLoginResponse converts a logged-in user into the login body.
func ToLoginResponse(user *model.User) *LoginResponse {
	return &LoginResponse{
		Message: "Login successful",
		User: UserResponse{
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}
}
