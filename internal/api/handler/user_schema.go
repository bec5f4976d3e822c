package handler

import "time"

// --- Request / Response types ---

// userRequest is the body of register, create and update.
type userRequest struct {
	Username string `json:"username" validate:"notblank,max=255"`
	Email    string `json:"email"    validate:"notblank,email,max=255"`
	Password string `json:"password" validate:"notblank"`
}

// userResponse is the public view of a user. The password hash is never
// part of it.
type userResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// jwtResponse is returned by a successful login. "nombre" carries the
// username and is kept for existing clients.
type jwtResponse struct {
	Token  string `json:"token"`
	Type   string `json:"type"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	ID     int64  `json:"id"`
}
