package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "cliente"
	RoleStaff    UserRole = "funcionario"
)

// Session is derived from the stored JWT payload. It exists only while a
// non-expired credential is held; there is no partially-valid state.
type Session struct {
	UserID      int
	Role        UserRole
	HasDiscount bool
	ExpiresAt   time.Time
	Token       string
}

func (s *Session) IsCustomer() bool {
	return s != nil && s.Role == RoleCustomer
}

func (s *Session) IsStaff() bool {
	return s != nil && s.Role == RoleStaff
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
