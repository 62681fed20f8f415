package model

import "github.com/shopspring/decimal"

// Role classifies account holders.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleClient
}

// Account represents a row in accounts.csv. PasswordHash is opaque to this
// core; only the identity collaborator computes or verifies it.
type Account struct {
	Username      string
	PasswordHash  string
	Email         string
	MonthlyIncome decimal.Decimal
	Role          Role
	Balance       decimal.Decimal
}
