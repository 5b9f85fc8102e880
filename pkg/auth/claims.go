package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role the storefront issues tokens for.
const RoleAdmin = "admin"

// AdminClaims is the payload of the admin dashboard session cookie.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
