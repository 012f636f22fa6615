package models

// DefaultRole is assigned when the identity provider carries no role.
const DefaultRole = "farmer"

// User is the authenticated identity returned by the identity provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthSession pairs a bearer token with the user it belongs to.
type AuthSession struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
	User      User   `json:"user"`
}
