package models

// Credentials is the one-time triple handed back to the parent after
// provisioning credentials or rotating them. It is never persisted; the only
// durable trace is the identity store's new password hash.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}
