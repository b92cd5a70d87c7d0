package models

// LoginRequest carries the credentials forwarded verbatim to the upstream API.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the upstream API's answer to a successful sign-in.
type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// SessionInfo is what the console returns to the browser after sign-in. The
// upstream token never leaves the gateway.
type SessionInfo struct {
	SessionToken string `json:"sessionToken"`
	Role         string `json:"role,omitempty"`
	FullName     string `json:"fullName,omitempty"`
}
