package models

// LoginResponse mirrors the token payload returned by the credential endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserInfo is the identity record returned by the backend for the current token.
type UserInfo struct {
	Status string `json:"status"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	UID    string `json:"uid"`
}

// IsAdmin reports whether the user may see admin-only sections.
func (u UserInfo) IsAdmin() bool {
	return u.Role == "Admin"
}
