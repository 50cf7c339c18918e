package models

// UserSummary is an entry of the admin roster used when sharing drafts.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Identity holds the claims decoded from the session credential.
// Subject is the username and may be empty when the credential carries none.
type Identity struct {
	Subject string `json:"username"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// HasSubject reports whether a display name is known.
func (i Identity) HasSubject() bool {
	return i.Subject != ""
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RegisterRequest is the body of an account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
