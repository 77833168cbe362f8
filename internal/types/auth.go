package types

// UserProfile is the opaque identity supplied by the external identity
// provider. This system only consumes it; the OAuth handshake itself is
// out of scope.
type UserProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Token   string `json:"token,omitempty"`
}
