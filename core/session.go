package core

// TokenPair holds the two credentials issued when a session starts
type TokenPair struct {
	AccessToken  string // Short-lived, proves identity on ordinary requests
	RefreshToken string // Long-lived, exchanged for new access tokens
}
