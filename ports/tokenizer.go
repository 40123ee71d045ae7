package ports

// Tokenizer issues and verifies the signed session tokens
type Tokenizer interface {
	// IssueTokens creates an access/refresh token pair bound to userID
	IssueTokens(userID string) (access string, refresh string, err error)

	// VerifyAccess checks an access token and returns the bound userID
	VerifyAccess(token string) (userID string, err error)

	// VerifyRefresh checks a refresh token and returns the bound userID
	VerifyRefresh(token string) (userID string, err error)
}
