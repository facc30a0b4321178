package handler

const (
	errInternalServer  = "Internal server error"
	errUserNotFound    = "User not found"
	errMessageNotFound = "Message not found"
	errNotAccepting    = "User is not accepting messages"
	errUsernameTaken   = "Username is already taken"
	errEmailTaken      = "User already exists with this email"
	errCodeExpired     = "Verification code has expired"
	errCodeMismatch    = "Verification code does not match"
	errInvalidLogin    = "Invalid email or password"
	errUpstreamFailed  = "AI request failed"
)
