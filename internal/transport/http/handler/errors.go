package handler

const (
	errAuthUnavailable     = "The authentication service is unavailable, please try again"
	errInvalidForm         = "Invalid form submission"
	errCredentialsRejected = "Credentials are not valid"
)
