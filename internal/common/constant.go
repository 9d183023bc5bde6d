package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound
	// HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is prepended to the token in the authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries a client-generated id so a submission can
	// be correlated across client logs and server logs.
	RequestIDHeaderName = "X-Request-Id"
)
