package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination for service request listings
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Cookie carrying the access token for browser clients
	AccessTokenCookie = "access_token"

	// Database table names
	TableUsers           = "users"
	TableServiceRequests = "service_requests"

	// Multipart field carrying the RCA attachment
	FormFieldRCAFile = "rcaFile"

	// Public prefix of stored attachments
	UploadsURLPrefix = "/uploads/"
)
