package response

// Machine-readable codes carried in the "code" field of failed responses.
// Clients branch on these, never on the message text.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_SERVER_ERROR"

	CodeAuthHeaderMissing  = "AUTH_HEADER_MISSING"
	CodeInvalidAuthFormat  = "INVALID_AUTH_FORMAT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeAccessTokenExpired = "ACCESS_TOKEN_EXPIRED"

	CodeRenewalTokenMissing  = "RENEWAL_TOKEN_MISSING"
	CodeRenewalTokenNotFound = "RENEWAL_TOKEN_NOT_FOUND"
)
