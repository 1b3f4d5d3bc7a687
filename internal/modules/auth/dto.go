package auth

// LoginRequest does not check the email format. Any identity that matches no
// user is a credential failure, not a malformed body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest leaves renewalToken optional so an absent token reaches the
// service and gets its own error code.
type RefreshRequest struct {
	RenewalToken string `json:"renewalToken"`
}
