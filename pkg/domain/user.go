package domain

// User is the profile snapshot held client-side for the signed-in account.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username,omitempty"`
	SubscriptionTier string `json:"subscription_tier"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	IsActive         bool   `json:"is_active"`
	EmailVerified    bool   `json:"email_verified"`
}

// DisplayName returns the friendliest available name for the user:
// first name, then username, then the email address.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
