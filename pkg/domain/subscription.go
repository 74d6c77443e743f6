package domain

// Plan describes the subscription plan the account is on.
type Plan struct {
	Name          string  `json:"name"`
	DisplayName   string  `json:"display_name"`
	MonthlyIdeas  int     `json:"monthly_ideas"`
	PricePerMonth float64 `json:"price_per_month,omitempty"`
}

// Usage is the consumption counter for the current billing period.
type Usage struct {
	IdeasGenerated int `json:"ideas_generated"`
	IdeasRemaining int `json:"ideas_remaining"`
}

// Subscription is the read-only plan/usage snapshot shown on the account
// screen. It is fetched independently of the session but only while one
// exists; the auth subsystem never mutates it.
type Subscription struct {
	Plan  Plan  `json:"plan"`
	Usage Usage `json:"usage"`
}
