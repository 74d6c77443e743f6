package domain

// Session is the client-held proof of authentication: a bearer token plus
// a snapshot of the user it belongs to. Token and user are always both
// present or both absent; a zero Session means anonymous.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
