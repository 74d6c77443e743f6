package tui

import "github.com/aribellam/lumina/pkg/domain"

// view identifies a screen. Home and Account require a session; the four
// auth screens require the absence of one.
type view int

const (
	viewLogin view = iota
	viewRegister
	viewForgot
	viewReset
	viewHome
	viewAccount
)

// routeDecision is the guard verdict for rendering a view.
type routeDecision struct {
	allow      bool
	redirectTo view
	loading    bool
}

// protectedView reports whether v requires an authenticated session.
func protectedView(v view) bool {
	return v == viewHome || v == viewAccount
}

// authFlowView reports whether v is one of the auth form screens.
func authFlowView(v view) bool {
	return v == viewLogin || v == viewRegister || v == viewForgot || v == viewReset
}

// decideRoute is the route guard: given the session state and the view
// about to render, it allows, redirects, or asks for a neutral loading
// frame. While hydration is still running nothing redirects, so a page
// reload never flashes through the sign-in screen.
func decideRoute(s domain.Session, hydrating bool, v view) routeDecision {
	if hydrating {
		return routeDecision{loading: true}
	}
	if protectedView(v) && !s.Authenticated() {
		return routeDecision{redirectTo: viewLogin}
	}
	if authFlowView(v) && s.Authenticated() {
		return routeDecision{redirectTo: viewHome}
	}
	return routeDecision{allow: true}
}
