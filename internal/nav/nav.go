// Package nav names the app's screens and the parameters passed between them.
package nav

import "github.com/zamanipay/zamanipay/internal/identity"

// Screen identifies a destination.
type Screen string

const (
	Onboarding     Screen = "index"
	Login          Screen = "login"
	Signup         Screen = "signup"
	ForgotPassword Screen = "forget_password"
	Dashboard      Screen = "dashboard"
	Pay            Screen = "pay"
	Profile        Screen = "profile"
)

// Route is a navigation request returned by action handlers.
type Route struct {
	Screen  Screen
	Params  identity.Params
	Replace bool
}

// To builds a push route.
func To(s Screen, params identity.Params) *Route {
	return &Route{Screen: s, Params: params}
}

// ReplaceWith builds a route that replaces the current stack entry, used
// when going back is not allowed (logout).
func ReplaceWith(s Screen) *Route {
	return &Route{Screen: s, Replace: true}
}
