package session

import "fmt"

// State is the authentication state of the instance.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// View is the screen a presentation layer should show.
type View int

const (
	ViewLogin View = iota
	ViewSignup
	ViewHome
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewSignup:
		return "signup"
	case ViewHome:
		return "home"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// WelcomeMessage is the greeting shown on the home view.
func WelcomeMessage(username string) string {
	return fmt.Sprintf("Welcome, %s!", username)
}
