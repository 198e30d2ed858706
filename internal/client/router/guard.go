package router

import (
	"fmt"

	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

// Verdict is the outcome class of a guard decision.
type Verdict int

const (
	Allow Verdict = iota
	Redirect
	Loading
	NotFound
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	case NotFound:
		return "not-found"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Decision is what the guard says about a requested path. Target is set
// only for Redirect.
type Decision struct {
	Verdict Verdict
	Target  string
}

// Decide says whether a path is reachable in a given session status.
// It is pure: the same inputs always give the same decision.
//
// lastProtected is where an authenticated user who opens a public-only
// path is sent; an empty or non-protected value means PathHome.
func Decide(status session.Status, path string, lastProtected string) Decision {
	switch Classify(path) {
	case Unknown:
		return Decision{Verdict: NotFound}

	case Protected:
		switch status {
		case session.Authenticated:
			return Decision{Verdict: Allow}
		case session.Checking:
			return Decision{Verdict: Loading}
		default:
			return Decision{Verdict: Redirect, Target: PathLogin}
		}

	case PublicOnly:
		if status == session.Authenticated {
			target := PathHome
			if IsProtected(lastProtected) {
				target = Normalize(lastProtected)
			}
			return Decision{Verdict: Redirect, Target: target}
		}
		return Decision{Verdict: Allow}
	}

	return Decision{Verdict: Allow}
}
