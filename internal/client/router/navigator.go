package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/logging"
)

// maxRedirects bounds redirect chains; the route table never needs more
// than two hops.
const maxRedirects = 4

// StateSource is the part of the session store the navigator needs.
type StateSource interface {
	State() session.State
	Subscribe(fn session.Listener) func()
}

// PathStore persists the last protected path across restarts.
type PathStore interface {
	LoadLastPath(ctx context.Context) (string, error)
	SaveLastPath(ctx context.Context, path string) error
}

// View is what the client currently shows. Verdict is never Redirect:
// redirects are followed before a view is settled.
type View struct {
	Path    string
	Verdict Verdict
}

// Navigator owns the current path. It consults Decide on every navigation
// and on every session transition, following redirects, and remembers the
// last protected path so it can be restored once the user is authenticated.
type Navigator struct {
	store  StateSource
	paths  PathStore
	logger logging.Logger

	mu            sync.Mutex
	current       View
	lastProtected string
	listeners     []func(View)

	unsubscribe func()
}

// NewNavigator starts on the landing path and subscribes to store. paths
// may be nil, in which case the last protected path lives only in memory.
func NewNavigator(store StateSource, paths PathStore, logger logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.Discard()
	}
	n := &Navigator{
		store:   store,
		paths:   paths,
		logger:  logger,
		current: View{Path: PathLanding, Verdict: Allow},
	}
	n.unsubscribe = store.Subscribe(n.onTransition)
	return n
}

// Close stops reacting to session transitions.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// Restore loads the persisted last protected path.
func (n *Navigator) Restore(ctx context.Context) error {
	if n.paths == nil {
		return nil
	}
	p, err := n.paths.LoadLastPath(ctx)
	if err != nil {
		return err
	}
	if IsProtected(p) {
		n.mu.Lock()
		n.lastProtected = Normalize(p)
		n.mu.Unlock()
	}
	return nil
}

// OnChange registers fn to be called whenever the settled view changes.
func (n *Navigator) OnChange(fn func(View)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Current returns the settled view.
func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// LastProtected returns the remembered protected path, or "".
func (n *Navigator) LastProtected() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastProtected
}

// Forget drops the remembered protected path from memory. The persisted
// copy is left to whoever owns the PathStore.
func (n *Navigator) Forget() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastProtected = ""
}

// Navigate moves to path, following guard redirects, and returns the view
// that was settled.
func (n *Navigator) Navigate(path string) View {
	n.mu.Lock()
	status := n.store.State().Status
	view, changed, remembered := n.resolveLocked(status, path)
	listeners := n.listeners
	n.mu.Unlock()

	n.after(view, changed, remembered, listeners)
	return view
}

func (n *Navigator) onTransition(prev, next session.State) {
	n.mu.Lock()
	view, changed, remembered := n.resolveLocked(next.Status, n.current.Path)
	listeners := n.listeners
	n.mu.Unlock()

	if changed {
		n.logger.Debug(context.Background(), "session transition moved view",
			"from_status", prev.Status.String(), "to_status", next.Status.String(), "path", view.Path, "verdict", view.Verdict.String())
	}
	n.after(view, changed, remembered, listeners)
}

// resolveLocked settles path under status. It reports whether the view
// changed and, when the last protected path was updated, its new value.
func (n *Navigator) resolveLocked(status session.Status, path string) (View, bool, *string) {
	p := Normalize(path)
	var remembered *string

	remember := func(protected string) {
		if n.lastProtected != protected {
			n.lastProtected = protected
			v := protected
			remembered = &v
		}
	}

	var d Decision
	for i := 0; i < maxRedirects; i++ {
		d = Decide(status, p, n.lastProtected)
		if IsProtected(p) {
			remember(p)
		}
		if d.Verdict != Redirect {
			break
		}
		p = d.Target
	}
	if d.Verdict == Redirect {
		// unreachable with the current route table
		d = Decision{Verdict: NotFound}
	}

	view := View{Path: p, Verdict: d.Verdict}
	changed := view != n.current
	n.current = view
	return view, changed, remembered
}

func (n *Navigator) after(view View, changed bool, remembered *string, listeners []func(View)) {
	if remembered != nil && n.paths != nil {
		if err := n.paths.SaveLastPath(context.Background(), *remembered); err != nil {
			n.logger.Warn(context.Background(), "saving last path failed", "path", *remembered, "error", err)
		}
	}
	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(view)
	}
}
