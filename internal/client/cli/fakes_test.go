package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/services"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/logging"
)

// fakeAuth implements services.AuthService and records what it was asked.
type fakeAuth struct {
	mu sync.Mutex

	store *session.Store

	registerEmail string
	registerPass  []byte
	registerRoles []session.Role
	registerErr   error

	loginEmail string
	loginPass  []byte
	loginPassP []byte // the slice the service received, to check wiping
	loginUser  *session.User
	loginErr   error

	logoutErr error

	checkOpts  []services.CheckOptions
	checkErr   error
	whoamiErr  error
	pingErr    error
	inFlight   bool
	deleteErr  error
	resetEmail string
	resetErr   error

	verifyToken string
	verifyOK    bool
	confirmPass string
	confirmTok  string
	confirmOK   bool

	calls []string
}

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) Register(_ context.Context, email string, password []byte, roles []session.Role) error {
	f.record("register")
	f.registerEmail, f.registerPass, f.registerRoles = email, append([]byte(nil), password...), roles
	return f.registerErr
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.record("login")
	f.loginEmail = email
	f.loginPass = append([]byte(nil), password...)
	f.loginPassP = password
	if f.loginErr != nil {
		return f.loginErr
	}
	if f.loginUser != nil && f.store != nil {
		return f.store.SetAuthenticated(f.loginUser)
	}
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.record("logout")
	if f.logoutErr == nil && f.store != nil {
		f.store.SetUnauthenticated()
	}
	return f.logoutErr
}

func (f *fakeAuth) SessionCheck(_ context.Context, opts services.CheckOptions) error {
	f.record("check")
	f.mu.Lock()
	f.checkOpts = append(f.checkOpts, opts)
	f.mu.Unlock()
	if f.store != nil {
		if f.checkErr != nil {
			f.store.SetUnauthenticated()
		} else if f.loginUser != nil {
			_ = f.store.SetAuthenticated(f.loginUser)
		}
	}
	return f.checkErr
}

func (f *fakeAuth) WhoAmI(context.Context) error {
	f.record("whoami")
	return f.whoamiErr
}

func (f *fakeAuth) PasswordResetInit(_ context.Context, email string) error {
	f.record("reset_init")
	f.resetEmail = email
	return f.resetErr
}

func (f *fakeAuth) PasswordResetVerifyToken(_ context.Context, token string) bool {
	f.record("reset_verify")
	f.verifyToken = token
	return f.verifyOK
}

func (f *fakeAuth) PasswordResetConfirm(_ context.Context, password []byte, token string) bool {
	f.record("reset_confirm")
	f.confirmPass, f.confirmTok = string(password), token
	return f.confirmOK
}

func (f *fakeAuth) DeleteAccount(context.Context) error {
	f.record("delete")
	if f.deleteErr == nil && f.store != nil {
		f.store.SetUnauthenticated()
	}
	return f.deleteErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.record("ping")
	return f.pingErr
}

func (f *fakeAuth) InFlight() bool { return f.inFlight }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *fakeNotifier) Notify(msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, s := range n.sent {
		out[i] = s.Title
	}
	return out
}

// recordingNav wraps a real navigator and remembers every Navigate call.
type recordingNav struct {
	*router.Navigator
	mu    sync.Mutex
	paths []string
}

func (r *recordingNav) Navigate(path string) router.View {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	return r.Navigator.Navigate(path)
}

func (r *recordingNav) Count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.paths {
		if p == path {
			n++
		}
	}
	return n
}

type testApp struct {
	*App
	auth  *fakeAuth
	nav   *recordingNav
	notes *fakeNotifier
	out   *bytes.Buffer
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(t *testing.T, initial session.Status, lines ...string) *testApp {
	t.Helper()

	store := session.NewStore(initial)
	inner := router.NewNavigator(store, nil, nil)
	t.Cleanup(inner.Close)

	ta := &testApp{
		auth:  &fakeAuth{store: store},
		nav:   &recordingNav{Navigator: inner},
		notes: &fakeNotifier{},
		out:   &bytes.Buffer{},
	}
	ta.App = &App{
		store:    store,
		nav:      ta.nav,
		auth:     ta.auth,
		reset:    services.NewResetFlow(ta.auth),
		notifier: ta.notes,
		logger:   logging.Discard(),
		reader:   readerFromLines(lines...),
		out:      ta.out,
	}
	inner.OnChange(ta.App.showView)
	return ta
}

// stubPasswords makes getPassword return pws in order and records the
// slices handed out.
func stubPasswords(t *testing.T, pws ...string) *[][]byte {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })

	var handed [][]byte
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		b := []byte(pws[i])
		i++
		handed = append(handed, b)
		return b, nil
	}
	return &handed
}

func silenceREPL(t *testing.T) *[]string {
	t.Helper()
	origPrintln, origPrint := printlnFn, printFn
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	printFn = func(...any) (int, error) { return 0, nil }
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
