package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/furbaby/internal/client/client"
	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

// fakeClient implements client.Client. A non-nil *Fn field replaces the
// canned result for that call.
type fakeClient struct {
	mu sync.Mutex

	PingErr     error
	RegisterErr error
	LoginRet    *session.User
	LoginErr    error
	LogoutErr   error
	SessionRet  *session.User
	SessionErr  error
	WhoAmIRet   string
	WhoAmIErr   error
	ResetErr    error
	VerifyErr   error
	ConfirmErr  error
	DeleteErr   error

	LoginFn   func(ctx context.Context) (*session.User, error)
	SessionFn func(ctx context.Context) (*session.User, error)

	LastRegister     client.RegisterRequest
	LastLoginEmail   string
	LastResetEmail   string
	LastVerifyToken  string
	LastConfirmToken string
	LastConfirmPass  string

	calls map[string]int
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.record("ping")
	return f.PingErr
}

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) error {
	f.record("register")
	f.LastRegister = req
	return f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*session.User, error) {
	f.record("login")
	f.LastLoginEmail = email
	if f.LoginFn != nil {
		return f.LoginFn(ctx)
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("logout")
	return f.LogoutErr
}

func (f *fakeClient) Session(ctx context.Context) (*session.User, error) {
	f.record("session")
	if f.SessionFn != nil {
		return f.SessionFn(ctx)
	}
	return f.SessionRet, f.SessionErr
}

func (f *fakeClient) WhoAmI(ctx context.Context) (string, error) {
	f.record("whoami")
	return f.WhoAmIRet, f.WhoAmIErr
}

func (f *fakeClient) PasswordResetInit(ctx context.Context, email string) error {
	f.record("reset_init")
	f.LastResetEmail = email
	return f.ResetErr
}

func (f *fakeClient) PasswordResetValidateToken(ctx context.Context, token string) error {
	f.record("reset_verify")
	f.LastVerifyToken = token
	return f.VerifyErr
}

func (f *fakeClient) PasswordResetConfirm(ctx context.Context, password []byte, token string) error {
	f.record("reset_confirm")
	f.LastConfirmPass = string(password)
	f.LastConfirmToken = token
	return f.ConfirmErr
}

func (f *fakeClient) DeleteUser(ctx context.Context) error {
	f.record("delete")
	return f.DeleteErr
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *fakeNotifier) Notify(msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) Last() notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notify.Notification{}
	}
	return n.sent[len(n.sent)-1]
}

func (n *fakeNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeNavigator struct {
	mu     sync.Mutex
	paths  []string
	forgot int
}

func (n *fakeNavigator) Forget() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forgot++
}

func (n *fakeNavigator) Navigate(path string) router.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return router.View{Path: path, Verdict: router.Allow}
}

func (n *fakeNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fakeCredentials struct {
	cleared int
	err     error
}

func (c *fakeCredentials) Clear(ctx context.Context) error {
	c.cleared++
	return c.err
}

type harness struct {
	client *fakeClient
	store  *session.Store
	nav    *fakeNavigator
	notes  *fakeNotifier
	creds  *fakeCredentials
	svc    AuthService
}

func newHarness(initial session.Status) *harness {
	h := &harness{
		client: &fakeClient{},
		store:  session.NewStore(initial),
		nav:    &fakeNavigator{},
		notes:  &fakeNotifier{},
		creds:  &fakeCredentials{},
	}
	h.svc = NewAuthService(Deps{
		Client:      h.client,
		Store:       h.store,
		Navigator:   h.nav,
		Notifier:    h.notes,
		Credentials: h.creds,
	})
	return h
}

func (h *harness) signIn(u *session.User) {
	if err := h.store.SetAuthenticated(u); err != nil {
		panic(err)
	}
}
