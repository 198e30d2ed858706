package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/furbaby/internal/client/client"
	"github.com/dmitrijs2005/furbaby/internal/client/config"
	"github.com/dmitrijs2005/furbaby/internal/client/jar"
	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/services"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/logging"
	"golang.org/x/sync/errgroup"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// navigator is the part of *router.Navigator the commands use.
type navigator interface {
	Navigate(path string) router.View
	Current() router.View
	LastProtected() string
	Forget()
	Restore(ctx context.Context) error
	Close()
}

type App struct {
	config   *config.Config
	db       *sql.DB
	client   client.Client
	store    *session.Store
	nav      navigator
	auth     services.AuthService
	reset    *services.ResetFlow
	notifier notify.Notifier
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens local storage and builds the client stack for c. The store
// starts in Checking when a session cookie survived from a previous run.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	baseURL, err := c.BaseURL()
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	repo := metadata.NewSQLiteRepository(db)

	cookies, err := jar.New(base, repo, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := cookies.Load(ctx); err != nil {
		logger.Warn(ctx, "stored cookies ignored", "error", err)
	}

	apiClient, err := client.NewHTTPClient(baseURL, cookies, c.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	initial := session.Unauthenticated
	if cookies.HasSession() {
		initial = session.Checking
	}
	store := session.NewStore(initial)
	nav := router.NewNavigator(store, metadata.NewPathStore(repo), logger)
	notifier := notify.NewTerminal(os.Stdout, notify.DefaultTheme)

	auth := services.NewAuthService(services.Deps{
		Client:      apiClient,
		Store:       store,
		Navigator:   nav,
		Notifier:    notifier,
		Credentials: cookies,
		Logger:      logger,
	})

	app := &App{
		config:   c,
		db:       db,
		client:   apiClient,
		store:    store,
		nav:      nav,
		auth:     auth,
		reset:    services.NewResetFlow(auth),
		notifier: notifier,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	nav.OnChange(app.showView)
	return app, nil
}

// Run starts the REPL and the session watcher and blocks until the user
// leaves the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	printlnFn("Welcome to furbaby CLI (type 'help' for commands)")
	a.startup(ctx)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)

	g.Go(func() error {
		defer stop()
		runREPL(runCtx, a, a.prompt, a.reader)
		return nil
	})
	g.Go(func() error {
		a.StartSessionWatcher(runCtx, a.config.SessionCheckInterval)
		return nil
	})
	return g.Wait()
}

// Close releases the navigator subscription, idle connections and the
// database.
func (a *App) Close() {
	if a.nav != nil {
		a.nav.Close()
	}
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// startup restores the last view and, when a stored session exists,
// validates it before the first prompt.
func (a *App) startup(ctx context.Context) {
	if err := a.nav.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "last path not restored", "error", err)
	}
	a.refreshMode(ctx)

	if a.store.Status() != session.Checking {
		a.showView(a.nav.Current())
		return
	}

	target := a.nav.LastProtected()
	if target == "" {
		target = router.PathHome
	}
	a.nav.Navigate(target)

	err := a.auth.SessionCheck(ctx, services.CheckOptions{RedirectOnFailure: true})
	if err != nil {
		a.logger.Info(ctx, "stored session not restored", "error", err)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), fmt.Sprintf("switched to %s mode", mode))
	}
}

func (a *App) status() session.Status {
	return a.store.Status()
}

// prompt renders "furbaby (who, mode) /path> ".
func (a *App) prompt() string {
	var parts []string
	st := a.store.State()
	switch st.Status {
	case session.Authenticated:
		parts = append(parts, st.User.Email)
	case session.Checking:
		parts = append(parts, "checking")
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}

	s := "furbaby"
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("%s %s> ", s, a.nav.Current().Path)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
