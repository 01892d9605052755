package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/naveenspark/estate/internal/config"
	"github.com/naveenspark/estate/internal/logging"
	"github.com/naveenspark/estate/internal/router"
	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/internal/tui"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/storage"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components. close releases the store and the log file.
type app struct {
	client  *client.Client
	session *session.Session
	router  *router.Router
	store   storage.Store
	closers []io.Closer
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close() //nolint:errcheck
	}
}

// navigator forwards forced redirects to a router built after the client.
type navigator struct {
	router *router.Router
}

func (n *navigator) RedirectToLogin(cause error) {
	if n.router != nil {
		n.router.RedirectToLogin(cause)
	}
}

// wire builds the store, client, session and router from cfg. The session
// and the client refer to each other through the refresh hook and the
// navigator.
func wire(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{}
	logCloser, err := logging.Setup(cfg.LoggingOptions())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logCloser)

	store, storeCloser, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, storeCloser)

	nav := &navigator{}
	var sess *session.Session
	opts := append(cfg.ClientOptions(),
		client.WithNavigator(nav),
		client.WithRefreshHook(func(access, refresh string) {
			if sess != nil {
				sess.TokenRefreshed(access, refresh)
			}
		}),
	)
	a.client = client.New(cfg.APIURL, store, opts...)
	sess = session.New(a.client, store)
	a.session = sess
	a.router = router.New(sess, router.WithExpire(sess.Expire))
	nav.router = a.router

	log.Info().
		Str("version", version).
		Str("api", cfg.APIURL).
		Str("store", string(cfg.Store.Backend)).
		Msg("estate starting")
	return a, nil
}

func run(args []string, out io.Writer) error {
	start := "/"
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(out, "estate "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	case "login":
		start = router.LoginPath
	case "register":
		start = "/register"
	case "", "logout", "whoami":
	default:
		return fmt.Errorf("unknown command %q (run estate help)", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	ctx := context.Background()
	a, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	switch cmd {
	case "logout":
		return runLogout(ctx, a, out)
	case "whoami":
		return runWhoami(ctx, a, out)
	}

	if err := a.session.Resume(ctx); err != nil {
		// Network trouble: keep the stored session and let the UI retry.
		log.Warn().Err(err).Msg("resume session")
	}

	p := tea.NewProgram(tui.NewApp(a.client, a.session, a.router, start), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogout(ctx context.Context, a *app, out io.Writer) error {
	_, hasAccess, err := storage.Lookup(ctx, a.store, storage.KeyAccessToken)
	if err != nil {
		return err
	}
	_, hasRefresh, err := storage.Lookup(ctx, a.store, storage.KeyRefreshToken)
	if err != nil {
		return err
	}
	if !hasAccess && !hasRefresh {
		fmt.Fprintln(out, "Already signed out.")
		return nil
	}
	a.session.LoadFromStorage(ctx)
	a.session.Logout(ctx)
	fmt.Fprintln(out, "Signed out.")
	return nil
}

func runWhoami(ctx context.Context, a *app, out io.Writer) error {
	if err := a.session.Resume(ctx); err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	if !a.session.IsAuthenticated() {
		printSignedOut(out)
		return nil
	}
	res := a.session.FetchUserProfile(ctx)
	u := res.User
	if !res.Success {
		if !a.session.IsAuthenticated() {
			printSignedOut(out)
			return nil
		}
		u = a.session.User()
		if u == nil {
			return errors.New(res.Error)
		}
		log.Warn().Str("error", res.Error).Msg("profile fetch failed, showing cached user")
	}
	printUser(out, u, a.session.IsSuperadmin())
	if exp, ok := a.session.AccessTokenExpiry(); ok {
		printExpiry(out, exp, time.Now())
	}
	return nil
}
