package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mkossman/noted-cli/internal/domain"
	"github.com/mkossman/noted-cli/internal/ports"
)

type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenRecords   Screen = "records"
	ScreenShortcuts Screen = "shortcuts"
)

type LoginMode string

const (
	LoginPassword     LoginMode = "password"
	LoginTelegramPin  LoginMode = "telegram_pin"
	LoginTelegramCode LoginMode = "telegram_code"
)

// watchdogLead is how far before the token's exp claim the client logs
// itself out, leaving headroom for clock skew and in-flight requests.
const watchdogLead = 5 * time.Second

// State is the renderable view of the session. Snapshot returns copies, so
// renderers never observe a half-applied mutation.
type State struct {
	LoggedIn  bool
	Screen    Screen
	LoginMode LoginMode
	Busy      bool
	Err       string

	Records   []domain.Entry
	Shortcuts []domain.Entry
	Edit      domain.EditCursor

	// Pin survives a failed code verification so the user does not retype it.
	Pin           string
	CooldownUntil time.Time
}

// Controller owns all client-side session and view state and sequences every
// API call. One busy flag covers all mutating actions; callers are expected
// to disable their triggering controls while it is set, but nothing here
// structurally prevents overlap.
type Controller struct {
	api    ports.API
	store  ports.SessionStore
	clock  ports.Clock
	logger *zap.Logger

	mu           sync.Mutex
	st           State
	stopWatchdog func() bool
	unsubscribe  func()
}

func NewController(api ports.API, store ports.SessionStore, bus ports.Bus, clock ports.Clock, logger *zap.Logger) *Controller {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		api:    api,
		store:  store,
		clock:  clock,
		logger: logger,
		st: State{
			Screen:    ScreenLogin,
			LoginMode: LoginPassword,
		},
	}

	if bus != nil {
		c.unsubscribe = bus.Subscribe(c.handleUnauthorized)
	}

	return c
}

// Close detaches the controller from the bus and disarms the watchdog. The
// stored session is left untouched.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmWatchdogLocked()
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.st
	st.Records = append([]domain.Entry(nil), c.st.Records...)
	st.Shortcuts = append([]domain.Entry(nil), c.st.Shortcuts...)
	return st
}

// Restore picks up a session persisted by a previous run. With a stored
// token the controller goes straight to logged-in and loads both lists.
func (c *Controller) Restore(ctx context.Context) error {
	token, err := c.store.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	return c.enterLoggedIn(ctx, token)
}

// Logout ends the session explicitly: stored token gone, all in-memory view
// state cleared.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.ClearToken(ctx)
	c.reset("")
	return err
}

// handleUnauthorized reacts to a 401 seen by any request. The request
// wrapper has already cleared the stored token.
func (c *Controller) handleUnauthorized(reason string) {
	c.logger.Debug("unauthorized event", zap.String("reason", reason))
	c.reset(reason)
}

// expireSession is the watchdog path: the token's exp claim is about to
// elapse, so log out before the server starts answering 401.
func (c *Controller) expireSession() {
	c.logger.Debug("token expiry watchdog fired")
	if err := c.store.ClearToken(context.Background()); err != nil {
		c.logger.Warn("clear token on expiry", zap.Error(err))
	}
	c.reset("session expired, please log in again")
}

func (c *Controller) reset(errText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarmWatchdogLocked()
	c.st = State{
		Screen:    ScreenLogin,
		LoginMode: LoginPassword,
		Err:       errText,
	}
}

func (c *Controller) disarmWatchdogLocked() {
	if c.stopWatchdog != nil {
		c.stopWatchdog()
		c.stopWatchdog = nil
	}
}

// armWatchdog schedules the preemptive logout. Tokens without a readable
// exp claim get no timer; the server's 401 is the only limit then.
func (c *Controller) armWatchdog(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disarmWatchdogLocked()

	exp, ok := domain.TokenExpiry(token)
	if !ok {
		return
	}

	delay := exp.Add(-watchdogLead).Sub(c.clock.Now())
	if delay < 0 {
		delay = 0
	}

	c.stopWatchdog = c.clock.AfterFunc(delay, c.expireSession)
}

func (c *Controller) enterLoggedIn(ctx context.Context, token string) error {
	c.mu.Lock()
	c.st.LoggedIn = true
	c.st.Screen = ScreenRecords
	c.st.LoginMode = LoginPassword
	c.st.Pin = ""
	c.st.CooldownUntil = time.Time{}
	c.mu.Unlock()

	// Armed only after the state flip: a zero-delay timer for an already
	// expired token must observe LoggedIn and take the full logout path.
	c.armWatchdog(token)

	return c.loadBothLists(ctx)
}

// loadBothLists fetches records and shortcuts concurrently. The busy flag
// clears even when a fetch fails, and the failing error is what the user
// sees.
func (c *Controller) loadBothLists(ctx context.Context) error {
	return c.runBusy(func() error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			entries, err := c.api.ListEntries(gctx, domain.ListRecords)
			if err != nil {
				return err
			}
			c.setList(domain.ListRecords, entries)
			return nil
		})
		g.Go(func() error {
			entries, err := c.api.ListEntries(gctx, domain.ListShortcuts)
			if err != nil {
				return err
			}
			c.setList(domain.ListShortcuts, entries)
			return nil
		})

		return g.Wait()
	})
}

func (c *Controller) setList(kind domain.ListKind, entries []domain.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == domain.ListShortcuts {
		c.st.Shortcuts = entries
		return
	}
	c.st.Records = entries
}

// SwitchScreen flips between the warm lists without refetching.
func (c *Controller) SwitchScreen(kind domain.ListKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.LoggedIn {
		return
	}
	if kind == domain.ListShortcuts {
		c.st.Screen = ScreenShortcuts
		return
	}
	c.st.Screen = ScreenRecords
}

func (c *Controller) requireLoggedIn() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.LoggedIn {
		return domain.ErrNotLoggedIn
	}
	return nil
}

// runBusy is the finally-style guard every user-triggered action runs
// under: previous error cleared, busy set, busy always cleared afterward,
// failure message stored for display.
func (c *Controller) runBusy(fn func() error) error {
	c.mu.Lock()
	c.st.Err = ""
	c.st.Busy = true
	c.mu.Unlock()

	err := fn()

	c.mu.Lock()
	c.st.Busy = false
	if err != nil {
		c.st.Err = err.Error()
	}
	c.mu.Unlock()

	return err
}
