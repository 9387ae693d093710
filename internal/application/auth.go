package application

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/mkossman/noted-cli/internal/domain"
)

// defaultCooldown applies when a rate-limit message carries no parsable
// wait hint, so the resend control never stays wedged.
const defaultCooldown = 60 * time.Second

var waitHintPattern = regexp.MustCompile(`(\d+)\s*s(?:econds?)?\b`)

// LoginPassword runs the username/password flow and, on success, enters the
// logged-in state with both lists loaded.
func (c *Controller) LoginPassword(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return c.fail(errors.New("username and password are required"))
	}

	var token string
	err := c.runBusy(func() error {
		var err error
		token, err = c.api.Login(ctx, username, password)
		if err != nil {
			return err
		}
		return c.store.SetToken(ctx, token)
	})
	if err != nil {
		return err
	}

	return c.enterLoggedIn(ctx, token)
}

// UseTelegramLogin switches the login screen into the pin-entry sub-flow;
// UsePasswordLogin switches back. Both are no-ops once logged in.
func (c *Controller) UseTelegramLogin() {
	c.setLoginMode(LoginTelegramPin)
}

func (c *Controller) UsePasswordLogin() {
	c.setLoginMode(LoginPassword)
}

func (c *Controller) setLoginMode(mode LoginMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st.LoggedIn {
		return
	}
	c.st.LoginMode = mode
}

// RequestCode asks the server to send a one-time code for the pin. A
// rate-limited refusal starts the local cooldown parsed out of the server
// message ("wait 30s" and the like); other failures leave the resend
// control usable.
func (c *Controller) RequestCode(ctx context.Context, pin string) error {
	if pin == "" {
		return c.fail(errors.New("pin is required"))
	}

	if remaining := c.CooldownRemaining(c.clock.Now()); remaining > 0 {
		return c.fail(errors.New("please wait " + strconv.Itoa(int(remaining.Round(time.Second)/time.Second)) + "s before requesting another code"))
	}

	err := c.runBusy(func() error {
		_, err := c.api.RequestCode(ctx, pin)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			if wait, ok := parseWaitHint(err.Error()); ok {
				c.startCooldown(wait)
			} else {
				c.startCooldown(defaultCooldown)
			}
		}
		return err
	}

	c.mu.Lock()
	c.st.LoginMode = LoginTelegramCode
	c.st.Pin = pin
	c.mu.Unlock()

	return nil
}

// VerifyCode exchanges the one-time code for a token. Failure falls back to
// pin entry with the code discarded but the pin preserved.
func (c *Controller) VerifyCode(ctx context.Context, code string) error {
	if code == "" {
		return c.fail(errors.New("code is required"))
	}

	var token string
	err := c.runBusy(func() error {
		var err error
		token, err = c.api.VerifyCode(ctx, code)
		if err != nil {
			return err
		}
		return c.store.SetToken(ctx, token)
	})
	if err != nil {
		c.mu.Lock()
		if !c.st.LoggedIn {
			c.st.LoginMode = LoginTelegramPin
		}
		c.mu.Unlock()
		return err
	}

	return c.enterLoggedIn(ctx, token)
}

func (c *Controller) startCooldown(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.CooldownUntil = c.clock.Now().Add(d)
}

// CooldownRemaining reports how long the resend control stays disabled.
// Zero means it is usable.
func (c *Controller) CooldownRemaining(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st.CooldownUntil.IsZero() || !now.Before(c.st.CooldownUntil) {
		return 0
	}
	return c.st.CooldownUntil.Sub(now)
}

// fail records a client-side validation failure in the error slot without
// touching the busy flag; no network call happens on this path.
func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.st.Err = err.Error()
	c.mu.Unlock()
	return err
}

// parseWaitHint pulls a "<N>s" / "<N> seconds" duration out of a rate-limit
// message.
func parseWaitHint(message string) (time.Duration, bool) {
	match := waitHintPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}

	seconds, err := strconv.Atoi(match[1])
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
