package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mkossman/noted-cli/internal/domain"
	"github.com/mkossman/noted-cli/internal/ports"
)

type fakeStore struct {
	mu      sync.Mutex
	token   string
	baseURL string
}

var _ ports.SessionStore = (*fakeStore)(nil)

func (s *fakeStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *fakeStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *fakeStore) ClearToken(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *fakeStore) BaseURL(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL, nil
}

func (s *fakeStore) SetBaseURL(_ context.Context, baseURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	return nil
}

func (s *fakeStore) ClearBaseURL(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = ""
	return nil
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

// fakeClock drives the watchdog deterministically: Advance fires any timer
// whose deadline has been reached.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

var _ ports.Clock = (*fakeClock)(nil)

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, timer)

	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if timer.fired || timer.stopped {
			return false
		}
		timer.stopped = true
		return true
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*fakeTimer
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired && !timer.at.After(c.now) {
			timer.fired = true
			due = append(due, timer)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	c.mu.Unlock()

	for _, timer := range due {
		timer.fn()
	}
}

func (c *fakeClock) pendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			n++
		}
	}
	return n
}

// fakeAPI serves canned lists and records call counts. Override the func
// fields per test to inject failures.
type fakeAPI struct {
	mu sync.Mutex

	records   []domain.Entry
	shortcuts []domain.Entry

	loginFn       func(username, password string) (string, error)
	requestCodeFn func(pin string) (time.Duration, error)
	verifyCodeFn  func(code string) (string, error)
	listFn        func(kind domain.ListKind) ([]domain.Entry, error)
	createFn      func(kind domain.ListKind, text string) (domain.Entry, error)
	updateFn      func(kind domain.ListKind, id domain.EntryID, text string) error
	deleteFn      func(kind domain.ListKind, id domain.EntryID) error

	listCalls   map[domain.ListKind]int
	createCalls int
	updateCalls int
	deleteCalls int
}

var _ ports.API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{listCalls: map[domain.ListKind]int{}}
}

func (a *fakeAPI) Login(_ context.Context, username, password string) (string, error) {
	if a.loginFn != nil {
		return a.loginFn(username, password)
	}
	return "tok-default", nil
}

func (a *fakeAPI) RequestCode(_ context.Context, pin string) (time.Duration, error) {
	if a.requestCodeFn != nil {
		return a.requestCodeFn(pin)
	}
	return time.Minute, nil
}

func (a *fakeAPI) VerifyCode(_ context.Context, code string) (string, error) {
	if a.verifyCodeFn != nil {
		return a.verifyCodeFn(code)
	}
	return "tok-default", nil
}

func (a *fakeAPI) ListEntries(_ context.Context, kind domain.ListKind) ([]domain.Entry, error) {
	a.mu.Lock()
	a.listCalls[kind]++
	a.mu.Unlock()

	if a.listFn != nil {
		return a.listFn(kind)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if kind == domain.ListShortcuts {
		return append([]domain.Entry(nil), a.shortcuts...), nil
	}
	return append([]domain.Entry(nil), a.records...), nil
}

func (a *fakeAPI) CreateEntry(_ context.Context, kind domain.ListKind, text string) (domain.Entry, error) {
	a.mu.Lock()
	a.createCalls++
	a.mu.Unlock()

	if a.createFn != nil {
		return a.createFn(kind, text)
	}

	entry := domain.Entry{ID: domain.EntryID("new-" + text), Text: text, CreatedAt: time.Now()}
	a.mu.Lock()
	if kind == domain.ListShortcuts {
		a.shortcuts = append(a.shortcuts, entry)
	} else {
		a.records = append(a.records, entry)
	}
	a.mu.Unlock()
	return entry, nil
}

func (a *fakeAPI) UpdateEntry(_ context.Context, kind domain.ListKind, id domain.EntryID, text string) error {
	a.mu.Lock()
	a.updateCalls++
	a.mu.Unlock()

	if a.updateFn != nil {
		return a.updateFn(kind, id, text)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	list := a.records
	if kind == domain.ListShortcuts {
		list = a.shortcuts
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Text = text
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (a *fakeAPI) DeleteEntry(_ context.Context, kind domain.ListKind, id domain.EntryID) error {
	a.mu.Lock()
	a.deleteCalls++
	a.mu.Unlock()

	if a.deleteFn != nil {
		return a.deleteFn(kind, id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	list := &a.records
	if kind == domain.ListShortcuts {
		list = &a.shortcuts
	}
	for i := range *list {
		if (*list)[i].ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (a *fakeAPI) listCallCount(kind domain.ListKind) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listCalls[kind]
}
