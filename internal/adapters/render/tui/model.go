package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkossman/noted-cli/internal/application"
	"github.com/mkossman/noted-cli/internal/domain"
)

// tickInterval drives the cooldown countdown and picks up state changes
// pushed from outside the update loop (watchdog, unauthorized event).
const tickInterval = 250 * time.Millisecond

type tickMsg time.Time

// actionDoneMsg signals that a controller call issued as a tea.Cmd has
// finished. The controller already holds the outcome; the model just
// re-renders from the next snapshot.
type actionDoneMsg struct{}

type inputMode int

const (
	inputNone inputMode = iota
	inputNew
	inputEdit
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
)

// Model is the interactive terminal front end. All session and list state
// lives in the controller; the model keeps only presentation concerns
// (inputs, cursors, the delete confirmation).
type Model struct {
	ctrl   *application.Controller
	ctx    context.Context
	styles styles
	spin   spinner.Model

	username textinput.Model
	password textinput.Model
	pin      textinput.Model
	code     textinput.Model
	entry    textinput.Model

	focus       loginField
	mode        inputMode
	cursor      map[domain.ListKind]int
	confirmID   domain.EntryID
	confirmKind domain.ListKind
	wasLoggedIn bool
	quitting    bool
}

func New(ctx context.Context, ctrl *application.Controller) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	pin := textinput.New()
	pin.Placeholder = "pin"

	code := textinput.New()
	code.Placeholder = "code"

	entry := textinput.New()
	entry.Placeholder = "text"
	entry.CharLimit = 0

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		ctrl:     ctrl,
		ctx:      ctx,
		styles:   newStyles(),
		spin:     spin,
		username: username,
		password: password,
		pin:      pin,
		code:     code,
		entry:    entry,
		cursor:   map[domain.ListKind]int{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A forced logout (watchdog, 401) invalidates whatever was typed; the
	// login form must come back empty.
	if st := m.ctrl.Snapshot(); m.wasLoggedIn && !st.LoggedIn {
		m = m.clearTransientInputs()
		m.wasLoggedIn = false
	} else {
		m.wasLoggedIn = st.LoggedIn
	}

	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case actionDoneMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m Model) clearTransientInputs() Model {
	m.username.SetValue("")
	m.password.SetValue("")
	m.pin.SetValue("")
	m.code.SetValue("")
	m.entry.SetValue("")
	m.entry.Blur()
	m.mode = inputNone
	m.confirmID = ""
	m.cursor = map[domain.ListKind]int{}
	m.focus = fieldUsername
	m.password.Blur()
	m.username.Focus()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	st := m.ctrl.Snapshot()
	if st.Busy {
		// Advisory only: controls are ignored while a call is in flight.
		return m, nil
	}

	if !st.LoggedIn {
		return m.handleLoginKey(msg, st)
	}
	return m.handleListKey(msg, st)
}

func (m Model) handleLoginKey(msg tea.KeyMsg, st application.State) (tea.Model, tea.Cmd) {
	switch st.LoginMode {
	case application.LoginTelegramPin:
		return m.handlePinKey(msg)
	case application.LoginTelegramCode:
		if !m.code.Focused() {
			m.code.Focus()
		}
		return m.handleCodeKey(msg)
	default:
		return m.handlePasswordKey(msg)
	}
}

func (m Model) handlePasswordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.focus == fieldUsername {
			m.focus = fieldPassword
			m.username.Blur()
			m.password.Focus()
		} else {
			m.focus = fieldUsername
			m.password.Blur()
			m.username.Focus()
		}
		return m, nil
	case "ctrl+t":
		m.ctrl.UseTelegramLogin()
		m.pin.Focus()
		return m, nil
	case "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		username := m.username.Value()
		password := m.password.Value()
		return m, func() tea.Msg {
			_ = m.ctrl.LoginPassword(m.ctx, username, password)
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) handlePinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t", "esc":
		m.ctrl.UsePasswordLogin()
		m.username.Focus()
		return m, nil
	case "enter":
		if m.ctrl.CooldownRemaining(time.Now()) > 0 {
			return m, nil
		}
		pin := m.pin.Value()
		return m, func() tea.Msg {
			_ = m.ctrl.RequestCode(m.ctx, pin)
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	m.pin, cmd = m.pin.Update(msg)
	return m, cmd
}

func (m Model) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.UseTelegramLogin()
		m.code.SetValue("")
		m.pin.Focus()
		return m, nil
	case "enter":
		code := m.code.Value()
		m.code.SetValue("")
		return m, func() tea.Msg {
			_ = m.ctrl.VerifyCode(m.ctx, code)
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg, st application.State) (tea.Model, tea.Cmd) {
	kind := activeKind(st.Screen)

	if m.confirmID != "" {
		return m.handleConfirmKey(msg)
	}

	if m.mode != inputNone {
		return m.handleEntryInputKey(msg, kind)
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		if kind == domain.ListRecords {
			m.ctrl.SwitchScreen(domain.ListShortcuts)
		} else {
			m.ctrl.SwitchScreen(domain.ListRecords)
		}
		return m, nil
	case "up", "k":
		if m.cursor[kind] > 0 {
			m.cursor[kind]--
		}
		return m, nil
	case "down", "j":
		if m.cursor[kind] < len(listFor(st, kind))-1 {
			m.cursor[kind]++
		}
		return m, nil
	case "n":
		m.mode = inputNew
		m.entry.SetValue("")
		m.entry.Focus()
		return m, nil
	case "e":
		if entry, ok := selected(st, kind, m.cursor[kind]); ok {
			if m.ctrl.StartEdit(kind, entry.ID) == nil {
				m.mode = inputEdit
				m.entry.SetValue(entry.Text)
				m.entry.CursorEnd()
				m.entry.Focus()
			}
		}
		return m, nil
	case "d":
		if entry, ok := selected(st, kind, m.cursor[kind]); ok {
			m.confirmID = entry.ID
			m.confirmKind = kind
		}
		return m, nil
	case "p":
		if kind == domain.ListShortcuts {
			if entry, ok := selected(st, kind, m.cursor[kind]); ok {
				id := entry.ID
				return m, func() tea.Msg {
					_ = m.ctrl.Promote(m.ctx, id)
					return actionDoneMsg{}
				}
			}
		}
		return m, nil
	case "r":
		return m, func() tea.Msg {
			_ = m.ctrl.Refresh(m.ctx, kind)
			return actionDoneMsg{}
		}
	case "ctrl+l":
		return m, func() tea.Msg {
			_ = m.ctrl.Logout(m.ctx)
			return actionDoneMsg{}
		}
	}

	return m, nil
}

func (m Model) handleEntryInputKey(msg tea.KeyMsg, kind domain.ListKind) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == inputEdit {
			m.ctrl.CancelEdit()
		}
		m.mode = inputNone
		m.entry.Blur()
		return m, nil
	case "enter":
		text := m.entry.Value()
		mode := m.mode
		m.mode = inputNone
		m.entry.Blur()

		if mode == inputEdit {
			m.ctrl.SetDraft(text)
			return m, func() tea.Msg {
				_ = m.ctrl.SaveEdit(m.ctx)
				return actionDoneMsg{}
			}
		}
		return m, func() tea.Msg {
			_ = m.ctrl.Create(m.ctx, kind, text)
			return actionDoneMsg{}
		}
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

// handleConfirmKey gates deletion behind an explicit yes.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		kind, id := m.confirmKind, m.confirmID
		m.confirmID = ""
		if m.cursor[kind] > 0 {
			m.cursor[kind]--
		}
		return m, func() tea.Msg {
			_ = m.ctrl.Delete(m.ctx, kind, id)
			return actionDoneMsg{}
		}
	case "n", "N", "esc":
		m.confirmID = ""
		return m, nil
	}
	return m, nil
}

func activeKind(screen application.Screen) domain.ListKind {
	if screen == application.ScreenShortcuts {
		return domain.ListShortcuts
	}
	return domain.ListRecords
}

func listFor(st application.State, kind domain.ListKind) []domain.Entry {
	if kind == domain.ListShortcuts {
		return st.Shortcuts
	}
	return st.Records
}

func selected(st application.State, kind domain.ListKind, cursor int) (domain.Entry, bool) {
	list := listFor(st, kind)
	if cursor < 0 || cursor >= len(list) {
		return domain.Entry{}, false
	}
	return list[cursor], true
}

// Run drives the program until the user quits or the context ends.
func Run(ctx context.Context, ctrl *application.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
