package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkossman/noted-cli/internal/application"
	"github.com/mkossman/noted-cli/internal/domain"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.ctrl.Snapshot()

	var body string
	if !st.LoggedIn {
		body = m.loginView(st)
	} else {
		body = m.listView(st)
	}

	lines := []string{m.styles.title.Render("noted"), body}

	if st.Busy {
		lines = append(lines, fmt.Sprintf("%s working...", m.spin.View()))
	}
	if st.Err != "" {
		lines = append(lines, m.styles.errText.Render(st.Err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m Model) loginView(st application.State) string {
	switch st.LoginMode {
	case application.LoginTelegramPin:
		return m.pinView()
	case application.LoginTelegramCode:
		return m.codeView(st)
	default:
		return m.passwordView()
	}
}

func (m Model) passwordView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.label.Render("Sign in"),
		m.username.View(),
		m.password.View(),
		m.styles.hint.Render("enter: sign in · tab: next field · ctrl+t: telegram login · esc: quit"),
	)
}

func (m Model) pinView() string {
	lines := []string{
		m.styles.label.Render("Telegram login, enter your pin"),
		m.pin.View(),
	}

	if remaining := m.ctrl.CooldownRemaining(time.Now()); remaining > 0 {
		seconds := int(remaining.Round(time.Second) / time.Second)
		lines = append(lines, m.styles.cooldown.Render(fmt.Sprintf("resend available in %ds", seconds)))
	} else {
		lines = append(lines, m.styles.hint.Render("enter: send code · esc: password login"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) codeView(st application.State) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.label.Render(fmt.Sprintf("Code sent for pin %s, enter it below", st.Pin)),
		m.code.View(),
		m.styles.hint.Render("enter: verify · esc: back to pin"),
	)
}

func (m Model) listView(st application.State) string {
	kind := activeKind(st.Screen)
	list := listFor(st, kind)

	lines := []string{m.tabsView(st.Screen)}

	if len(list) == 0 {
		lines = append(lines, m.styles.empty.Render("Nothing here yet."))
	}

	for i, entry := range list {
		lines = append(lines, m.entryLine(st, kind, entry, i == m.cursor[kind]))
	}

	switch {
	case m.confirmID != "":
		lines = append(lines, m.styles.confirm.Render("Delete this entry? (y/n)"))
	case m.mode == inputNew:
		lines = append(lines, m.styles.label.Render("New entry:"), m.entry.View())
	case m.mode == inputEdit:
		lines = append(lines, m.styles.label.Render("Edit entry:"), m.entry.View())
	default:
		hint := "tab: switch list · n: new · e: edit · d: delete · r: refresh · ctrl+l: logout · q: quit"
		if kind == domain.ListShortcuts {
			hint = "p: promote to record · " + hint
		}
		lines = append(lines, m.styles.hint.Render(hint))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) tabsView(screen application.Screen) string {
	records := m.styles.tabIdle.Render("Records")
	shortcuts := m.styles.tabIdle.Render("Shortcuts")
	if screen == application.ScreenShortcuts {
		shortcuts = m.styles.tabActive.Render("Shortcuts")
	} else {
		records = m.styles.tabActive.Render("Records")
	}
	return records + "  " + shortcuts
}

func (m Model) entryLine(st application.State, kind domain.ListKind, entry domain.Entry, current bool) string {
	marker := "  "
	style := m.styles.entry
	if current {
		marker = "> "
		style = m.styles.selected
	}

	text := entry.Text
	if st.Edit.Active() && st.Edit.Kind == kind && st.Edit.ID == entry.ID {
		text = text + " (editing)"
	}

	line := marker + style.Render(strings.ReplaceAll(text, "\n", " "))
	if !entry.CreatedAt.IsZero() {
		line += "  " + m.styles.timestamp.Render(entry.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return line
}
