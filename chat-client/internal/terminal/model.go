// Package terminal is the full-screen chat UI. It renders the views a
// service.Session publishes and turns key presses into session intents.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/chat-client/internal/presence"
	"github.com/SpaNb4/open-chat/chat-client/internal/service"
)

const (
	timeLayout  = "15:04"
	rosterWidth = 24
	// Header, typing line, input and footer.
	chromeHeight = 5
)

type focusRegion int

const (
	focusInput focusRegion = iota
	focusRoster
)

// viewMsg carries a published session view into the update loop.
type viewMsg struct{ view service.View }

// viewsClosedMsg means the session stopped publishing.
type viewsClosedMsg struct{}

type loginDoneMsg struct{ err error }

// Model is the bubbletea model for one chat session.
type Model struct {
	ctx     context.Context
	session service.Session
	views   <-chan service.View
	keys    keyMap
	styles  styles

	view  service.View
	input textinput.Model
	focus focusRegion
	// cursor indexes peers(), not the full roster.
	cursor    int
	loggingIn bool
	notice    string

	width  int
	height int
}

// New returns a model driving session. views is usually the channel from
// session.Subscribe.
func New(ctx context.Context, session service.Session, views <-chan service.View) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "username"
	input.Focus()

	return Model{
		ctx:     ctx,
		session: session,
		views:   views,
		keys:    defaultKeys(),
		styles:  defaultStyles(),
		view:    session.View(),
		input:   input,
	}
}

// Run shows the chat UI until the user quits or ctx is done.
func Run(ctx context.Context, session service.Session, opts ...tea.ProgramOption) error {
	views, cancel := session.Subscribe()
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(ctx, session, views), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForViews(model.views))
}

// listenForViews blocks until the session publishes, then delivers the
// view as a viewMsg.
func listenForViews(views <-chan service.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg{view: v}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width, model.height = message.Width, message.Height
		model.input.Width = max(message.Width-rosterWidth-len(model.input.Prompt)-2, 10)
		return model, nil

	case viewMsg:
		model.setView(message.view)
		return model, listenForViews(model.views)

	case viewsClosedMsg:
		return model, tea.Quit

	case loginDoneMsg:
		model.loggingIn = false
		model.setView(model.session.View())
		if message.err != nil {
			model.notice = "login failed: " + message.err.Error()
			return model, nil
		}
		model.notice = ""
		if model.loggedIn() {
			model.input.SetValue("")
			model.input.Placeholder = "message, or /pm <user> <text>"
		}
		return model, nil

	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		if model.focus == focusRoster {
			return model.handleRosterKeys(message)
		}
		return model.handleInputKeys(message)
	}

	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	return model, cmd
}

func (model Model) handleInputKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Submit):
		return model.submit()

	case key.Matches(message, model.keys.Roster):
		if model.loggedIn() && len(model.peers()) > 0 {
			model.focus = focusRoster
			model.input.Blur()
		}
		return model, nil
	}

	before := model.input.Value()
	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)

	// Peers see a notice for every key press, not only for edits.
	if model.loggedIn() {
		model.report(model.session.Keystroke(model.ctx))
	}
	if after := model.input.Value(); after != before {
		model.report(model.session.SetInput(model.ctx, after))
	}
	return model, cmd
}

func (model Model) handleRosterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	peers := model.peers()

	switch {
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Roster):
		cmd := model.focusInput()
		return model, cmd

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(peers)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Submit):
		if len(peers) == 0 {
			cmd := model.focusInput()
			return model, cmd
		}
		if err := model.session.StartPrivateMessageTo(model.ctx, peers[model.cursor].Username); err != nil {
			model.notice = err.Error()
			return model, nil
		}
		model.setView(model.session.View())
		model.input.SetValue(model.view.Input)
		model.input.CursorEnd()
		cmd := model.focusInput()
		return model, cmd
	}
	return model, nil
}

func (model Model) submit() (tea.Model, tea.Cmd) {
	text := model.input.Value()

	if !model.loggedIn() {
		if model.loggingIn || model.view.Session.State == domain.StateLoggingIn {
			return model, nil
		}
		model.loggingIn = true
		model.notice = ""
		return model, model.login(strings.TrimSpace(text))
	}

	if err := model.session.Send(model.ctx, text); err != nil {
		model.notice = sendNotice(err)
		return model, nil
	}
	model.notice = ""
	model.input.SetValue("")
	model.setView(model.session.View())
	return model, nil
}

// login runs off the update loop; the auth round trip can take seconds.
func (model Model) login(username string) tea.Cmd {
	ctx, session := model.ctx, model.session
	return func() tea.Msg {
		return loginDoneMsg{err: session.SubmitLogin(ctx, username)}
	}
}

func (model *Model) focusInput() tea.Cmd {
	model.focus = focusInput
	return model.input.Focus()
}

func (model *Model) setView(v service.View) {
	model.view = v
	if n := len(model.peers()); model.cursor >= n {
		model.cursor = max(n-1, 0)
	}
	if model.focus == focusRoster && len(model.peers()) == 0 {
		model.focusInput()
	}
}

func (model *Model) report(err error) {
	if err != nil {
		model.notice = err.Error()
	}
}

func (model Model) loggedIn() bool {
	return model.view.Session.State == domain.StateLoggedIn
}

func (model Model) identity() *domain.Identity {
	if !model.loggedIn() {
		return nil
	}
	return &domain.Identity{Username: model.view.Session.Username}
}

// peers are the roster entries a private message can go to.
func (model Model) peers() []domain.RosterEntry {
	self := model.identity()
	out := make([]domain.RosterEntry, 0, len(model.view.Roster))
	for _, e := range model.view.Roster {
		if !presence.IsSelf(e, self) {
			out = append(out, e)
		}
	}
	return out
}

func sendNotice(err error) string {
	if errors.Is(err, domain.ErrTransportUnavailable) {
		return "not sent, offline: " + err.Error()
	}
	return "not sent: " + err.Error()
}

// View implements tea.Model.
func (model Model) View() string {
	s := model.styles

	timelineWidth := 0
	if model.width > 0 {
		timelineWidth = max(model.width-rosterWidth-1, 20)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		s.timeline.Width(timelineWidth).Render(model.renderTimeline()),
		s.roster.Width(rosterWidth).Render(model.renderRoster()),
	)

	lines := []string{model.renderHeader(), body}
	if model.view.TypingStatus != "" {
		lines = append(lines, s.typing.Render(model.view.TypingStatus))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, model.input.View())

	switch {
	case model.notice != "":
		lines = append(lines, s.err.Render(model.notice))
	case model.view.Session.LastError != "":
		lines = append(lines, s.err.Render("login rejected: "+model.view.Session.LastError))
	default:
		lines = append(lines, s.help.Render(model.helpLine()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (model Model) renderHeader() string {
	s := model.styles
	parts := []string{s.title.Render("open-chat")}

	switch {
	case model.view.Connected:
		parts = append(parts, s.online.Render("connected"))
	case model.view.TransportError != "":
		parts = append(parts, s.offline.Render("offline: "+model.view.TransportError))
	default:
		parts = append(parts, s.offline.Render("offline"))
	}

	switch model.view.Session.State {
	case domain.StateLoggedIn:
		parts = append(parts, "logged in as "+s.self.Render(model.view.Session.Username))
	case domain.StateLoggingIn:
		parts = append(parts, "logging in as "+model.view.Session.Username+"...")
	default:
		parts = append(parts, "enter a username to join")
	}
	return strings.Join(parts, "  ")
}

// renderTimeline shows the newest entries that fit the window.
func (model Model) renderTimeline() string {
	entries := model.view.Timeline
	if model.height > 0 {
		if room := max(model.height-chromeHeight, 1); len(entries) > room {
			entries = entries[len(entries)-room:]
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, model.styleEntry(e))
	}
	return strings.Join(lines, "\n")
}

func (model Model) styleEntry(e domain.Entry) string {
	s := model.styles
	line := formatEntry(e)
	switch e.Kind {
	case domain.EntryOutgoing:
		return s.self.Render(line)
	case domain.EntrySystem:
		return s.system.Render(line)
	default:
		return line
	}
}

func (model Model) renderRoster() string {
	s := model.styles
	lines := []string{s.title.Render(fmt.Sprintf("Online (%d)", len(model.view.Roster)))}

	if self := model.identity(); self != nil {
		lines = append(lines, "  "+s.self.Render(self.Username+" (you)"))
	}
	for i, p := range model.peers() {
		if model.focus == focusRoster && i == model.cursor {
			lines = append(lines, s.selected.Render("> "+p.Username))
			continue
		}
		lines = append(lines, "  "+p.Username)
	}
	return strings.Join(lines, "\n")
}

func (model Model) helpLine() string {
	switch {
	case model.focus == focusRoster:
		return "up/down move • enter private message • esc back"
	case model.loggedIn():
		return helpFor(model.keys.Submit, model.keys.Roster, model.keys.Quit)
	default:
		return helpFor(model.keys.Submit, model.keys.Quit)
	}
}

func helpFor(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func formatEntry(e domain.Entry) string {
	ts := e.Timestamp.Format(timeLayout)
	switch e.Kind {
	case domain.EntryOutgoing:
		return fmt.Sprintf("[%s] me: %s", ts, e.Text)
	case domain.EntryIncoming:
		return fmt.Sprintf("[%s] %s: %s", ts, e.Sender, e.Text)
	default:
		return fmt.Sprintf("[%s] * %s", ts, e.Text)
	}
}
