package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/intellibrowse/internal/auth"
	"github.com/diogo/intellibrowse/internal/chat"
	"github.com/diogo/intellibrowse/internal/config"
	"github.com/diogo/intellibrowse/internal/models"
	"github.com/diogo/intellibrowse/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	verifiedMsg struct {
		outcome auth.Outcome
	}
	historyMsg struct {
		turns []models.ChatTurn
		err   error
	}
	chatResponseMsg struct {
		message  string
		response string
	}
	chatErrMsg struct {
		message string
		err     error
	}
	copiedMsg struct {
		err error
	}
)

// HistoryFetcher loads the server-side transcript
type HistoryFetcher interface {
	GetChats(ctx context.Context) ([]models.ChatTurn, error)
}

// ChatOptions wires the chat page to its collaborators
type ChatOptions struct {
	Guard   *auth.Guard
	History HistoryFetcher
	Sender  chat.Sender
	Config  config.Config
	// Username is shown in the header when known
	Username string
	Logger   *slog.Logger
	// Context bounds every request the page issues
	Context context.Context
	// Copy writes text to the system clipboard; defaults to atotto/clipboard
	Copy func(text string) error
}

// scrollState is shared between the model and the loop's scroll hook
type scrollState struct {
	pending bool
	index   int
}

// Model is the chat page. Protected content stays hidden until the
// session check resolves; a failed check ends the program with a redirect.
type Model struct {
	guard   *auth.Guard
	history HistoryFetcher
	loop    *chat.Loop
	cfg     config.Config
	opts    render.Options
	user    string
	logger  *slog.Logger
	ctx     context.Context
	copy    func(string) error
	scroll  *scrollState

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Loading gate
	gate           auth.Gate
	pendingHistory *historyMsg

	// Navigation
	nav          []NavItem
	navCursor    int
	navFocused   bool
	showSettings bool

	// State
	loading        bool
	ready          bool
	err            error
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(o ChatOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask IntelliBrowse anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	policy, err := chat.ParseFailurePolicy(o.Config.SendFailurePolicy)
	if err != nil {
		policy = chat.FailureRetain
	}

	scroll := &scrollState{}
	loop := chat.NewLoop(o.Sender,
		chat.WithFailurePolicy(policy),
		chat.WithScrollHook(func(i int) {
			scroll.pending = true
			scroll.index = i
		}),
	)

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	copyFn := o.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return Model{
		guard:    o.Guard,
		history:  o.History,
		loop:     loop,
		cfg:      o.Config,
		opts:     render.OptionsFromConfig(o.Config),
		user:     o.Username,
		logger:   logger,
		ctx:      ctx,
		copy:     copyFn,
		scroll:   scroll,
		textarea: ta,
		spinner:  s,
		nav:      DefaultNav(),
	}
}

// Init issues the session check and the history fetch together
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.verify(),
		m.fetchHistory(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func (m Model) verify() tea.Cmd {
	return func() tea.Msg {
		return verifiedMsg{outcome: m.guard.Check(m.ctx)}
	}
}

func (m Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		turns, err := m.history.GetChats(m.ctx)
		return historyMsg{turns: turns, err: err}
	}
}

func (m Model) sendMessage(message string) tea.Cmd {
	return func() tea.Msg {
		response, err := m.loop.Send(m.ctx, message)
		if err != nil {
			return chatErrMsg{message: message, err: err}
		}
		return chatResponseMsg{message: message, response: response}
	}
}

func (m Model) copyText(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: m.copy(text)}
	}
}

// Redirect reports the outcome that closed the page, if any
func (m Model) Redirect() (auth.Outcome, bool) {
	if m.gate.Status() != auth.GateClosed {
		return auth.Outcome{}, false
	}
	return m.gate.Outcome(), true
}

// Turns returns the transcript on screen
func (m Model) Turns() []models.ChatTurn {
	return m.loop.Turns()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.loop.Close()
	return m, tea.Quit
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.updateViewport()

	case verifiedMsg:
		m.gate.Resolve(msg.outcome)
		if !m.gate.Open() {
			m.logger.Info("chat page redirect", "to", msg.outcome.Redirect, "reason", msg.outcome.Reason)
			m.pendingHistory = nil
			return m.quit()
		}
		if m.pendingHistory != nil {
			m.applyHistory(*m.pendingHistory)
			m.pendingHistory = nil
		}

	case historyMsg:
		switch m.gate.Status() {
		case auth.GatePending:
			m.pendingHistory = &msg
		case auth.GateOpen:
			m.applyHistory(msg)
		}

	case chatResponseMsg:
		m.loading = false
		if m.loop.Complete(msg.message, msg.response) {
			m.textarea.SetValue(m.loop.Input())
			m.err = nil
			m.updateViewport()
			if m.cfg.CopyToClipboard {
				cmds = append(cmds, m.copyText(render.ToMarkdown(msg.response, render.HTMLStrip)))
			}
		}

	case chatErrMsg:
		m.loading = false
		m.err = m.loop.Fail(msg.message, msg.err)
		m.textarea.SetValue(m.loop.Input())
		m.logger.Warn("chat send failed", "error", msg.err)

	case copiedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("copy to clipboard: %w", msg.err)
		} else {
			m.notice = "Copied last response to clipboard"
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "esc":
			switch {
			case m.navFocused:
				m.navFocused = false
				m.textarea.Focus()
			case m.showSettings:
				m.showSettings = false
			default:
				return m.quit()
			}
			return m, nil
		}

		if !m.gate.Open() {
			return m, nil
		}

		if msg.String() == "tab" {
			m.navFocused = !m.navFocused
			if m.navFocused {
				m.textarea.Blur()
			} else {
				m.textarea.Focus()
			}
			return m, nil
		}

		if m.navFocused {
			return m.updateNav(msg)
		}

		if msg.String() == "enter" {
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to the textarea to prevent escape sequence leaks
	if !m.loading && m.gate.Open() && !m.navFocused {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles enter in the input
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	m.notice = ""

	switch input {
	case "exit", "quit", "/exit", "/quit":
		return m.quit()
	case "/copy":
		m.textarea.Reset()
		last, ok := m.loop.Last()
		if !ok {
			m.notice = "Nothing to copy yet"
			return m, nil
		}
		return m, m.copyText(render.ToMarkdown(last.Response, render.HTMLStrip))
	}
	if id, ok := navCommand(input); ok {
		m.textarea.Reset()
		return m.selectNav(id)
	}

	m.loop.SetInput(input)
	message, err := m.loop.Begin()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.loading = true
	m.err = nil
	m.animationFrame = 0
	return m, tea.Batch(
		m.sendMessage(message),
		m.spinner.Tick,
		animationTick(),
	)
}

func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.navCursor--
		if m.navCursor < 0 {
			m.navCursor = len(m.nav) - 1
		}
	case "down", "j":
		m.navCursor++
		if m.navCursor >= len(m.nav) {
			m.navCursor = 0
		}
	case "enter":
		m.navFocused = false
		m.textarea.Focus()
		return m.selectNav(m.nav[m.navCursor].ID)
	}
	return m, nil
}

// selectNav runs a navigation entry
func (m Model) selectNav(id NavID) (tea.Model, tea.Cmd) {
	switch id {
	case NavNew:
		m.showSettings = false
		m.loop.Reset()
		m.textarea.Reset()
		m.err = nil
		m.updateViewport()
	case NavPrevious:
		m.showSettings = false
		m.notice = "Loading previous chats..."
		return m, m.fetchHistory()
	case NavSettings:
		m.showSettings = !m.showSettings
	}
	return m, nil
}

func (m *Model) applyHistory(msg historyMsg) {
	if msg.err != nil {
		m.err = fmt.Errorf("load chat history: %w", msg.err)
		m.logger.Warn("history fetch failed", "error", msg.err)
		return
	}
	m.notice = ""
	if m.loop.LoadHistory(msg.turns) {
		m.updateViewport()
	}
}

func (m *Model) resize() {
	headerHeight := 4
	inputHeight := 6
	statusHeight := 1
	padding := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - m.navWidth() - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
}

func (m Model) navWidth() int {
	return lipgloss.Width(m.renderNav())
}

// View renders the TUI. Nothing is shown until the session check passes.
func (m Model) View() string {
	return m.gate.Render(m.renderPage)
}

func (m Model) renderPage() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.viewport.Width

	headerParts := []string{titleStyle.Render("✦ IntelliBrowse")}
	if m.user != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.user),
		)
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	var body string
	switch {
	case m.showSettings:
		body = m.renderSettings()
	case m.loop.Len() == 0:
		body = m.renderWelcome()
	default:
		body = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(body))

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderNav(), main)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to IntelliBrowse"),
		"",
		welcomeStyle.Width(width).Render("Ask a question below to start browsing"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderSettings() string {
	rows := []struct {
		key   string
		value string
	}{
		{"base_url", m.cfg.BaseURL},
		{"html_policy", string(m.opts.HTML)},
		{"send_failure_policy", string(m.loop.Policy())},
		{"timeout_seconds", timeoutLabel(m.cfg.TimeoutSeconds)},
		{"copy_to_clipboard", fmt.Sprintf("%t", m.cfg.CopyToClipboard)},
		{"tui_theme", m.cfg.TUITheme},
		{"markdown.style", m.opts.Style},
		{"verbose", fmt.Sprintf("%t", m.cfg.Verbose)},
	}

	var sb strings.Builder
	sb.WriteString(settingsTitleStyle.Render("⚙ Settings"))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(settingsKeyStyle.Render(r.key))
		sb.WriteString(settingsValueStyle.Render(r.value))
		sb.WriteString("\n")
	}
	if path, err := config.GetConfigPath(); err == nil {
		sb.WriteString("\n")
		sb.WriteString(settingsPathStyle.Render("Edit with 'intellibrowse config set' or " + path))
	}
	return sb.String()
}

func timeoutLabel(seconds int) string {
	if seconds <= 0 {
		return "transport default"
	}
	return fmt.Sprintf("%ds", seconds)
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" IntelliBrowse is browsing ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Menu"},
		{"/copy", "Copy"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled turns and
// follows the newest turn after a transcript change
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := m.opts.WithWidth(bubbleWidth - 4)

	for i, turn := range m.loop.Turns() {
		if i > 0 {
			content.WriteString("\n")
		}

		label := userLabelStyle.Render("⬤ You")
		bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Request)
		content.WriteString(label + "\n" + bubble + "\n")

		rendered, err := render.Response(turn.Response, opts)
		if err != nil {
			rendered = render.ToMarkdown(turn.Response, render.HTMLStrip)
		}
		rendered = strings.TrimRight(rendered, "\n")

		content.WriteString(assistantLabelStyle.Render("✦ IntelliBrowse") + "\n")
		content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	if m.scroll.pending {
		m.viewport.GotoBottom()
		m.scroll.pending = false
	}
}

// Result describes how the chat page ended
type Result struct {
	// Redirected is set when the session check failed
	Redirected bool
	Outcome    auth.Outcome
}

// RunChat starts the chat TUI
func RunChat(o ChatOptions) (Result, error) {
	p := tea.NewProgram(
		NewChatModel(o),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	if fm, ok := final.(Model); ok {
		if outcome, redirected := fm.Redirect(); redirected {
			return Result{Redirected: true, Outcome: outcome}, nil
		}
	}
	return Result{}, nil
}
