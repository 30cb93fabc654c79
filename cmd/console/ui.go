package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/village-engine/pkg/state"
	"github.com/jwebster45206/village-engine/pkg/store"
)

const PlaceHolderText = "Type a command (/help for the list)..."

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *state.GameState
	catalog      map[string]state.ItemStack
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	logLines     []logLine
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

// logLine is one event log entry, kept unwrapped so the log can be
// reflowed when the window resizes.
type logLine struct {
	prefix string
	text   string
	style  lipgloss.Style
}

type stateMsg struct {
	gameState *state.GameState
	err       error
}

type intentQueuedMsg struct {
	requestID string
	err       error
}

type refreshMsg struct{}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *state.GameState, catalog map[string]state.ItemStack) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := ConsoleUI{
		config:       cfg,
		client:       client,
		gameState:    gs,
		catalog:      catalog,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
		ready:        false,
	}
	ui.appendEvent("A new day begins in the village. Type /help to see what you can do.")
	return ui
}

func (m *ConsoleUI) appendLine(prefix, text string, style lipgloss.Style) {
	m.logLines = append(m.logLines, logLine{prefix: prefix, text: text, style: style})
}

func (m *ConsoleUI) appendEvent(text string) {
	m.appendLine("", text, eventStyle)
}

func (m *ConsoleUI) appendError(err error) {
	m.appendLine("", "Error: "+err.Error(), errorStyle)
}

// writeLogContent rebuilds the event log for the current viewport width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("VILLAGE ENGINE") + "\n\n")
	content.WriteString("Guide your village through the days ahead.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth-6)) + "\n\n")

	for _, line := range m.logLines {
		wrapped := wordwrap.String(line.text, logWidth-len(line.prefix))
		if line.prefix != "" {
			content.WriteString(speakerStyle.Render(line.prefix))
		}
		content.WriteString(line.style.Render(wrapped) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

// renderGauge draws a labelled ten-segment bar for a [0,100] gauge.
func renderGauge(label string, value float64) string {
	filled := int(value / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return fmt.Sprintf("%-9s %s %3.0f\n", label, bar, value)
}

func writeMetadata(gs *state.GameState, catalog map[string]state.ItemStack) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("VILLAGE") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("Day %d, %02.0f:00\n", gs.Time.Day, gs.Time.Hour))
	content.WriteString(fmt.Sprintf("%s, %s season\n\n",
		titleCaser.String(string(gs.Time.TimeOfDay)),
		titleCaser.String(string(gs.Time.Season))))

	content.WriteString("Player:\n")
	content.WriteString(renderGauge("Health", gs.Player.Health))
	content.WriteString(renderGauge("Stamina", gs.Player.Stamina))
	content.WriteString(renderGauge("Influence", gs.Player.Influence))
	content.WriteString(fmt.Sprintf("Knowledge  %d\n\n", gs.Player.KnowledgePoints))

	content.WriteString("Village:\n")
	content.WriteString(renderGauge("Happiness", gs.Village.Happiness))
	content.WriteString(renderGauge("Health", gs.Village.Health))
	content.WriteString(renderGauge("Security", gs.Village.Security))
	content.WriteString(renderGauge("Culture", gs.Village.CulturalPreservation))
	content.WriteString(fmt.Sprintf("Food       %.0f\n", gs.Village.FoodSupply))
	content.WriteString(fmt.Sprintf("People     %d\n\n", gs.Village.Population))

	if gs.Crisis.Active != nil {
		content.WriteString(errorStyle.Render("CRISIS: "+gs.Crisis.Active.Title) + "\n")
		content.WriteString(fmt.Sprintf("Phase: %s\n\n", gs.Crisis.Active.Phase))
	} else if gs.Crisis.WarningLevel > 0 {
		content.WriteString(warningStyle.Render(fmt.Sprintf("Warning level: %d", gs.Crisis.WarningLevel)) + "\n\n")
	}

	content.WriteString(fmt.Sprintf("Quests: %d active, %d done\n", len(gs.Quests.Active), len(gs.Quests.Completed)))
	for _, q := range gs.Quests.Active {
		target := 0
		if len(q.Objectives) > 0 {
			target = q.Objectives[0].Target
		}
		content.WriteString(fmt.Sprintf("• %s (%d/%d)\n", q.Title, q.Progress, target))
	}
	content.WriteString("\n")

	content.WriteString(fmt.Sprintf("Pack (%d/%d):\n", len(gs.Player.Inventory), gs.Player.MaxInventorySize))
	if len(gs.Player.Inventory) == 0 {
		content.WriteString("Empty\n")
	}
	for _, item := range gs.Player.Inventory {
		content.WriteString(fmt.Sprintf("• %s ×%d (%s)\n", item.Name, item.Quantity,
			titleCaser.String(string(item.Category))))
	}
	content.WriteString("\n")

	if n := len(gs.UI.Notifications); n > 0 {
		content.WriteString("Notices:\n")
		start := 0
		if n > 3 {
			start = n - 3
		}
		for _, note := range gs.UI.Notifications[start:] {
			style := eventStyle
			switch note.Type {
			case state.NotificationWarning:
				style = warningStyle
			case state.NotificationDanger:
				style = errorStyle
			}
			content.WriteString(style.Render("• "+note.Message) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Commands\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Pass mouse events through for scroll and selection; each
		// component ignores events outside its bounds.
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.writeLogContent()
		if m.gameState != nil {
			m.metaViewport.SetContent(writeMetadata(m.gameState, m.catalog))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			return m.handleInput(input)
		}

	case stateMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.appendError(msg.err)
		} else if msg.gameState != nil {
			m.gameState = msg.gameState
			m.metaViewport.SetContent(writeMetadata(m.gameState, m.catalog))
		}
		m.writeLogContent()
		return m, nil

	case intentQueuedMsg:
		if msg.err != nil {
			m.loading = false
			m.appendError(msg.err)
			m.writeLogContent()
			return m, nil
		}
		// The worker applies the intent asynchronously; fetch the
		// result after a short beat.
		return m, refreshAfter(400 * time.Millisecond)

	case refreshMsg:
		return m, m.refreshGameState()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// handleInput turns one line of input into an API call. Slash commands
// map to store commands and intents; plain text while a conversation is
// open becomes a spoken line.
func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	if !strings.HasPrefix(input, "/") {
		if m.gameState != nil && m.gameState.Dialogue.IsActive {
			m.appendLine("You: ", input, userStyle)
			return m.runCommand(store.CmdAddDialogueHistory,
				state.DialogueEntry{Speaker: "You", Text: input})
		}
		m.appendLine("", "Not a command. Start with / or /help for the list.", warningStyle)
		m.writeLogContent()
		return m, nil
	}

	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help":
		m.appendHelp()
		m.writeLogContent()
		return m, nil

	case "/copy":
		if err := clipboard.WriteAll(m.gameState.ID.String()); err != nil {
			m.appendError(fmt.Errorf("failed to copy session id: %w", err))
		} else {
			m.appendEvent("Session id copied to clipboard.")
		}
		m.writeLogContent()
		return m, nil

	case "/gather":
		if len(args) != 1 {
			return m.usage("/gather <wood|fruit|herbs|fish>")
		}
		item, ok := m.catalog[args[0]]
		if !ok {
			m.appendLine("", fmt.Sprintf("There is no %q to gather here.", args[0]), warningStyle)
			m.writeLogContent()
			return m, nil
		}
		m.appendLine("You: ", "gather "+item.Name, userStyle)
		item.Quantity = 1
		return m.runIntent(store.Intent{Kind: store.IntentGatherResource, Item: &item})

	case "/use":
		if len(args) != 1 {
			return m.usage("/use <item_id>")
		}
		m.appendLine("You: ", "use "+args[0], userStyle)
		return m.runCommand(store.CmdUseItem, store.UseItemArgs{ItemID: args[0]})

	case "/wait":
		hours := 1.0
		if len(args) == 1 {
			h, err := strconv.ParseFloat(args[0], 64)
			if err != nil || h <= 0 {
				return m.usage("/wait <hours>")
			}
			hours = h
		}
		m.appendLine("You: ", fmt.Sprintf("wait %.1f hours", hours), userStyle)
		return m.runIntent(store.Intent{Kind: store.IntentAdvanceTime, Hours: hours})

	case "/move":
		if len(args) != 2 {
			return m.usage("/move <x> <y>")
		}
		x, errX := strconv.ParseFloat(args[0], 64)
		y, errY := strconv.ParseFloat(args[1], 64)
		if errX != nil || errY != nil {
			return m.usage("/move <x> <y>")
		}
		m.appendLine("You: ", fmt.Sprintf("walk to %.0f, %.0f", x, y), userStyle)
		return m.runIntent(store.Intent{Kind: store.IntentMoveTo, X: &x, Y: &y})

	case "/talk":
		if len(args) != 1 {
			return m.usage("/talk <villager_id>")
		}
		m.appendLine("You: ", "talk to "+args[0], userStyle)
		return m.runCommand(store.CmdStartDialogue, store.StartDialogueArgs{VillagerID: args[0]})

	case "/bye":
		m.appendLine("You: ", "end the conversation", userStyle)
		return m.runCommand(store.CmdEndDialogue, nil)

	case "/start":
		if len(args) != 1 {
			return m.usage("/start <quest_id>")
		}
		quest, ok := m.findAvailableQuest(args[0])
		if !ok {
			m.appendLine("", fmt.Sprintf("No available quest %q.", args[0]), warningStyle)
			m.writeLogContent()
			return m, nil
		}
		m.appendLine("You: ", "take on "+quest.Title, userStyle)
		return m.runCommand(store.CmdStartQuest, quest)

	case "/progress":
		if len(args) != 2 {
			return m.usage("/progress <quest_id> <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return m.usage("/progress <quest_id> <n>")
		}
		m.appendLine("You: ", fmt.Sprintf("report progress on %s", args[0]), userStyle)
		return m.runCommand(store.CmdUpdateQuestProgress, store.QuestProgressArgs{QuestID: args[0], Progress: n})

	case "/complete":
		if len(args) != 1 {
			return m.usage("/complete <quest_id>")
		}
		m.appendLine("You: ", "turn in "+args[0], userStyle)
		return m.runCommand(store.CmdCompleteQuest, store.QuestIDArgs{QuestID: args[0]})

	case "/quests":
		m.appendQuests()
		m.writeLogContent()
		return m, nil

	case "/villagers":
		m.appendVillagers()
		m.writeLogContent()
		return m, nil

	case "/reset":
		m.appendLine("You: ", "start the village over", userStyle)
		m.loading = true
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(m.resetGame(), progressTick())

	default:
		m.appendLine("", fmt.Sprintf("Unknown command %s. Try /help.", cmd), warningStyle)
		m.writeLogContent()
		return m, nil
	}
}

func (m ConsoleUI) usage(text string) (tea.Model, tea.Cmd) {
	m.appendLine("", "Usage: "+text, warningStyle)
	m.writeLogContent()
	return m, nil
}

func (m *ConsoleUI) appendHelp() {
	help := `Commands:
/gather <wood|fruit|herbs|fish> - gather a resource (costs stamina)
/use <item_id> - eat or apply an item from your pack
/wait <hours> - let time pass
/move <x> <y> - walk somewhere in the village
/talk <villager_id> - start a conversation (plain text speaks, /bye ends)
/quests - list quests, /start, /progress, /complete to work them
/villagers - who lives here
/copy - copy the session id
/reset - start over`
	m.appendLine("", help, eventStyle)
}

func (m *ConsoleUI) appendQuests() {
	var b strings.Builder
	b.WriteString("Available:\n")
	if len(m.gameState.Quests.Available) == 0 {
		b.WriteString("  none\n")
	}
	for _, q := range m.gameState.Quests.Available {
		b.WriteString(fmt.Sprintf("  %s - %s (from %s)\n", q.ID, q.Title, q.Giver))
	}
	b.WriteString("Active:\n")
	if len(m.gameState.Quests.Active) == 0 {
		b.WriteString("  none\n")
	}
	for _, q := range m.gameState.Quests.Active {
		target := 0
		if len(q.Objectives) > 0 {
			target = q.Objectives[0].Target
		}
		b.WriteString(fmt.Sprintf("  %s - %s (%d/%d)\n", q.ID, q.Title, q.Progress, target))
	}
	b.WriteString(fmt.Sprintf("Completed: %d", len(m.gameState.Quests.Completed)))
	m.appendLine("", b.String(), eventStyle)
}

func (m *ConsoleUI) appendVillagers() {
	var b strings.Builder
	for _, v := range m.gameState.Villagers {
		b.WriteString(fmt.Sprintf("%s - %s, %s (relationship %.0f)\n", v.ID, v.Name, v.Role, v.Relationship))
	}
	if b.Len() == 0 {
		b.WriteString("The village is empty.")
	}
	m.appendLine("", strings.TrimRight(b.String(), "\n"), eventStyle)
}

func (m ConsoleUI) findAvailableQuest(id string) (state.Quest, bool) {
	for _, q := range m.gameState.Quests.Available {
		if q.ID == id {
			return q, true
		}
	}
	return state.Quest{}, false
}

// runCommand applies a store command synchronously and refreshes the
// panels from the returned snapshot.
func (m ConsoleUI) runCommand(name store.CommandName, args any) (tea.Model, tea.Cmd) {
	m.loading = true
	m.progressTick = 0
	m.writeLogContent()
	gameStateID := m.gameState.ID
	cmd := func() tea.Msg {
		gs, err := sendCommand(m.client, m.config.APIBaseURL, gameStateID, name, args)
		return stateMsg{gs, err}
	}
	return m, tea.Batch(cmd, progressTick())
}

// runIntent enqueues a scene intent; the worker applies it and the
// console polls for the result.
func (m ConsoleUI) runIntent(intent store.Intent) (tea.Model, tea.Cmd) {
	m.loading = true
	m.progressTick = 0
	m.writeLogContent()
	gameStateID := m.gameState.ID
	cmd := func() tea.Msg {
		requestID, err := sendIntent(m.client, m.config.APIBaseURL, gameStateID, intent)
		return intentQueuedMsg{requestID, err}
	}
	return m, tea.Batch(cmd, progressTick())
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		gs, err := getGameState(m.client, m.config.APIBaseURL, m.gameState.ID)
		return stateMsg{gs, err}
	}
}

func (m ConsoleUI) resetGame() tea.Cmd {
	return func() tea.Msg {
		gs, err := resetGameState(m.client, m.config.APIBaseURL, m.gameState.ID)
		return stateMsg{gs, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Village?"))
	content.WriteString("\n\n")
	content.WriteString("The village keeps going without you. Quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// refreshAfter schedules one game state refresh.
func refreshAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}
