package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/lendtrack/internal/client"
	"github.com/jask/lendtrack/internal/domain"
)

// App is the three-panel lending client: give, take back and new friend.
type App struct {
	ctx    context.Context
	lender domain.Lender
	opts   Options

	panel panel
	focus focus

	friends       []domain.Friend
	friendsLoaded bool
	friendCursor  int
	items         []domain.Item
	itemsLoaded   bool
	itemCursor    int

	selectedFriend *domain.Friend
	selectedItem   *domain.Item

	itemInput   textinput.Model
	friendInput textinput.Model

	results map[panel]result
	toasts  []toast
	toastID int

	width int
}

// Options tunes an App. Zero values are usable.
type Options struct {
	// ToastDuration is how long notifications stay on screen.
	ToastDuration time.Duration
	// StartPanel is "give", "takeback" or "newfriend". Anything else means newfriend.
	StartPanel string
	// OnPanelChange is told about every panel switch, e.g. to remember the last one.
	OnPanelChange func(name string)
}

type panel string

const (
	panelGive      panel = "give"
	panelTakeBack  panel = "takeback"
	panelNewFriend panel = "newfriend"
)

// ParsePanel reports whether name is a known panel.
func ParsePanel(name string) (string, bool) {
	switch p := panel(strings.ToLower(strings.TrimSpace(name))); p {
	case panelGive, panelTakeBack, panelNewFriend:
		return string(p), true
	}
	return "", false
}

type focus string

const (
	focusFriends focus = "friends"
	focusItems   focus = "items"
	focusInput   focus = "input"
)

type result struct {
	text string
	ok   bool
}

func New(ctx context.Context, lender domain.Lender, opts Options) *App {
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 5 * time.Second
	}

	item := textinput.New()
	item.Placeholder = "item name"
	item.CharLimit = 120
	item.Width = maxInputWidth

	friend := textinput.New()
	friend.Placeholder = "friend name"
	friend.CharLimit = 120
	friend.Width = maxInputWidth

	return &App{
		ctx:         ctx,
		lender:      lender,
		opts:        opts,
		itemInput:   item,
		friendInput: friend,
		results:     map[panel]result{},
	}
}

func (a *App) Init() tea.Cmd {
	start := panelNewFriend
	if name, ok := ParsePanel(a.opts.StartPanel); ok {
		start = panel(name)
	}
	return a.showPanel(start)
}

// showPanel makes p the only visible panel and resets every selection.
// Give and Take back need the friend list, so they (re)load it.
func (a *App) showPanel(p panel) tea.Cmd {
	a.panel = p
	a.resetSelections()
	if a.opts.OnPanelChange != nil {
		a.opts.OnPanelChange(string(p))
	}

	var cmds []tea.Cmd
	switch p {
	case panelGive, panelTakeBack:
		cmds = append(cmds, a.loadFriends())
		cmds = append(cmds, a.setFocus(focusFriends))
	default:
		cmds = append(cmds, a.setFocus(focusInput))
	}
	return tea.Batch(cmds...)
}

func (a *App) resetSelections() {
	a.selectedFriend = nil
	a.selectedItem = nil
	a.items = nil
	a.itemsLoaded = false
	a.itemCursor = 0
	a.itemInput.Reset()
	a.friendInput.Reset()
	a.hideMessages()
}

func (a *App) hideMessages() {
	clear(a.results)
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	a.itemInput.Blur()
	a.friendInput.Blur()
	if f != focusInput {
		return nil
	}
	switch a.panel {
	case panelGive:
		return a.itemInput.Focus()
	case panelNewFriend:
		return a.friendInput.Focus()
	}
	return nil
}

// cycleFocus moves between the focusable parts of the current panel.
func (a *App) cycleFocus() tea.Cmd {
	switch a.panel {
	case panelGive:
		if a.focus == focusFriends {
			return a.setFocus(focusInput)
		}
		return a.setFocus(focusFriends)
	case panelTakeBack:
		if a.focus == focusFriends && a.selectedFriend != nil {
			return a.setFocus(focusItems)
		}
		return a.setFocus(focusFriends)
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.resizeInputs()
		return a, nil
	case friendsLoadedMsg:
		a.friendsLoaded = true
		a.friends = m.friends
		if m.err != nil {
			a.friends = nil
			return a, a.notify(toastError, "Failed to load your friends. Please try again.")
		}
		a.friendCursor = clamp(a.friendCursor, len(a.friends))
		return a, nil
	case itemsLoadedMsg:
		if a.selectedFriend == nil || a.selectedFriend.ID != m.friendID {
			// stale answer for a friend no longer selected
			return a, nil
		}
		a.itemsLoaded = true
		a.items = m.items
		a.itemCursor = clamp(a.itemCursor, len(a.items))
		if m.err != nil {
			a.items = nil
			return a, a.notify(toastError, "Failed to load items from this friend.")
		}
		if len(a.items) > 0 && a.focus == focusFriends && a.panel == panelTakeBack {
			return a, a.setFocus(focusItems)
		}
		return a, nil
	case gaveMsg:
		return a, a.handleGave(m)
	case tookBackMsg:
		return a, a.handleTookBack(m)
	case friendAddedMsg:
		return a, a.handleFriendAdded(m)
	case toastExpiredMsg:
		a.dropToast(int(m))
		return a, nil
	}

	return a, a.updateInput(msg)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	typing := a.focus == focusInput
	switch m.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+g":
		return a.showPanel(panelGive)
	case "ctrl+t":
		return a.showPanel(panelTakeBack)
	case "ctrl+n":
		return a.showPanel(panelNewFriend)
	case "ctrl+s":
		return a.submit()
	case "tab", "shift+tab":
		return a.cycleFocus()
	case "esc":
		if typing && a.panel == panelGive {
			return a.setFocus(focusFriends)
		}
		return nil
	case "up":
		a.moveCursor(-1)
		return nil
	case "down":
		a.moveCursor(1)
		return nil
	case "enter":
		if typing {
			return a.submit()
		}
		return a.choose()
	}

	if !typing {
		switch m.String() {
		case "q":
			return tea.Quit
		case "g":
			return a.showPanel(panelGive)
		case "t":
			return a.showPanel(panelTakeBack)
		case "n":
			return a.showPanel(panelNewFriend)
		case "k":
			a.moveCursor(-1)
		case "j":
			a.moveCursor(1)
		case "s":
			return a.submit()
		}
		return nil
	}
	return a.updateInput(m)
}

func (a *App) updateInput(msg tea.Msg) tea.Cmd {
	if a.focus != focusInput {
		return nil
	}
	var cmd tea.Cmd
	switch a.panel {
	case panelGive:
		a.itemInput, cmd = a.itemInput.Update(msg)
	case panelNewFriend:
		a.friendInput, cmd = a.friendInput.Update(msg)
	}
	return cmd
}

// resizeInputs fits the text inputs inside the panel box next to their labels.
func (a *App) resizeInputs() {
	w := a.width - panelChrome - labelWidth - 1
	w = max(minInputWidth, min(w, maxInputWidth))
	a.itemInput.Width = w
	a.friendInput.Width = w
}

func (a *App) moveCursor(delta int) {
	switch a.focus {
	case focusFriends:
		a.friendCursor = clamp(a.friendCursor+delta, len(a.friends))
	case focusItems:
		a.itemCursor = clamp(a.itemCursor+delta, len(a.items))
	}
}

// choose selects the friend or item under the cursor.
func (a *App) choose() tea.Cmd {
	switch a.focus {
	case focusFriends:
		if len(a.friends) == 0 {
			return nil
		}
		f := a.friends[a.friendCursor]
		a.selectedFriend = &f
		if a.panel == panelTakeBack {
			a.selectedItem = nil
			a.items = nil
			a.itemsLoaded = false
			a.itemCursor = 0
			return tea.Batch(
				a.notify(toastInfo, fmt.Sprintf("Looking at items borrowed by %s", f.Name)),
				a.loadItems(f.ID),
			)
		}
		return tea.Batch(
			a.notify(toastInfo, fmt.Sprintf("Selected %s to receive an item", f.Name)),
			a.setFocus(focusInput),
		)
	case focusItems:
		if len(a.items) == 0 {
			return nil
		}
		it := a.items[a.itemCursor]
		a.selectedItem = &it
		return a.notify(toastInfo, fmt.Sprintf("Selected %q to take back", it.Name))
	}
	return nil
}

func (a *App) submit() tea.Cmd {
	a.hideMessages()
	switch a.panel {
	case panelGive:
		if a.selectedFriend == nil {
			return a.fail(panelGive, "Please select a friend.")
		}
		name := strings.TrimSpace(a.itemInput.Value())
		if name == "" {
			return a.fail(panelGive, "Please enter an item name.")
		}
		return a.giveCmd(*a.selectedFriend, name)
	case panelTakeBack:
		if a.selectedFriend == nil {
			return a.fail(panelTakeBack, "Please select a friend.")
		}
		if a.selectedItem == nil {
			return a.fail(panelTakeBack, "Please select an item.")
		}
		return a.takeBackCmd(*a.selectedFriend, *a.selectedItem)
	case panelNewFriend:
		name := strings.TrimSpace(a.friendInput.Value())
		if name == "" {
			return a.fail(panelNewFriend, "Please enter a friend name.")
		}
		return a.addFriendCmd(name)
	}
	return nil
}

func (a *App) fail(p panel, text string) tea.Cmd {
	a.results[p] = result{text: text}
	return nil
}

func (a *App) handleGave(m gaveMsg) tea.Cmd {
	if m.err != nil {
		text := "Failed to add item"
		if reason := describe(m.err); reason != "" {
			text += ": " + reason
		}
		if a.panel == panelGive {
			a.results[panelGive] = result{text: text}
		}
		return a.notify(toastError, text)
	}
	text := fmt.Sprintf("Successfully lent %s to %s.", m.item.Name, m.friend.Name)
	if a.panel != panelGive {
		return a.notify(toastSuccess, text)
	}
	a.resetSelections()
	a.results[panelGive] = result{text: text, ok: true}
	return tea.Batch(a.notify(toastSuccess, text), a.setFocus(focusFriends))
}

func (a *App) handleTookBack(m tookBackMsg) tea.Cmd {
	if m.err != nil {
		if a.panel == panelTakeBack {
			a.results[panelTakeBack] = result{text: "An error occurred. Please try again."}
		}
		return a.notify(toastError, "Failed to take back the item. Please try again.")
	}
	text := fmt.Sprintf("Successfully took back %s from %s.", m.item.Name, m.friend.Name)
	if a.panel != panelTakeBack || a.selectedFriend == nil || a.selectedFriend.ID != m.friend.ID {
		return a.notify(toastSuccess, text)
	}
	a.results[panelTakeBack] = result{text: text, ok: true}
	a.selectedItem = nil
	return tea.Batch(a.notify(toastSuccess, text), a.loadItems(m.friend.ID))
}

func (a *App) handleFriendAdded(m friendAddedMsg) tea.Cmd {
	if m.err != nil {
		if a.panel == panelNewFriend {
			a.results[panelNewFriend] = result{text: "An error occurred. Please try again."}
		}
		return a.notify(toastError, "Failed to add friend. Please try again.")
	}
	text := fmt.Sprintf("Successfully added %s as a friend.", m.friend.Name)
	if a.panel != panelNewFriend {
		return tea.Batch(a.notify(toastSuccess, text), a.loadFriends())
	}
	a.resetSelections()
	a.results[panelNewFriend] = result{text: text, ok: true}
	return tea.Batch(a.notify(toastSuccess, text), a.loadFriends())
}

// describe turns a lending error into the message the API would have sent.
func describe(err error) string {
	if msg := client.Message(err); msg != "" {
		return msg
	}
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return "Item name is required"
	case errors.Is(err, domain.ErrFriendRequired):
		return "Friend ID is required"
	case errors.Is(err, domain.ErrFriendNotFound):
		return "Friend does not exist"
	}
	return ""
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (a *App) loadFriends() tea.Cmd {
	return func() tea.Msg {
		friends, err := a.lender.ListFriends(a.ctx)
		return friendsLoadedMsg{friends: friends, err: err}
	}
}

func (a *App) loadItems(friendID int64) tea.Cmd {
	return func() tea.Msg {
		items, err := a.lender.ItemsFor(a.ctx, friendID)
		return itemsLoadedMsg{friendID: friendID, items: items, err: err}
	}
}

func (a *App) giveCmd(f domain.Friend, name string) tea.Cmd {
	return func() tea.Msg {
		it, err := a.lender.Give(a.ctx, f.ID, name)
		if err == nil && it.Name == "" {
			it.Name = name
		}
		return gaveMsg{item: it, friend: f, err: err}
	}
}

func (a *App) takeBackCmd(f domain.Friend, it domain.Item) tea.Cmd {
	return func() tea.Msg {
		err := a.lender.TakeBack(a.ctx, it.ID)
		return tookBackMsg{item: it, friend: f, err: err}
	}
}

func (a *App) addFriendCmd(name string) tea.Cmd {
	return func() tea.Msg {
		f, err := a.lender.AddFriend(a.ctx, name)
		if err == nil && f.Name == "" {
			f.Name = name
		}
		return friendAddedMsg{friend: f, err: err}
	}
}

// messages
type friendsLoadedMsg struct {
	friends []domain.Friend
	err     error
}

type itemsLoadedMsg struct {
	friendID int64
	items    []domain.Item
	err      error
}

type gaveMsg struct {
	item   domain.Item
	friend domain.Friend
	err    error
}

type tookBackMsg struct {
	item   domain.Item
	friend domain.Friend
	err    error
}

type friendAddedMsg struct {
	friend domain.Friend
	err    error
}
