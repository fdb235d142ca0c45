package tui

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/lendtrack/internal/client"
	"github.com/jask/lendtrack/internal/domain"
)

type fakeLender struct {
	friends []domain.Friend
	items   []domain.Item
	nextID  int64

	listErr  error
	itemsErr error
	giveErr  error
	takeErr  error
	addErr   error

	listCalls int
}

func (f *fakeLender) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeLender) ListFriends(ctx context.Context) ([]domain.Friend, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Friend(nil), f.friends...), nil
}

func (f *fakeLender) AddFriend(ctx context.Context, name string) (domain.Friend, error) {
	if f.addErr != nil {
		return domain.Friend{}, f.addErr
	}
	fr := domain.Friend{ID: f.id(), Name: name}
	f.friends = append(f.friends, fr)
	return fr, nil
}

func (f *fakeLender) RemoveFriend(ctx context.Context, id int64) error { return nil }

func (f *fakeLender) ItemsFor(ctx context.Context, friendID int64) ([]domain.Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	var out []domain.Item
	for _, it := range f.items {
		if it.FriendID == friendID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeLender) Give(ctx context.Context, friendID int64, name string) (domain.Item, error) {
	if f.giveErr != nil {
		return domain.Item{}, f.giveErr
	}
	it := domain.Item{ID: f.id(), Name: name, FriendID: friendID, LentAt: time.Now()}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeLender) TakeBack(ctx context.Context, itemID int64) error {
	if f.takeErr != nil {
		return f.takeErr
	}
	for i, it := range f.items {
		if it.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

// collect runs cmd and returns the messages it produced. Commands that do
// not answer promptly (toast timers, cursor blink) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func drain(a *App, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		_, next := a.Update(msg)
		drain(a, next)
	}
}

func press(a *App, keys ...tea.KeyMsg) {
	for _, k := range keys {
		_, cmd := a.Update(k)
		drain(a, cmd)
	}
}

func typeText(a *App, s string) {
	press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyGive  = tea.KeyMsg{Type: tea.KeyCtrlG}
	keyTake  = tea.KeyMsg{Type: tea.KeyCtrlT}
	keyNew   = tea.KeyMsg{Type: tea.KeyCtrlN}
)

func newApp(t *testing.T, l *fakeLender, opts Options) *App {
	t.Helper()
	opts.ToastDuration = time.Hour
	a := New(context.Background(), l, opts)
	drain(a, a.Init())
	return a
}

func lastToast(t *testing.T, a *App) toast {
	t.Helper()
	require.NotEmpty(t, a.toasts)
	return a.toasts[len(a.toasts)-1]
}

func TestStartsOnNewFriendWithoutLoading(t *testing.T) {
	l := &fakeLender{}
	a := newApp(t, l, Options{})
	require.Equal(t, panelNewFriend, a.panel)
	require.Equal(t, focusInput, a.focus)
	require.Zero(t, l.listCalls)
	require.Contains(t, a.View(), "Add a new friend")
}

func TestNewFriend(t *testing.T) {
	l := &fakeLender{}
	a := newApp(t, l, Options{})

	press(a, keySave)
	require.Equal(t, result{text: "Please enter a friend name."}, a.results[panelNewFriend])

	typeText(a, "  Kim ")
	press(a, keyEnter)
	require.Equal(t, result{text: "Successfully added Kim as a friend.", ok: true}, a.results[panelNewFriend])
	require.Equal(t, toast{id: 1, kind: toastSuccess, text: "Successfully added Kim as a friend."}, lastToast(t, a))
	require.Empty(t, a.friendInput.Value())
	require.Len(t, l.friends, 1)
	require.Equal(t, 1, l.listCalls)
	require.Len(t, a.friends, 1)
	require.Contains(t, a.View(), "Successfully added Kim as a friend.")
}

func TestNewFriendFailure(t *testing.T) {
	l := &fakeLender{addErr: errors.New("boom")}
	a := newApp(t, l, Options{})

	typeText(a, "Kim")
	press(a, keyEnter)
	require.Equal(t, result{text: "An error occurred. Please try again."}, a.results[panelNewFriend])
	require.Equal(t, toastError, lastToast(t, a).kind)
	require.Equal(t, "Failed to add friend. Please try again.", lastToast(t, a).text)
	require.Equal(t, "Kim", a.friendInput.Value())
}

func TestGive(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Kim"}}, nextID: 10}
	a := newApp(t, l, Options{})

	press(a, keyGive)
	require.Equal(t, panelGive, a.panel)
	require.Equal(t, 1, l.listCalls)
	require.Len(t, a.friends, 2)

	press(a, keySave)
	require.Equal(t, "Please select a friend.", a.results[panelGive].text)

	press(a, keyDown, keyEnter)
	require.NotNil(t, a.selectedFriend)
	require.Equal(t, "Kim", a.selectedFriend.Name)
	require.Equal(t, "Selected Kim to receive an item", lastToast(t, a).text)
	require.Equal(t, toastInfo, lastToast(t, a).kind)
	require.Equal(t, focusInput, a.focus)

	press(a, keySave)
	require.Equal(t, "Please enter an item name.", a.results[panelGive].text)

	typeText(a, " hammer ")
	press(a, keyEnter)
	require.Equal(t, result{text: "Successfully lent hammer to Kim.", ok: true}, a.results[panelGive])
	require.Equal(t, toastSuccess, lastToast(t, a).kind)
	require.Nil(t, a.selectedFriend)
	require.Empty(t, a.itemInput.Value())
	require.Len(t, l.items, 1)
	require.Equal(t, int64(2), l.items[0].FriendID)
}

func TestGiveFailureShowsServerMessage(t *testing.T) {
	l := &fakeLender{
		friends: []domain.Friend{{ID: 1, Name: "Kim"}},
		giveErr: &client.APIError{Status: http.StatusBadRequest, Message: "Friend does not exist"},
	}
	a := newApp(t, l, Options{})

	press(a, keyGive, keyEnter)
	typeText(a, "hammer")
	press(a, keyEnter)
	require.Equal(t, result{text: "Failed to add item: Friend does not exist"}, a.results[panelGive])
	require.Equal(t, "Failed to add item: Friend does not exist", lastToast(t, a).text)
	require.NotNil(t, a.selectedFriend)

	l.giveErr = errors.New("connection refused")
	press(a, keyEnter)
	require.Equal(t, "Failed to add item", a.results[panelGive].text)

	l.giveErr = domain.ErrFriendNotFound
	press(a, keyEnter)
	require.Equal(t, "Failed to add item: Friend does not exist", a.results[panelGive].text)
}

func TestTakeBack(t *testing.T) {
	l := &fakeLender{
		friends: []domain.Friend{{ID: 1, Name: "Kim"}},
		items: []domain.Item{
			{ID: 5, Name: "hammer", FriendID: 1},
			{ID: 6, Name: "saw", FriendID: 1},
		},
	}
	a := newApp(t, l, Options{})

	press(a, keyTake)
	press(a, keySave)
	require.Equal(t, "Please select a friend.", a.results[panelTakeBack].text)

	press(a, keyEnter)
	require.Equal(t, "Looking at items borrowed by Kim", a.toasts[0].text)
	require.Len(t, a.items, 2)
	require.Equal(t, focusItems, a.focus)

	press(a, keySave)
	require.Equal(t, "Please select an item.", a.results[panelTakeBack].text)

	press(a, keyEnter)
	require.Equal(t, `Selected "hammer" to take back`, lastToast(t, a).text)

	press(a, keySave)
	require.Equal(t, result{text: "Successfully took back hammer from Kim.", ok: true}, a.results[panelTakeBack])
	require.Nil(t, a.selectedItem)
	require.NotNil(t, a.selectedFriend)
	require.Len(t, a.items, 1)
	require.Equal(t, "saw", a.items[0].Name)
}

func TestTakeBackFailures(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Kim"}}}
	a := newApp(t, l, Options{})

	press(a, keyTake, keyEnter)
	require.Contains(t, a.View(), "No items found for this friend.")

	l.items = []domain.Item{{ID: 5, Name: "hammer", FriendID: 1}}
	l.takeErr = errors.New("gone")
	press(a, keyTake, keyEnter, keyEnter, keySave)
	require.Equal(t, result{text: "An error occurred. Please try again."}, a.results[panelTakeBack])
	require.Equal(t, "Failed to take back the item. Please try again.", lastToast(t, a).text)

	l.itemsErr = errors.New("gone")
	press(a, keyTake, keyEnter)
	require.Equal(t, "Failed to load items from this friend.", lastToast(t, a).text)
	require.Empty(t, a.items)
}

func TestFriendLoadFailure(t *testing.T) {
	l := &fakeLender{listErr: errors.New("down")}
	a := newApp(t, l, Options{})

	press(a, keyGive)
	require.Equal(t, toast{id: 1, kind: toastError, text: "Failed to load your friends. Please try again."}, lastToast(t, a))
	require.Contains(t, a.View(), "No friends found. Add a friend first.")
}

func TestSwitchingPanelsResetsState(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Kim"}}}
	var visited []string
	a := newApp(t, l, Options{OnPanelChange: func(name string) { visited = append(visited, name) }})

	press(a, keyGive, keyEnter)
	typeText(a, "hammer")
	require.NotNil(t, a.selectedFriend)

	press(a, keyNew)
	require.Nil(t, a.selectedFriend)
	require.Empty(t, a.itemInput.Value())
	require.Empty(t, a.results)
	require.Equal(t, 1, l.listCalls)

	press(a, keyTake)
	require.Equal(t, 2, l.listCalls)
	require.Equal(t, []string{"newfriend", "give", "newfriend", "takeback"}, visited)

	// letter shortcuts only apply outside text inputs
	press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.Equal(t, panelGive, a.panel)
	press(a, keyNew)
	typeText(a, "g")
	require.Equal(t, panelNewFriend, a.panel)
	require.Equal(t, "g", a.friendInput.Value())
}

func TestStartPanelAndToastExpiry(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Kim"}}}
	a := newApp(t, l, Options{StartPanel: "takeback"})
	require.Equal(t, panelTakeBack, a.panel)
	require.Equal(t, 1, l.listCalls)

	press(a, keyEnter)
	require.Len(t, a.toasts, 1)
	a.Update(toastExpiredMsg(a.toasts[0].id))
	require.Empty(t, a.toasts)
}

func TestParsePanel(t *testing.T) {
	name, ok := ParsePanel(" Give ")
	require.True(t, ok)
	require.Equal(t, "give", name)
	_, ok = ParsePanel("settings")
	require.False(t, ok)
}

func TestLateGiveResultKeepsOtherPanel(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Kim"}}}
	a := newApp(t, l, Options{})

	press(a, keyGive, keyEnter)
	typeText(a, "hammer")
	_, pending := a.Update(keyEnter)

	press(a, keyNew)
	typeText(a, "Zo")
	drain(a, pending)

	require.Equal(t, panelNewFriend, a.panel)
	require.Equal(t, focusInput, a.focus)
	require.Equal(t, "Zo", a.friendInput.Value())
	require.Empty(t, a.results)
	require.Equal(t, toast{id: 2, kind: toastSuccess, text: "Successfully lent hammer to Kim."}, lastToast(t, a))
	require.Len(t, l.items, 1)

	typeText(a, "e")
	require.Equal(t, "Zoe", a.friendInput.Value())
}

func TestLateFriendAddedKeepsGiveSelection(t *testing.T) {
	l := &fakeLender{friends: []domain.Friend{{ID: 1, Name: "Kim"}}, nextID: 10}
	a := newApp(t, l, Options{})

	typeText(a, "Zoe")
	_, pending := a.Update(keyEnter)

	press(a, keyGive, keyEnter)
	typeText(a, "saw")
	drain(a, pending)

	require.Equal(t, panelGive, a.panel)
	require.Equal(t, focusInput, a.focus)
	require.NotNil(t, a.selectedFriend)
	require.Equal(t, "Kim", a.selectedFriend.Name)
	require.Equal(t, "saw", a.itemInput.Value())
	require.Len(t, a.friends, 2)
	require.Equal(t, "Successfully added Zoe as a friend.", lastToast(t, a).text)
}

func TestWindowSizeFitsInputs(t *testing.T) {
	a := newApp(t, &fakeLender{}, Options{})

	a.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	require.Equal(t, 50-panelChrome-labelWidth-1, a.itemInput.Width)
	require.Equal(t, a.itemInput.Width, a.friendInput.Width)

	a.Update(tea.WindowSizeMsg{Width: 200, Height: 20})
	require.Equal(t, maxInputWidth, a.friendInput.Width)

	a.Update(tea.WindowSizeMsg{Width: 12, Height: 20})
	require.Equal(t, minInputWidth, a.friendInput.Width)
}
