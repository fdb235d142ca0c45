package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/lendtrack/internal/domain"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lending tracker"))
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	var body string
	switch a.panel {
	case panelGive:
		body = a.renderGive()
	case panelTakeBack:
		body = a.renderTakeBack()
	default:
		body = a.renderNewFriend()
	}
	if r, ok := a.results[a.panel]; ok {
		style := errorStyle
		if r.ok {
			style = successStyle
		}
		body += "\n\n" + style.Render(r.text)
	}
	box := panelStyle
	if a.width > panelChrome {
		// Width counts padding but not the border.
		box = box.Width(a.width - 2)
	}
	b.WriteString(box.Render(body))
	b.WriteString("\n")

	for _, t := range a.toasts {
		b.WriteString(toastStyles[t.kind].Render(fmt.Sprintf("[%s] %s", t.icon(), t.text)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(a.help()))
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		p     panel
		label string
	}{
		{panelGive, "^G Give"},
		{panelTakeBack, "^T Take back"},
		{panelNewFriend, "^N New friend"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.p == a.panel {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderGive() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Give an item"))
	b.WriteString("\n\n")
	b.WriteString(a.renderFriends())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Friend") + selectedName(a.selectedFriend) + "\n")
	b.WriteString(labelStyle.Render("Item") + a.itemInput.View())
	return b.String()
}

func (a *App) renderTakeBack() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Take back an item"))
	b.WriteString("\n\n")
	b.WriteString(a.renderFriends())
	b.WriteString("\n")
	if a.selectedFriend != nil {
		b.WriteString(a.renderItems())
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Friend") + selectedName(a.selectedFriend) + "\n")
	item := ""
	if a.selectedItem != nil {
		item = a.selectedItem.Name
	}
	b.WriteString(labelStyle.Render("Item") + item)
	return b.String()
}

func (a *App) renderNewFriend() string {
	return titleStyle.Render("Add a new friend") + "\n\n" +
		labelStyle.Render("Name") + a.friendInput.View()
}

func (a *App) renderFriends() string {
	if !a.friendsLoaded {
		return dimStyle.Render("Loading friends...") + "\n"
	}
	if len(a.friends) == 0 {
		return "No friends found. Add a friend first.\n"
	}
	var b strings.Builder
	for i, f := range a.friends {
		on := a.focus == focusFriends && i == a.friendCursor
		b.WriteString(cursor(on))
		if a.selectedFriend != nil && a.selectedFriend.ID == f.ID {
			b.WriteString(selectedStyle.Render(f.Name))
		} else {
			b.WriteString(itemStyle.Render(f.Name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderItems() string {
	if !a.itemsLoaded {
		return dimStyle.Render("Loading items...") + "\n"
	}
	if len(a.items) == 0 {
		return "No items found for this friend.\n"
	}
	var b strings.Builder
	for i, it := range a.items {
		on := a.focus == focusItems && i == a.itemCursor
		b.WriteString(cursor(on))
		name := it.Name
		if a.selectedItem != nil && a.selectedItem.ID == it.ID {
			name = selectedStyle.Render(name)
		} else {
			name = itemStyle.Render(name)
		}
		b.WriteString(name)
		if !it.LentAt.IsZero() {
			b.WriteString(dimStyle.Render("  since " + it.LentAt.Local().Format("2 Jan 2006")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func selectedName(f *domain.Friend) string {
	if f == nil {
		return dimStyle.Render("none")
	}
	return f.Name
}

func (a *App) help() string {
	if a.focus == focusInput {
		return "enter submit • tab switch focus • ^G/^T/^N panels • ctrl+c quit"
	}
	return "↑/↓ move • enter select • s submit • tab switch focus • g/t/n panels • q quit"
}
