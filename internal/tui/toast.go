package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind string

const (
	toastInfo    toastKind = "info"
	toastSuccess toastKind = "success"
	toastError   toastKind = "error"
)

type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg int

// notify shows a toast and schedules its removal.
func (a *App) notify(kind toastKind, text string) tea.Cmd {
	a.toastID++
	id := a.toastID
	a.toasts = append(a.toasts, toast{id: id, kind: kind, text: text})
	return tea.Tick(a.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

func (a *App) dropToast(id int) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

func (t toast) icon() string {
	switch t.kind {
	case toastError:
		return "!"
	case toastInfo:
		return "i"
	}
	return "✓"
}
