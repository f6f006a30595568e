package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/dayboard/internal/notify"
	"github.com/sadopc/dayboard/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTasks
	viewRecurring
	viewWeek
	viewJournal
	viewSettings
)

var viewNames = []string{"Today", "Tasks", "Recurring", "Week", "Journal", "Settings"}

// Preferences is the settings table.
type Preferences interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetAllSettings(ctx context.Context) ([]store.Setting, error)
	BoolSetting(ctx context.Context, key string, fallback bool) bool
	IntSetting(ctx context.Context, key string, fallback int) int
}

// --- Messages ---

// dataChangedMsg follows every mutation. err is already announced on the
// notification bus.
type dataChangedMsg struct {
	err error
}

type notificationMsg notify.Notification

type exportDoneMsg struct {
	path string
}

// mutate runs fn as a command and asks every view to refresh afterwards.
func mutate(ctx context.Context, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return dataChangedMsg{err: fn(ctx)}
	}
}

// waitForNotification delivers the next bus notification to the program.
func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

// --- Helpers ---

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func formatEstimate(minutes *int) string {
	if minutes == nil {
		return ""
	}
	if *minutes < 60 {
		return fmt.Sprintf("%dm", *minutes)
	}
	return fmt.Sprintf("%.1fh", float64(*minutes)/60)
}

func parseEstimate(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("minutes must be a positive number")
	}
	return &n, nil
}

func validDate(s string) error {
	if _, err := time.Parse(store.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func validEstimate(s string) error {
	_, err := parseEstimate(s)
	return err
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
