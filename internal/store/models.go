package store

import (
	"strings"
	"time"
)

// NoCategory is the label used wherever an item carries no category, and the
// category items fall back to when theirs is deleted.
const NoCategory = "Sem categoria"

// DateLayout is the calendar-date format used for every date column.
const DateLayout = "2006-01-02"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a one-off unit of work scheduled on Date.
type Task struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time,omitempty"`
	TimeEstimate *int      `json:"time_estimate,omitempty"` // minutes
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryName returns the task category, or NoCategory when unset.
func (t Task) CategoryName() string {
	return categoryOrDefault(t.Category)
}

// RecurringTask repeats daily while Active.
type RecurringTask struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r RecurringTask) CategoryName() string {
	return categoryOrDefault(r.Category)
}

// RecurringTaskEntry is one day's completion record for a RecurringTask.
// Category and Title are copied from the parent when the entry is written.
type RecurringTaskEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RecurringTaskID string    `json:"recurring_task_id"`
	Details         string    `json:"details,omitempty"`
	Date            string    `json:"date"`
	Completed       bool      `json:"completed"`
	Category        string    `json:"category,omitempty"`
	Title           string    `json:"title,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (e RecurringTaskEntry) CategoryName() string {
	return categoryOrDefault(e.Category)
}

type Achievement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a Achievement) CategoryName() string {
	return categoryOrDefault(a.Category)
}

// Thought is a free-form journal note. Content is markdown.
type Thought struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Setting struct {
	Key   string
	Value string
}

func categoryOrDefault(c string) string {
	if strings.TrimSpace(c) == "" {
		return NoCategory
	}
	return c
}
