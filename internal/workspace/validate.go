package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/sadopc/dayboard/internal/config"
	"github.com/sadopc/dayboard/internal/store"
)

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

func calendarDate(s string) error {
	if _, err := time.Parse(store.DateLayout, s); err != nil {
		return fmt.Errorf("must be a YYYY-MM-DD date, got %q", s)
	}
	return nil
}

func clockTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("must be HH:MM, got %q", s)
	}
	return nil
}

func optionalColor(s string) error {
	if s == "" {
		return nil
	}
	return config.ValidColor(s)
}

func validateTask(t store.Task) error {
	var errs criterio.FieldErrorsBuilder
	if t.TimeEstimate != nil && *t.TimeEstimate < 0 {
		errs = errs.Append("time_estimate", errors.New("cannot be negative"))
	}
	return criterio.ValidateStruct(
		criterio.Run("title", t.Title, required),
		criterio.Run("date", t.Date, calendarDate),
		criterio.Run("time", t.Time, clockTime),
		errs.ToError(),
	)
}

func validateRecurring(r store.RecurringTask) error {
	return criterio.Run("title", r.Title, required)
}

func validateCategory(c store.Category) error {
	return criterio.ValidateStruct(
		criterio.Run("name", c.Name, required),
		criterio.Run("color", c.Color, optionalColor),
	)
}

func validateAchievement(a store.Achievement) error {
	return criterio.ValidateStruct(
		criterio.Run("title", a.Title, required),
		criterio.Run("date", a.Date, calendarDate),
	)
}

func validateThought(t store.Thought) error {
	return criterio.Run("content", t.Content, required)
}
