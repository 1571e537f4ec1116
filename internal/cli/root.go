package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Journal *journal.Service
	Config  *config.Config
	// ConfigFile is where 'init' writes the starter config.
	ConfigFile string
	UserID     int64
	Now        func() time.Time
	Out        io.Writer
	In         io.Reader
}

// NewContext wires a journal service over store.
func NewContext(cfg *config.Config, configFile string, store storage.Provider, userID int64) *Context {
	return &Context{
		Store:      store,
		Journal:    journal.New(store),
		Config:     cfg,
		ConfigFile: configFile,
		UserID:     userID,
		Now:        cfg.Analytics.Now,
		Out:        os.Stdout,
		In:         os.Stdin,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

func (c *Context) today() string {
	return c.Now().Format(constants.DateFormat)
}

// resolveDate accepts YYYY-MM-DD, "today", "yesterday" or an empty string
// (today).
func (c *Context) resolveDate(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.today(), nil
	case "yesterday":
		return c.Now().AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return s, nil
}

// findHabit looks a habit up by id, unique id prefix or name.
func (c *Context) findHabit(ref string) (models.Habit, error) {
	if h, err := c.Journal.GetHabit(ref); err == nil && h.UserID == c.UserID {
		return h, nil
	}
	habits, err := c.Journal.ListHabits(c.UserID)
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", journal.ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Habit{}, fmt.Errorf("habit reference %q is ambiguous (%d matches)", ref, len(matches))
}

// findGoal looks a goal up by id or unique id prefix.
func (c *Context) findGoal(ref string) (models.Goal, error) {
	if g, err := c.Journal.GetGoal(ref); err == nil && g.UserID == c.UserID {
		return g, nil
	}
	goals, err := c.Journal.ListGoals(c.UserID)
	if err != nil {
		return models.Goal{}, err
	}
	var matches []models.Goal
	for _, g := range goals {
		if strings.HasPrefix(g.ID, ref) || strings.EqualFold(g.Title, ref) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return models.Goal{}, fmt.Errorf("%w: %s", journal.ErrGoalNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Goal{}, fmt.Errorf("goal reference %q is ambiguous (%d matches)", ref, len(matches))
}

func parseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q: %w", s, err)
	}
	if v < constants.MinRating || v > constants.MaxRating {
		return 0, fmt.Errorf("rating %v out of range %d-%d", v, constants.MinRating, constants.MaxRating)
	}
	return v, nil
}

// parseHabitRatings turns name=rating pairs into ratings keyed by habit id.
func (c *Context) parseHabitRatings(pairs []string) (map[string]float64, error) {
	ratings := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid habit rating %q (expected habit=rating)", pair)
		}
		h, err := c.findHabit(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		rating, err := parseRating(value)
		if err != nil {
			return nil, err
		}
		ratings[h.ID] = rating
	}
	return ratings, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, journal.ErrHabitNotFound) ||
		errors.Is(err, journal.ErrEntryNotFound) ||
		errors.Is(err, journal.ErrGoalNotFound) ||
		errors.Is(err, storage.ErrNotFound)
}
