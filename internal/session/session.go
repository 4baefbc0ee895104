// Package session is the in-memory state container for the single user of
// the process: profile, activity log, active screen and the open memory game.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/bloom-backend/internal/domain/journal"
	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
	"github.com/yungbote/bloom-backend/internal/relax"
)

type Screen string

const (
	ScreenDashboard  Screen = "dashboard"
	ScreenVisualizer Screen = "visualizer"
	ScreenStory      Screen = "story"
	ScreenGames      Screen = "games"
	ScreenLog        Screen = "log"
	ScreenCalendar   Screen = "calendar"
	ScreenSettings   Screen = "settings"
)

func Screens() []Screen {
	return []Screen{ScreenDashboard, ScreenVisualizer, ScreenStory, ScreenGames, ScreenLog, ScreenCalendar, ScreenSettings}
}

func ParseScreen(raw string) (Screen, error) {
	s := Screen(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Screens() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown screen %q", raw)
}

// Profile is a read view; CurrentWeek and the fields after it are derived
// from DueDate on every read.
type Profile struct {
	Name        string  `json:"name"`
	DueDate     string  `json:"due_date"`
	CurrentWeek int     `json:"current_week"`
	Progress    float64 `json:"progress"`
	WeeksToGo   int     `json:"weeks_to_go"`
	Trimester   int     `json:"trimester"`
	Countdown   string  `json:"countdown"`
}

// ProfileInput is the settings form.
type ProfileInput struct {
	Name    string `json:"name" validate:"required,max=80"`
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type Store struct {
	mu      sync.RWMutex
	name    string
	dueDate time.Time
	logs    []journal.Entry
	screen  Screen
	memory  *relax.Memory

	clk     clock.Clock
	rnd     *randx.Source
	log     *logger.Logger
	metrics *observability.Metrics
}

type Option func(*Store)

func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithClock(clk clock.Clock) Option {
	return func(s *Store) {
		if clk != nil {
			s.clk = clk
		}
	}
}

func WithRandom(src *randx.Source) Option {
	return func(s *Store) {
		if src != nil {
			s.rnd = src
		}
	}
}

// WithEntries seeds the log. entries must already be newest first.
func WithEntries(entries []journal.Entry) Option {
	return func(s *Store) {
		s.logs = append([]journal.Entry(nil), entries...)
	}
}

func New(name string, dueDate time.Time, opts ...Option) *Store {
	s := &Store{
		name:    name,
		dueDate: pregnancy.CalendarDay(dueDate),
		screen:  ScreenDashboard,
		clk:     clock.New(),
		rnd:     randx.New(0),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("service", "SessionStore")
	s.memory = relax.NewMemory(s.rnd, s.clk)
	return s
}

// Today is the injected clock's current calendar day.
func (s *Store) Today() time.Time {
	return pregnancy.CalendarDay(s.clk.Now())
}

func (s *Store) Profile() Profile {
	s.mu.RLock()
	name, due := s.name, s.dueDate
	s.mu.RUnlock()

	week := pregnancy.ComputeWeek(due, s.Today())
	return Profile{
		Name:        name,
		DueDate:     due.Format(pregnancy.DateLayout),
		CurrentWeek: week,
		Progress:    pregnancy.Progress(week),
		WeeksToGo:   pregnancy.WeeksToGo(week),
		Trimester:   pregnancy.Trimester(week),
		Countdown:   pregnancy.Countdown(week),
	}
}

// CurrentWeek is shorthand for Profile().CurrentWeek.
func (s *Store) CurrentWeek() int {
	return s.Profile().CurrentWeek
}

// UpdateProfile replaces name and due date. The activity log is kept.
func (s *Store) UpdateProfile(in ProfileInput) (Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := journal.Validate(in); err != nil {
		return Profile{}, err
	}
	due, err := pregnancy.ParseDueDate(in.DueDate)
	if err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	s.name = in.Name
	s.dueDate = due
	s.mu.Unlock()

	p := s.Profile()
	s.log.Info("profile updated", "name", p.Name, "due_date", p.DueDate, "week", p.CurrentWeek)
	return p, nil
}

// AppendLog validates in and prepends it with a fresh id and timestamp.
func (s *Store) AppendLog(in journal.EntryInput) (journal.Entry, error) {
	if err := journal.ValidateInput(in); err != nil {
		return journal.Entry{}, err
	}
	e := journal.Entry{
		ID:          uuid.NewString(),
		CreatedAt:   s.clk.Now(),
		WaterIntake: in.WaterIntake,
		SleepHours:  in.SleepHours,
		Mood:        in.Mood,
		Notes:       in.Notes,
	}

	s.mu.Lock()
	s.logs = append([]journal.Entry{e}, s.logs...)
	n := len(s.logs)
	s.mu.Unlock()

	s.metrics.IncLogEntry()
	s.log.Debug("log entry appended", "entry_id", e.ID, "mood", string(e.Mood), "notes", e.Notes, "total", n)
	return e, nil
}

// Logs returns a copy, newest first.
func (s *Store) Logs() []journal.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]journal.Entry(nil), s.logs...)
}

func (s *Store) Summary() journal.Summary {
	return journal.Summarize(s.Logs())
}

func (s *Store) Calendar(month time.Time) journal.Calendar {
	return journal.BuildCalendar(month, s.Logs())
}

func (s *Store) Screen() Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen
}

func (s *Store) SetScreen(sc Screen) {
	s.mu.Lock()
	prev := s.screen
	s.screen = sc
	s.mu.Unlock()
	if prev != sc {
		s.log.Debug("screen changed", "from", string(prev), "to", string(sc))
	}
}

// Memory is the open memory game.
func (s *Store) Memory() *relax.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memory
}

// NewMemoryGame reshuffles the open memory game and returns its board.
func (s *Store) NewMemoryGame() relax.Board {
	m := s.Memory()
	m.Reset()
	return m.Board()
}
