package session

import (
	"errors"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/bloom-backend/internal/domain/journal"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
)

func newStore(t *testing.T, now time.Time, opts ...Option) (*Store, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Add(now.Sub(mock.Now()))
	opts = append([]Option{WithClock(mock), WithRandom(randx.New(4))}, opts...)
	due := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	return New("Sarah", due, opts...), mock
}

func TestProfileWeekFollowsClock(t *testing.T) {
	s, mock := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))

	p := s.Profile()
	require.Equal(t, "Sarah", p.Name)
	require.Equal(t, "2026-12-24", p.DueDate)
	require.Equal(t, 30, p.CurrentWeek)
	require.Equal(t, 3, p.Trimester)
	require.Equal(t, 10, p.WeeksToGo)

	mock.Add(7 * 24 * time.Hour)
	require.Equal(t, 31, s.Profile().CurrentWeek)
}

func TestUpdateProfileKeepsLogs(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	_, err := s.AppendLog(journal.EntryInput{WaterIntake: 3, SleepHours: 6, Mood: journal.MoodTired})
	require.NoError(t, err)

	p, err := s.UpdateProfile(ProfileInput{Name: "  Ana ", DueDate: "2026-10-15"})
	require.NoError(t, err)
	require.Equal(t, "Ana", p.Name)
	require.Equal(t, 40, p.CurrentWeek)
	require.Len(t, s.Logs(), 1)
}

func TestUpdateProfileRejectsBadInput(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	cases := []ProfileInput{
		{Name: "", DueDate: "2026-12-01"},
		{Name: "Ana", DueDate: "12/01/2026"},
		{Name: "Ana", DueDate: ""},
	}
	for _, in := range cases {
		_, err := s.UpdateProfile(in)
		var verr *journal.ValidationError
		require.True(t, errors.As(err, &verr), "input %+v: %v", in, err)
	}
	require.Equal(t, "Sarah", s.Profile().Name)
}

func TestAppendLogPrependsWithFreshIDs(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	m := observability.NewMetrics()
	s, mock := newStore(t, now, WithMetrics(m))

	first, err := s.AppendLog(journal.EntryInput{WaterIntake: 8, SleepHours: 7.5, Mood: journal.MoodCalm, Notes: "x"})
	require.NoError(t, err)
	mock.Add(time.Hour)
	second, err := s.AppendLog(journal.EntryInput{WaterIntake: 2, SleepHours: 5, Mood: journal.MoodNauseous})
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.True(t, first.CreatedAt.Equal(now))
	require.True(t, second.CreatedAt.Equal(now.Add(time.Hour)))

	logs := s.Logs()
	require.Len(t, logs, 2)
	require.Equal(t, second.ID, logs[0].ID)
	if diff := cmp.Diff(journal.Entry{
		ID: first.ID, CreatedAt: now, WaterIntake: 8, SleepHours: 7.5, Mood: journal.MoodCalm, Notes: "x",
	}, logs[1]); diff != "" {
		t.Fatalf("oldest entry mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, journal.MoodNauseous, s.Summary().Mood)
}

func TestAppendLogRejectsInvalid(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	_, err := s.AppendLog(journal.EntryInput{WaterIntake: 16, Mood: journal.MoodCalm})
	require.Error(t, err)
	_, err = s.AppendLog(journal.EntryInput{Mood: "grumpy"})
	require.Error(t, err)
	require.Empty(t, s.Logs())
}

func TestLogsReturnsCopy(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		WithEntries([]journal.Entry{{ID: "seed", Mood: journal.MoodCalm}}))
	logs := s.Logs()
	logs[0].ID = "mutated"
	require.Equal(t, "seed", s.Logs()[0].ID)
}

func TestScreenSelector(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	require.Equal(t, ScreenDashboard, s.Screen())

	sc, err := ParseScreen(" Calendar ")
	require.NoError(t, err)
	s.SetScreen(sc)
	require.Equal(t, ScreenCalendar, s.Screen())

	_, err = ParseScreen("billing")
	require.Error(t, err)
}

func TestNewMemoryGameResets(t *testing.T) {
	s, _ := newStore(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	_, _, err := s.Memory().Flip(0)
	require.NoError(t, err)
	b := s.NewMemoryGame()
	for _, c := range b.Cards {
		require.False(t, c.FaceUp)
	}
}
