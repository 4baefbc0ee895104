package relax

import (
	"errors"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/yungbote/bloom-backend/internal/pkg/randx"
)

var MemoryIcons = []string{"🍼", "👶", "🧸", "👣", "🎀", "🧺"}

// MismatchReveal is how long a wrong pair stays face up.
const MismatchReveal = time.Second

var ErrCardOutOfRange = errors.New("card index out of range")

type Card struct {
	Index   int    `json:"index"`
	Icon    string `json:"icon,omitempty"`
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
}

type Board struct {
	Cards []Card `json:"cards"`
	Moves int    `json:"moves"`
	Won   bool   `json:"won"`
}

type FlipOutcome string

const (
	FlipIgnored  FlipOutcome = "ignored"
	FlipFirst    FlipOutcome = "first"
	FlipMatch    FlipOutcome = "match"
	FlipMismatch FlipOutcome = "mismatch"
)

// Memory is a pairs game over two copies of MemoryIcons.
type Memory struct {
	mu         sync.Mutex
	rnd        *randx.Source
	clk        clock.Clock
	icons      []string
	flipped    []int
	matched    map[int]bool
	moves      int
	mismatchAt time.Time
}

func NewMemory(rnd *randx.Source, clk clock.Clock) *Memory {
	if rnd == nil {
		rnd = randx.New(0)
	}
	if clk == nil {
		clk = clock.New()
	}
	m := &Memory{rnd: rnd, clk: clk}
	m.Reset()
	return m
}

// Reset reshuffles and clears progress.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	icons := make([]string, 0, 2*len(MemoryIcons))
	icons = append(icons, MemoryIcons...)
	icons = append(icons, MemoryIcons...)
	m.rnd.Shuffle(len(icons), func(i, j int) { icons[i], icons[j] = icons[j], icons[i] })
	m.icons = icons
	m.flipped = nil
	m.matched = map[int]bool{}
	m.moves = 0
	m.mismatchAt = time.Time{}
}

// Flip turns card i face up. Flips are ignored while a mismatched pair is
// showing (until MismatchReveal passes or Settle is called), and for cards
// already face up or matched.
func (m *Memory) Flip(i int) (FlipOutcome, Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.icons) {
		return FlipIgnored, m.board(), ErrCardOutOfRange
	}
	if len(m.flipped) == 2 && !m.mismatchAt.IsZero() && m.clk.Now().Sub(m.mismatchAt) >= MismatchReveal {
		m.settle()
	}
	if len(m.flipped) == 2 || m.matched[i] || contains(m.flipped, i) {
		return FlipIgnored, m.board(), nil
	}

	m.flipped = append(m.flipped, i)
	if len(m.flipped) == 1 {
		return FlipFirst, m.board(), nil
	}

	m.moves++
	a, b := m.flipped[0], m.flipped[1]
	if m.icons[a] == m.icons[b] {
		m.matched[a], m.matched[b] = true, true
		m.flipped = nil
		return FlipMatch, m.board(), nil
	}
	m.mismatchAt = m.clk.Now()
	return FlipMismatch, m.board(), nil
}

// Settle turns a showing mismatched pair face down.
func (m *Memory) Settle() Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settle()
	return m.board()
}

func (m *Memory) Board() Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board()
}

func (m *Memory) settle() {
	if len(m.flipped) == 2 {
		m.flipped = nil
		m.mismatchAt = time.Time{}
	}
}

// board hides icons of face-down cards.
func (m *Memory) board() Board {
	cards := make([]Card, len(m.icons))
	for i, icon := range m.icons {
		c := Card{Index: i, Matched: m.matched[i], FaceUp: m.matched[i] || contains(m.flipped, i)}
		if c.FaceUp {
			c.Icon = icon
		}
		cards[i] = c
	}
	return Board{Cards: cards, Moves: m.moves, Won: len(m.matched) == len(m.icons)}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
