package randx

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a mutex-guarded *rand.Rand shared by request handlers. A fixed
// seed makes every pick reproducible.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New seeds from the clock when seed is 0.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewSource(seed))}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *Source) Int31() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int31()
}

func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// Pick returns a random element, or the zero value for an empty slice.
func Pick[T any](s *Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.Intn(len(items))]
}
