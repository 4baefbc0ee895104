package content

import (
	"sync"
	"time"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Snapshot is a copy of a slot at one instant. While a request is loading the
// previous value stays visible.
type Snapshot[T any] struct {
	Status     Status    `json:"status"`
	Generation uint64    `json:"generation"`
	Value      T         `json:"value"`
	HasValue   bool      `json:"has_value"`
	Fallback   bool      `json:"fallback"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Slot holds the latest result of one content kind. Every Begin hands out a
// new generation; only the holder of the newest generation may settle it.
type Slot[T any] struct {
	mu   sync.Mutex
	gen  uint64
	snap Snapshot[T]
	now  func() time.Time
}

func NewSlot[T any](now func() time.Time) *Slot[T] {
	if now == nil {
		now = time.Now
	}
	s := &Slot[T]{now: now}
	s.snap.Status = StatusIdle
	return s
}

func (s *Slot[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.snap.Generation = s.gen
	s.snap.Status = StatusLoading
	s.snap.Error = ""
	s.snap.UpdatedAt = s.now()
	return s.gen
}

// Succeed stores v for generation gen. It reports false when gen has been
// superseded and the slot was left untouched.
func (s *Slot[T]) Succeed(gen uint64, v T) bool {
	return s.settle(gen, StatusSuccess, v, true, false, nil)
}

// Fail records a failed request. When fallback is non-nil it becomes the
// displayed value.
func (s *Slot[T]) Fail(gen uint64, err error, fallback *T) bool {
	var v T
	hasValue := fallback != nil
	if hasValue {
		v = *fallback
	}
	return s.settle(gen, StatusFailure, v, hasValue, hasValue, err)
}

func (s *Slot[T]) settle(gen uint64, st Status, v T, hasValue, fallback bool, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.snap.Status = st
	if hasValue {
		s.snap.Value = v
		s.snap.HasValue = true
		s.snap.Fallback = fallback
	}
	s.snap.Error = ""
	if err != nil {
		s.snap.Error = err.Error()
	}
	s.snap.UpdatedAt = s.now()
	return true
}

// MarkDisplayed returns a settled slot to idle. Loading slots are left alone.
func (s *Slot[T]) MarkDisplayed() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Status == StatusSuccess || s.snap.Status == StatusFailure {
		s.snap.Status = StatusIdle
		s.snap.UpdatedAt = s.now()
	}
	return s.snap.Status
}

func (s *Slot[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Latest reports whether gen is still the newest generation.
func (s *Slot[T]) Latest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Clear drops the value and bumps the generation so in-flight requests settle
// as stale.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	var zero T
	s.snap = Snapshot[T]{Status: StatusIdle, Generation: s.gen, Value: zero, UpdatedAt: s.now()}
}
