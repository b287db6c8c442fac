package clock

import (
	"sync"
	"time"
)

type Service interface {
	Now() time.Time
}

type TimeSetterFn func(time.Time)

type mockService struct {
	mu  sync.RWMutex
	now time.Time
}

func (m *mockService) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *mockService) set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func NewMockServiceNow() (Service, TimeSetterFn) {
	return NewMockService(time.Now())
}

// NewMockService returns a clock frozen at now and a setter to move it.
// Safe to read from several goroutines while the test moves time.
func NewMockService(now time.Time) (Service, TimeSetterFn) {
	service := &mockService{
		now: now,
	}
	return service, service.set
}

type clockService struct{}

func NewClockService() Service {
	return &clockService{}
}

func (c *clockService) Now() time.Time {
	return time.Now()
}

// Millis is the unix timestamp in milliseconds the entry envelope stores.
func Millis(s Service) int64 {
	return s.Now().UnixMilli()
}
