// Package clock abstrae la hora actual para que los casos de uso sean deterministas en tests.
package clock

import (
	"sync"
	"time"
)

// Clock fuente de la hora actual.
type Clock interface {
	Now() time.Time
}

// System reloj real en UTC.
type System struct{}

// Now implementa Clock.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed reloj manual para tests. Seguro para uso concurrente.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed crea un reloj detenido en t.
func NewFixed(t time.Time) *Fixed { return &Fixed{t: t} }

// Now implementa Clock.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance adelanta el reloj d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
