// internal/app/system/timeouts/timeouts.go
package timeouts

import (
	"sync"
	"time"
)

// Defaults for database and outbound-call deadlines. Handlers wrap
// every store call in context.WithTimeout using one of these.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Configure overrides the defaults from app config at startup. Zero
// values leave the corresponding timeout unchanged.
func Configure(p, s, m, l time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if p > 0 {
		ping = p
	}
	if s > 0 {
		short = s
	}
	if m > 0 {
		medium = m
	}
	if l > 0 {
		long = l
	}
}

// Ping is the deadline for connectivity checks.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return ping }

// Short is the deadline for single-document reads and writes.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return short }

// Medium is the deadline for list queries.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }

// Long is the deadline for multi-step operations such as schema setup.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return long }
