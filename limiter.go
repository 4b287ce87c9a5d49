package sharevault

import (
	"sync"
	"time"
)

// ipWindow counts failed attempts inside a fixed window starting at start.
type ipWindow struct {
	count int
	start time.Time
}

// LoginLimiter throttles login attempts per client IP. Only failed attempts
// count against the limit, so a user who signs in correctly is never locked
// out by their own earlier typos within the window.
type LoginLimiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
	max     int
	window  time.Duration
}

// NewLoginLimiter allows max failed attempts per IP within each window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		windows: make(map[string]*ipWindow),
		max:     max,
		window:  window,
	}
	go l.janitor()
	return l
}

// janitor drops windows that have expired so idle IPs don't accumulate.
func (l *LoginLimiter) janitor() {
	ticker := time.NewTicker(l.window)
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.windows {
			if now.Sub(w.start) >= l.window {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Check reports whether the IP is still under the failure limit.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.windows[ip]
	if w == nil || time.Since(w.start) >= l.window {
		return true
	}
	return w.count < l.max
}

// Record counts a failed login attempt against the IP's current window,
// opening a fresh window if the previous one has expired.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.windows[ip]
	if w == nil || time.Since(w.start) >= l.window {
		l.windows[ip] = &ipWindow{count: 1, start: time.Now()}
		return
	}
	w.count++
}
