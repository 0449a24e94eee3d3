package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter is a fixed-window request counter per client IP.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once

	// OnLimit writes the response for a rejected request.
	// The default is a bare 429.
	OnLimit http.HandlerFunc
}

type visitor struct {
	remaining int
	reset     time.Time
}

// NewLimiter allows rate requests per window for each IP and starts a
// janitor that drops idle entries. Call Stop to end it.
func NewLimiter(rate int, window time.Duration) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for ip, v := range l.visitors {
				if now.Sub(v.reset) > l.window {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Allow consumes one request for ip and reports whether it fits the window.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok || !now.Before(v.reset) {
		l.visitors[ip] = &visitor{remaining: l.rate - 1, reset: now.Add(l.window)}
		return l.rate > 0
	}
	if v.remaining <= 0 {
		return false
	}
	v.remaining--
	return true
}

// Handler rejects requests over the limit with Retry-After set.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			if l.OnLimit != nil {
				l.OnLimit(w, r)
				return
			}
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
