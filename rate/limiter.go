package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps a token bucket per client id. Buckets idle for longer
// than Expiry are dropped by a background sweep until Stop is called.
type Limiter struct {
	Expiry   time.Duration
	Burst    int
	LimitRPS float64
	clients  map[string]*clientLimiter
	mu       sync.RWMutex
	stop     chan struct{}
	once     sync.Once
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLimiter(burst int, expiry time.Duration, limitRPS float64) *Limiter {
	clients := make(map[string]*clientLimiter)
	lm := &Limiter{
		Expiry:   expiry,
		LimitRPS: limitRPS,
		Burst:    burst,
		clients:  clients,
		stop:     make(chan struct{}),
	}
	go lm.refresh()
	return lm
}

// Check spends one token from the bucket of id and reports whether
// the request may proceed.
func (l *Limiter) Check(id string) bool {
	now := time.Now()

	l.mu.Lock()
	cl, ok := l.clients[id]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst)}
		l.clients[id] = cl
	}
	cl.lastAccess = now
	l.mu.Unlock()

	return cl.limiter.AllowN(now, 1)
}

// Len reports how many clients currently hold a bucket.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clients)
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) refresh() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}

		l.sweep(time.Now())
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, cl := range l.clients {
		if now.Sub(cl.lastAccess) > l.Expiry {
			delete(l.clients, id)
		}
	}
}

func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
