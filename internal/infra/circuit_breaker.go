package infra

import (
	"errors"
	"sync"
	"time"
)

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: 30 * time.Second}
}

// CircuitBreaker guards the SMTP relay. After FailureThreshold consecutive
// failures it opens and rejects calls until OpenTimeout passes; then it
// half-opens, and SuccessThreshold successes close it again.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

// estado must be called with mu held.
func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.exitos = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and records the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.estado() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.fallos++
		if cb.state == CBHalfOpen || cb.fallos >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.abiertoEn = cb.now()
			cb.fallos = 0
		}
		return err
	}
	cb.fallos = 0
	if cb.state == CBHalfOpen {
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
		}
	}
	return nil
}
