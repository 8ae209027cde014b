package middleware

import (
	"net/http"
	"sync"

	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// EmployeeRateLimiter keeps one token bucket per employee.
type EmployeeRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

func NewEmployeeRateLimiter(r rate.Limit, b int) *EmployeeRateLimiter {
	return &EmployeeRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (l *EmployeeRateLimiter) limiter(employeeID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[employeeID]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limiters[employeeID] = limiter
	}
	return limiter
}

// Limit must run after AuthRequired.
func (l *EmployeeRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := Session(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !l.limiter(session.EmployeeID).Allow() {
			response.TooManyRequests(w, "Too many requests, please slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}
