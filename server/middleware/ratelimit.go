package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clienteLimiter associa um limiter ao instante do último uso, para limpeza.
type clienteLimiter struct {
	limiter   *rate.Limiter
	ultimoUso time.Time
}

// RateLimiter mantém um limiter por IP de cliente.
type RateLimiter struct {
	mu       sync.Mutex
	clientes map[string]*clienteLimiter
	rps      rate.Limit
	burst    int
}

// NewRateLimiter cria o limitador com a taxa e o burst configurados.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clientes: make(map[string]*clienteLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.limparInativos()
	return rl
}

func (rl *RateLimiter) limiterPara(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clientes[ip]
	if !ok {
		cl = &clienteLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clientes[ip] = cl
	}
	cl.ultimoUso = time.Now()
	return cl.limiter
}

// limparInativos descarta limiters de clientes sem atividade recente.
func (rl *RateLimiter) limparInativos() {
	for range time.Tick(5 * time.Minute) {
		rl.mu.Lock()
		for ip, cl := range rl.clientes {
			if time.Since(cl.ultimoUso) > 10*time.Minute {
				delete(rl.clientes, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// GinRateLimitMiddleware rejeita com 429 quando o cliente excede a taxa.
func GinRateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterPara(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   true,
				"message": "Limite de requisições excedido, tente novamente em instantes",
			})
			return
		}
		c.Next()
	}
}
