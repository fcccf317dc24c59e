package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"oversight/auth"
	"oversight/models"
	"oversight/observability"
	"oversight/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type requestIDKey struct{}

// RequestIDFrom returns the id assigned to the request, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func recoveryMiddleware(exposeDetail bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := string(debug.Stack())
					log.WithFields(log.Fields{
						"panic":     rec,
						"method":    r.Method,
						"path":      r.URL.Path,
						"requestID": RequestIDFrom(r.Context()),
						"stack":     stack,
					}).Error("Recovered from handler panic")

					body := Response{Success: false, Message: "Internal Server Error"}
					if exposeDetail {
						body.Error = stack
					}
					writeJSON(w, http.StatusInternalServerError, body)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recorderFor(w)
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    rec.statusCode(),
			"duration":  time.Since(start).String(),
			"requestID": RequestIDFrom(r.Context()),
			"remote":    clientIP(r),
		}).Info("HTTP request")
	})
}

// metricsMiddleware runs inside the router so the matched route template is known
func metricsMiddleware(metrics *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recorderFor(w)
			next.ServeHTTP(rec, r)
			metrics.ObserveHTTPRequest(r.Method, routeTemplate(r), rec.statusCode(), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed[origin] || allowed["*"]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter keeps one token bucket per client address
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter allows max requests per window per client, refilled evenly
func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(max) / window.Seconds()),
		burst:    max,
		window:   window,
		now:      time.Now,
	}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.limiters[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// prune drops clients idle for longer than a window
func (l *rateLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.window)
	for key, c := range l.limiters {
		if c.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// run prunes idle clients until ctx is done
func (l *rateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("RateLimit-Limit", strconv.Itoa(l.burst))
		if !l.allow(clientIP(r)) {
			respondMessage(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type clientIPKey struct{}

// ParseTrustedProxies reads proxy addresses or CIDR ranges whose X-Forwarded-For header is believed
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

type proxyList []netip.Prefix

func (l proxyList) contains(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range l {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// resolve returns the socket peer unless it is a trusted proxy. Behind trusted proxies the client is
// the right-most X-Forwarded-For hop that is not itself a trusted proxy; hops further left are
// client-supplied and ignored.
func (l proxyList) resolve(r *http.Request) string {
	peer := remoteHost(r)
	if !l.contains(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.contains(hop) {
			return hop
		}
		peer = hop
	}
	return peer
}

// clientIPMiddleware resolves the client address once for the rate limiter, logs and audit entries
func clientIPMiddleware(trusted []netip.Prefix) func(http.Handler) http.Handler {
	proxies := proxyList(trusted)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPKey{}, proxies.resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok {
		return ip
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func timeoutMiddleware(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticateMiddleware(authenticator auth.Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticator.Authenticate(r)
			if err != nil {
				message := "Invalid or expired token."
				if errors.Is(err, auth.ErrMissingToken) {
					message = "Access denied. No token provided."
				}
				respondMessage(w, http.StatusUnauthorized, message, nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// requireRole admits callers holding one of roles; dga_admin always passes
func requireRole(roles ...models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFrom(r.Context())
			if !ok {
				respondMessage(w, http.StatusUnauthorized, "Access denied. No token provided.", nil)
				return
			}
			if !identity.HasRole(roles...) {
				respondMessage(w, http.StatusForbidden, "Access denied. Insufficient permissions.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resourceTables maps the first path segment under /api/dga to its table
var resourceTables = map[string]string{
	"entities": "dga_entities",
	"programs": "dga_programs",
	"projects": "dga_projects",
	"budget":   "dga_budget",
	"tickets":  "dga_tickets",
}

var auditActionTypes = map[string]string{
	http.MethodPost:   models.AuditCreate,
	http.MethodPut:    models.AuditUpdate,
	http.MethodDelete: models.AuditDelete,
}

// auditMiddleware records every successful write. Recording failures are logged only.
func auditMiddleware(recorder service.AuditRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actionType, ok := auditActionTypes[r.Method]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			rec := recorderFor(w)
			next.ServeHTTP(rec, r)
			if rec.statusCode() >= http.StatusBadRequest {
				return
			}

			entry := auditEntryFor(r, actionType)
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
			defer cancel()
			if err := recorder.Record(ctx, entry); err != nil {
				log.WithFields(log.Fields{
					"action":    entry.Action,
					"requestID": RequestIDFrom(r.Context()),
				}).WithError(err).Warn("Failed to write audit entry")
			}
		})
	}
}

func auditEntryFor(r *http.Request, actionType string) *models.AuditEntry {
	entry := &models.AuditEntry{
		ActionType: actionType,
		Action:     r.Method + " " + r.URL.Path,
	}

	identity, _ := auth.IdentityFrom(r.Context())
	if id, err := uuid.Parse(identity.UserID); err == nil {
		entry.UserID = &id
	}

	segments := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/dga/"), "/")
	if table, ok := resourceTables[segments[0]]; ok {
		entry.TableName = &table
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		entry.RecordID = &id
	}

	ip := clientIP(r)
	entry.IPAddress = &ip
	if ua := r.UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}
	return entry
}
