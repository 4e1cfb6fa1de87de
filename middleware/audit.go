package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/formflow/formflow/models"
	"github.com/formflow/formflow/repositories"
	"github.com/formflow/formflow/userctx"
)

// AuditLogger records all POST/PUT/DELETE requests. Request bodies are
// deliberately not captured: submissions and token exchanges carry data
// that must not land in the audit trail.
func AuditLogger(auditRepo repositories.AuditRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				entry := &models.AuditLogEntry{
					UserID:    userctx.GetUserID(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
					UserAgent: r.UserAgent(),
					IPAddress: getIPAddress(r),
				}

				// Log asynchronously to avoid blocking the request
				go func() {
					if err := auditRepo.Create(entry); err != nil {
						logger.Warn("failed to create audit log", zap.Error(err))
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIPAddress extracts the client IP, checking proxy headers first
func getIPAddress(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
