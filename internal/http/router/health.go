package router

import (
	"net"
	"net/http"
	"os"
	"time"

	apphttp "profiles_backend/internal/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status        int     `json:"status"`
	StatusMessage string  `json:"status_message"`
	Timestamp     string  `json:"timestamp"`
	IPAddress     string  `json:"ip_address"`
	Echo          *string `json:"echo"`
	PathEcho      *string `json:"path_echo"`
}

type healthHandler struct {
	checker apphttp.HealthChecker
	now     func() time.Time
	ip      string
}

func newHealthHandler(checker apphttp.HealthChecker, now func() time.Time) *healthHandler {
	return &healthHandler{checker: checker, now: now, ip: hostIP()}
}

// Liveness never touches a dependency. The optional ?echo= query value and
// /health/{path_echo} segment are reflected back.
func (h *healthHandler) Liveness(c *gin.Context) {
	resp := HealthResponse{
		Status:        http.StatusOK,
		StatusMessage: "OK",
		Timestamp:     h.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		IPAddress:     h.ip,
	}
	if echo, ok := c.GetQuery("echo"); ok {
		resp.Echo = &echo
	}
	if pathEcho := c.Param("path_echo"); pathEcho != "" {
		resp.PathEcho = &pathEcho
	}
	c.JSON(http.StatusOK, resp)
}

// Readiness reports 503 while the database is unreachable. Without a
// database there is nothing to wait for.
func (h *healthHandler) Readiness(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "memory"})
		return
	}
	if err := h.checker.Check(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "storage": "postgres"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "postgres"})
}

func hostIP() string {
	host, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}
	addrs, err := net.LookupIP(host)
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if v4 := addr.To4(); v4 != nil {
			return v4.String()
		}
	}
	if len(addrs) > 0 {
		return addrs[0].String()
	}
	return "127.0.0.1"
}
