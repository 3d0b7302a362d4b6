package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health GET /health. Liveness only; the database state is reported but
// does not change the status code.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"ok": true}
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		body["db"] = h.DB.Ping(ctx) == nil
	}
	c.JSON(http.StatusOK, body)
}
