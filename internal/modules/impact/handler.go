package impact

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"villagestay/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The live feed is public read-only broadcast; origin checks stay in
	// the CORS layer.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterPublicRoutes exposes the leaderboard, the platform dashboard and
// the live feed.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	impactGroup := rg.Group("/impact")
	{
		impactGroup.GET("/villages", h.VillageTotals)
		impactGroup.GET("/stats", h.PlatformStats)
		impactGroup.GET("/live", h.Live)
	}
}

// RegisterUserRoutes exposes the per-user impact figure (JWT required).
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/impact/user/:userId", h.UserImpact)
}

func (h *Handler) VillageTotals(c *gin.Context) {
	totals, err := h.service.VillageTotals(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Impact calculation failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"villages": totals})
}

func (h *Handler) PlatformStats(c *gin.Context) {
	stats, err := h.service.PlatformImpactStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Impact calculation failed")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) UserImpact(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}
	if userID != c.GetInt64("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only view your own impact")
		return
	}

	impact, err := h.service.UserImpactTotal(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Impact calculation failed")
		return
	}
	response.Success(c, http.StatusOK, impact)
}

// Live upgrades the request to a websocket and streams booking impact
// events until the client goes away.
func (h *Handler) Live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("impact live upgrade failed: %v", err)
		return
	}

	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	// Clients only listen; the read loop just detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
