package alertController

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/httperr"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/middlewares"
	"github.com/prabhat9478/jyotish-web/internal/domain"
	alertUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/alert"
)

type Controller struct {
	Alerts *alertUsecase.Service
	Auth   gin.HandlerFunc
	Log    *slog.Logger
}

func New(alerts *alertUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Alerts: alerts,
		Auth:   auth,
		Log:    log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	profiles := router.Group("/api/profiles/:profileID/alerts", c.Auth)
	profiles.GET("", c.list)
	profiles.POST("/scan", c.scan)

	alerts := router.Group("/api/alerts", c.Auth)
	alerts.PATCH("/:alertID/read", c.markRead)
}

type alertResponse struct {
	ID          uuid.UUID `json:"id"`
	AlertType   string    `json:"alert_type"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	TriggerDate string    `json:"trigger_date"`
	Planet      *string   `json:"planet,omitempty"`
	NatalPlanet *string   `json:"natal_planet,omitempty"`
	Orb         *float64  `json:"orb,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(a *domain.TransitAlert) alertResponse {
	return alertResponse{
		ID:          a.ID,
		AlertType:   a.AlertType,
		Title:       a.Title,
		Content:     a.Content,
		TriggerDate: a.TriggerDate,
		Planet:      a.Planet,
		NatalPlanet: a.NatalPlanet,
		Orb:         a.Orb,
		IsRead:      a.IsRead,
		CreatedAt:   a.CreatedAt,
	}
}

func (c *Controller) list(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	alerts, err := c.Alerts.List(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toResponse(a))
	}
	ctx.JSON(http.StatusOK, gin.H{"alerts": out})
}

// scan enqueues an on-demand transit scan for one profile.
func (c *Controller) scan(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	if err := c.Alerts.EnqueueScan(ctx.Request.Context(), userID, profileID); err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"ok": true})
}

func (c *Controller) markRead(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	alertID, err := uuid.Parse(ctx.Param("alertID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req struct {
		IsRead *bool `json:"is_read"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.IsRead == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "is_read is required"})
		return
	}

	if err := c.Alerts.MarkRead(ctx.Request.Context(), userID, alertID, *req.IsRead); err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *Controller) pathIDs(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}
	profileID, err := uuid.Parse(ctx.Param("profileID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, profileID, true
}
