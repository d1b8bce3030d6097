package preferencesController

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/httperr"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/middlewares"
	"github.com/prabhat9478/jyotish-web/internal/domain"
	preferencesUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/preferences"
)

type Controller struct {
	Preferences *preferencesUsecase.Service
	Auth        gin.HandlerFunc
	Log         *slog.Logger
}

func New(preferences *preferencesUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Preferences: preferences,
		Auth:        auth,
		Log:         log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/preferences", c.Auth)
	group.GET("", c.get)
	group.PUT("", c.update)
}

type preferencesPayload struct {
	Ayanamsha       string  `json:"ayanamsha"`
	HouseSystem     string  `json:"house_system"`
	DefaultLanguage string  `json:"default_language"`
	PreferredModel  string  `json:"preferred_model"`
	AlertOrb        float64 `json:"alert_orb"`
	AlertEnabled    bool    `json:"alert_enabled"`
}

func toPayload(p *domain.UserPreferences) preferencesPayload {
	return preferencesPayload{
		Ayanamsha:       p.Ayanamsha,
		HouseSystem:     p.HouseSystem,
		DefaultLanguage: p.DefaultLanguage,
		PreferredModel:  p.PreferredModel,
		AlertOrb:        p.AlertOrb,
		AlertEnabled:    p.AlertEnabled,
	}
}

func (c *Controller) get(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prefs, err := c.Preferences.Get(ctx.Request.Context(), userID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, toPayload(prefs))
}

func (c *Controller) update(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req preferencesPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prefs, err := c.Preferences.Update(ctx.Request.Context(), &domain.UserPreferences{
		UserID:          userID,
		Ayanamsha:       req.Ayanamsha,
		HouseSystem:     req.HouseSystem,
		DefaultLanguage: req.DefaultLanguage,
		PreferredModel:  req.PreferredModel,
		AlertOrb:        req.AlertOrb,
		AlertEnabled:    req.AlertEnabled,
	})
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, toPayload(prefs))
}
