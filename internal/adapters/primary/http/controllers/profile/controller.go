package profileController

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/httperr"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/middlewares"
	profileUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/profile"
)

type Controller struct {
	Profiles *profileUsecase.Service
	Auth     gin.HandlerFunc
	Log      *slog.Logger
}

func New(profiles *profileUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Profiles: profiles,
		Auth:     auth,
		Log:      log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/profiles", c.Auth)
	group.POST("", c.create)
	group.GET("", c.list)
	group.GET("/:profileID", c.get)
	group.PUT("/:profileID", c.update)
	group.DELETE("/:profileID", c.delete)
	group.POST("/:profileID/chart", c.calculateChart)
	group.GET("/:profileID/chart", c.getChart)
	group.GET("/:profileID/transits", c.transits)
}

func (c *Controller) create(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := c.Profiles.Create(ctx.Request.Context(), req.toDomain(userID))
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusCreated, toResponse(profile))
}

func (c *Controller) list(ctx *gin.Context) {
	userID, ok := middlewares.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profiles, err := c.Profiles.List(ctx.Request.Context(), userID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toResponse(p))
	}
	ctx.JSON(http.StatusOK, gin.H{"profiles": out})
}

func (c *Controller) get(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	profile, err := c.Profiles.Get(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, toResponse(profile))
}

func (c *Controller) update(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile := req.toDomain(userID)
	profile.ID = profileID

	updated, err := c.Profiles.Update(ctx.Request.Context(), profile)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, toResponse(updated))
}

func (c *Controller) delete(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	if err := c.Profiles.Delete(ctx.Request.Context(), userID, profileID); err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) calculateChart(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	profile, err := c.Profiles.CalculateChart(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, ChartResponse{
		ProfileID:    profile.ID,
		CalculatedAt: profile.ChartCalculatedAt,
		Chart:        profile.ChartData,
	})
}

func (c *Controller) getChart(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	profile, err := c.Profiles.Get(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	if !profile.HasChart() {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "chart not calculated yet"})
		return
	}
	ctx.JSON(http.StatusOK, ChartResponse{
		ProfileID:    profile.ID,
		CalculatedAt: profile.ChartCalculatedAt,
		Chart:        profile.ChartData,
	})
}

func (c *Controller) transits(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	transits, aspects, err := c.Profiles.Transits(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, TransitsResponse{
		ProfileID: profileID,
		Transits:  transits,
		Aspects:   aspects,
	})
}

// pathIDs resolves the authenticated user and the :profileID parameter,
// writing the error response itself when either is missing.
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
