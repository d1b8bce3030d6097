package reportController

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/httperr"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/middlewares"
	"github.com/prabhat9478/jyotish-web/internal/adapters/primary/http/sse"
	"github.com/prabhat9478/jyotish-web/internal/domain"
	"github.com/prabhat9478/jyotish-web/internal/ports/storage"
	reportUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/report"
)

// persistTimeout bounds detached writes after the stream has ended; the
// request context may already be canceled by a client disconnect.
const persistTimeout = 30 * time.Second

// pdfURLExpiry is how long a presigned download link stays valid.
const pdfURLExpiry = 15 * time.Minute

type Controller struct {
	Reports   *reportUsecase.Service
	FileStore storage.IFileStore
	Auth      gin.HandlerFunc
	Log       *slog.Logger
}

func New(
	reports *reportUsecase.Service,
	fileStore storage.IFileStore,
	auth gin.HandlerFunc,
	log *slog.Logger,
) *Controller {
	return &Controller{
		Reports:   reports,
		FileStore: fileStore,
		Auth:      auth,
		Log:       log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/profiles/:profileID/reports", c.Auth)
	group.POST("", c.generate)
	group.GET("", c.list)
	group.GET("/:reportID", c.get)
	group.GET("/:reportID/sections", c.sections)
	group.GET("/:reportID/pdf", c.pdfLink)
}

// generate opens the completion stream and relays it to the client as
// server-sent events. Content is persisted after the stream ends, on a
// detached context, so a client disconnect cannot lose a finished
// generation.
func (c *Controller) generate(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, stream, err := c.Reports.Start(ctx.Request.Context(), reportUsecase.GenerateRequest{
		UserID:     userID,
		ProfileID:  profileID,
		ReportType: domain.ReportType(req.ReportType),
		Language:   req.Language,
		Model:      req.Model,
	})
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	defer stream.Close()

	sw, err := sse.NewWriter(ctx.Writer)
	if err != nil {
		c.Reports.Fail(ctx.Request.Context(), report.ID)
		httperr.Write(ctx, c.Log, err)
		return
	}

	full, relayErr := sse.Relay(sw, stream)

	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if relayErr != nil && full == "" {
		c.Log.Error("report stream failed with no content",
			"error", relayErr,
			"report_id", report.ID,
		)
		c.Reports.Fail(persistCtx, report.ID)
		return
	}
	if relayErr != nil {
		c.Log.Warn("report stream interrupted, persisting partial content",
			"error", relayErr,
			"report_id", report.ID,
			"content_len", len(full),
		)
	}

	if err := c.Reports.Finalize(persistCtx, report, full); err != nil {
		c.Log.Error("failed to finalize report",
			"error", err,
			"report_id", report.ID,
		)
		_ = sw.WriteEvent(gin.H{"type": "error", "error": "failed to save report"})
		return
	}

	_ = sw.WriteEvent(sse.DoneEvent{Done: true, ReportID: report.ID.String()})
}

func (c *Controller) list(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	reports, err := c.Reports.List(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toResponse(r, false))
	}
	ctx.JSON(http.StatusOK, gin.H{"reports": out})
}

func (c *Controller) get(ctx *gin.Context) {
	userID, profileID, reportID, ok := c.reportIDs(ctx)
	if !ok {
		return
	}

	report, err := c.Reports.Get(ctx.Request.Context(), userID, profileID, reportID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, toResponse(report, report.GenerationStatus == domain.GenerationStatusComplete))
}

func (c *Controller) sections(ctx *gin.Context) {
	userID, profileID, reportID, ok := c.reportIDs(ctx)
	if !ok {
		return
	}

	sections, err := c.Reports.Sections(ctx.Request.Context(), userID, profileID, reportID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sections": sections})
}

// pdfLink returns a short-lived presigned download URL; the object
// store is never exposed directly.
func (c *Controller) pdfLink(ctx *gin.Context) {
	userID, profileID, reportID, ok := c.reportIDs(ctx)
	if !ok {
		return
	}

	report, err := c.Reports.Get(ctx.Request.Context(), userID, profileID, reportID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	if report.PDFObjectKey == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "pdf not generated yet"})
		return
	}

	url, err := c.FileStore.GetPresignedURL(ctx.Request.Context(), *report.PDFObjectKey, pdfURLExpiry)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int(pdfURLExpiry.Seconds()),
	})
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

func (c *Controller) reportIDs(ctx *gin.Context) (uuid.UUID, uuid.UUID, uuid.UUID, bool) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	reportID, err := uuid.Parse(ctx.Param("reportID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return userID, profileID, reportID, true
}
