package chatController

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
	"github.com/prabhat9478/jyotish-web/internal/usecases/rag"

	chatUsecase "github.com/prabhat9478/jyotish-web/internal/usecases/chat"
)

const persistTimeout = 30 * time.Second

type Controller struct {
	Chat *chatUsecase.Service
	Auth gin.HandlerFunc
	Log  *slog.Logger
}

func New(chat *chatUsecase.Service, auth gin.HandlerFunc, log *slog.Logger) *Controller {
	return &Controller{
		Chat: chat,
		Auth: auth,
		Log:  log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/profiles/:profileID/chat", c.Auth)
	group.POST("", c.message)
	group.GET("/sessions", c.listSessions)
	group.GET("/sessions/:sessionID/messages", c.listMessages)
}

// message relays one streamed answer. The user/assistant pair is
// persisted after the stream ends; a partial answer from an interrupted
// stream is kept so the conversation stays coherent on reload.
func (c *Controller) message(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	var req MessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	turn, err := c.Chat.StartTurn(ctx.Request.Context(), chatUsecase.TurnRequest{
		UserID:    userID,
		ProfileID: profileID,
		SessionID: req.SessionID,
		Query:     req.Query,
		Model:     req.Model,
	})
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}
	defer turn.Stream.Close()

	sw, err := sse.NewWriter(ctx.Writer)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	answer, relayErr := sse.Relay(sw, turn.Stream)
	if relayErr != nil {
		c.Log.Warn("chat stream interrupted",
			"error", relayErr,
			"session_id", turn.Session.ID,
			"answer_len", len(answer),
		)
	}
	if answer == "" {
		return
	}

	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.Chat.PersistTurn(persistCtx, turn, req.Query, answer); err != nil {
		c.Log.Error("failed to persist chat turn",
			"error", err,
			"session_id", turn.Session.ID,
		)
		_ = sw.WriteEvent(gin.H{"type": "error", "error": "failed to save message"})
		return
	}

	if relayErr == nil {
		_ = sw.WriteEvent(sse.DoneEvent{
			Done:      true,
			SessionID: turn.Session.ID.String(),
			Sources:   rag.BuildSources(turn.Results),
		})
	}
}

func (c *Controller) listSessions(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}

	sessions, err := c.Chat.ListSessions(ctx.Request.Context(), userID, profileID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	ctx.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (c *Controller) listMessages(ctx *gin.Context) {
	userID, profileID, ok := c.pathIDs(ctx)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(ctx.Param("sessionID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	messages, err := c.Chat.History(ctx.Request.Context(), userID, profileID, sessionID)
	if err != nil {
		httperr.Write(ctx, c.Log, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": out})
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
