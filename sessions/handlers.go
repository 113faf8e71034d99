package sessions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alimuhammedak/SyncLove/domain"
)

var (
	ErrInvalidRequestFormatStr = "bad-request-format"
	ErrServerTimeoutStr        = "server-timeout"
	ErrUnknownStr              = "unknown-error"
	ErrSessionNotFoundStr      = "session-not-found"
)

type sessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *sessionHandler {
	return &sessionHandler{sessions: sessions}
}

func (sh *sessionHandler) CreateHandler(ctx *gin.Context) {
	var body struct {
		GameType string `json:"gameType"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	session, err := sh.sessions.Create(ctx.Request.Context(), ctx.GetString("id"), body.GameType)
	if err != nil {
		sh.writeError(ctx, "Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

func (sh *sessionHandler) GetHandler(ctx *gin.Context) {
	session, err := sh.sessions.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		sh.writeError(ctx, "Get", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (sh *sessionHandler) JoinHandler(ctx *gin.Context) {
	session, err := sh.sessions.Join(ctx.Request.Context(), ctx.Param("id"), ctx.GetString("id"))
	if err != nil {
		sh.writeError(ctx, "Join", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (sh *sessionHandler) SetStateHandler(ctx *gin.Context) {
	var body struct {
		GameState string `json:"gameState"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	session, err := sh.sessions.SetState(ctx.Request.Context(), ctx.Param("id"), ctx.GetString("id"), body.GameState)
	if err != nil {
		sh.writeError(ctx, "SetState", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (sh *sessionHandler) CompleteHandler(ctx *gin.Context) {
	var body struct {
		WinnerId *string `json:"winnerId"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		return
	}

	session, err := sh.sessions.Complete(ctx.Request.Context(), ctx.Param("id"), body.WinnerId)
	if err != nil {
		sh.writeError(ctx, "Complete", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (sh *sessionHandler) ListActiveHandler(ctx *gin.Context) {
	list, err := sh.sessions.ListActive(ctx.Request.Context(), ctx.GetString("id"))
	if err != nil {
		sh.writeError(ctx, "ListActive", err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

func (sh *sessionHandler) writeError(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		ctx.String(http.StatusNotFound, ErrSessionNotFoundStr)
	case errors.Is(err, ErrMissingGameType):
		ctx.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotWaiting),
		errors.Is(err, ErrSelfJoin),
		errors.Is(err, ErrGameNotActive):
		ctx.String(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotAPlayer):
		ctx.String(http.StatusForbidden, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
	case errors.Is(err, context.Canceled):
		ctx.Status(499)
	default:
		log.Error().
			Str("error", err.Error()).
			Str("ip", ctx.ClientIP()).
			Str("user_id", ctx.GetString("id")).
			Str("session_id", ctx.Param("id")).
			Msg(op + ": unexpected session error")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
	}
	ctx.Abort()
}
