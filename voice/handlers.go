package voice

import (
	"hash/crc32"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingChannelStr = "missing-channel"
	ErrUnknownStr        = "unknown-error"
)

type voiceHandler struct {
	builder *TokenBuilder
	ttl     time.Duration
}

func NewVoiceHandler(builder *TokenBuilder, ttl time.Duration) *voiceHandler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &voiceHandler{builder: builder, ttl: ttl}
}

// TokenHandler issues a channel token for the authenticated user. The RTC uid
// is derived from the user id, so reconnects land on the same uid.
func (vh *voiceHandler) TokenHandler(ctx *gin.Context) {
	channel := ctx.Query("channel")
	if channel == "" {
		ctx.String(http.StatusBadRequest, ErrMissingChannelStr)
		return
	}

	userId := ctx.GetString("id")
	uid := crc32.ChecksumIEEE([]byte(userId))

	token, err := vh.builder.BuildToken(channel, uid, vh.ttl)
	if err != nil {
		log.Error().
			Str("error", err.Error()).
			Str("user_id", userId).
			Str("channel", channel).
			Msg("TokenHandler: failed to build voice token")
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":   token,
		"appId":   vh.builder.AppId(),
		"channel": channel,
		"uid":     uid,
	})
}
