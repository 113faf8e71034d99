package game

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type GameHandler struct {
	gateway  *Gateway
	users    UserGetter
	upgrader websocket.Upgrader
}

func NewGameHandler(gateway *Gateway, users UserGetter, allowedOrigins []string) *GameHandler {
	return &GameHandler{
		gateway: gateway,
		users:   users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// WSHandler upgrades the connection and hands it to the gateway. Identity
// comes from the auth middleware; a connection with no resolvable identity
// never reaches the room layer.
func (h *GameHandler) WSHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		log.Error().
			Str("ip", ctx.ClientIP()).
			Str("user_agent", ctx.Request.UserAgent()).
			Msg("WSHandler: id not found, what is the middleware doing?")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	user, err := h.users.GetUserById(ctx.Request.Context(), id)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown-user"})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("WS upgrade failed")
		return
	}

	h.gateway.Connect(user.Id, user.Username, NewWebsocketConnection(conn))
}
