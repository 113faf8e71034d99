package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alimuhammedak/SyncLove/auth"
	"github.com/alimuhammedak/SyncLove/crypto"
	"github.com/alimuhammedak/SyncLove/game"
	"github.com/alimuhammedak/SyncLove/migrations"
	"github.com/alimuhammedak/SyncLove/sessions"
	"github.com/alimuhammedak/SyncLove/storage"
	"github.com/alimuhammedak/SyncLove/voice"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// Requests without an Origin header (same-origin, curl) pass through;
		// browsers always send one on cross-origin requests.
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func mustEnv(name string) string {
	value, exists := os.LookupEnv(name)
	if !exists {
		log.Fatal().Str("name", name).Msg("missing required environment variable")
	}
	return value
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("DEBUG") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	allowedOrigins := strings.Split(mustEnv("ALLOWED_ORIGINS"), ",")
	postgresURL := mustEnv("POSTGRES_URL")
	jwtKey := mustEnv("JWT_KEY")

	maxPlayers := game.DefaultMaxPlayers
	if raw, exists := os.LookupEnv("MAX_PLAYERS"); exists {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2 {
			log.Fatal().Str("value", raw).Msg("invalid MAX_PLAYERS")
		}
		maxPlayers = parsed
	}

	if err := migrations.Migrate(postgresURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pgRepo, err := storage.NewPostgresRepo(context.Background(), postgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pgRepo.Close()

	tokenAge := time.Hour * 24 * 7 // 7 days
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(jwtKey, tokenAge)

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService, tokenAge)

	r := CreateServer(allowedOrigins)

	{
		authGroup := r.Group("/auth")
		authGroup.POST("/signup", authHandler.SignupHandler)
		authGroup.POST("/login", authHandler.LoginHandler)
		authGroup.POST("/logout", authHandler.LogoutHandler)
		authGroup.GET("/refresh", authHandler.RefreshSessionHandler)
	}

	registry := game.NewRegistry(maxPlayers)
	gateway := game.NewGateway(registry, rand.New(rand.NewSource(time.Now().UnixNano())))
	gameHandler := game.NewGameHandler(gateway, pgRepo, allowedOrigins)
	{
		gameGroup := r.Group("/game")
		gameGroup.Use(authHandler.RequireAuthMiddleware(time.Second * 2))
		gameGroup.GET("/ws", gameHandler.WSHandler)
	}

	{
		usersGroup := r.Group("/users")
		usersGroup.Use(authHandler.RequireAuthMiddleware(time.Second * 2))
		usersGroup.GET("/me", authHandler.MeHandler)
	}

	sessionService := sessions.NewService(pgRepo)
	sessionHandler := sessions.NewSessionHandler(sessionService)
	{
		gamesGroup := r.Group("/games")
		gamesGroup.Use(authHandler.RequireAuthMiddleware(time.Second * 2))
		gamesGroup.POST("", sessionHandler.CreateHandler)
		gamesGroup.GET("", sessionHandler.ListActiveHandler)
		gamesGroup.GET("/:id", sessionHandler.GetHandler)
		gamesGroup.POST("/:id/join", sessionHandler.JoinHandler)
		gamesGroup.PUT("/:id/state", sessionHandler.SetStateHandler)
		gamesGroup.POST("/:id/complete", sessionHandler.CompleteHandler)
	}

	// Voice tokens are optional; the rest of the API works without the RTC
	// credentials configured.
	if appId, exists := os.LookupEnv("VOICE_APP_ID"); exists {
		tokenBuilder, err := voice.NewTokenBuilder(appId, mustEnv("VOICE_APP_CERT"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid voice token configuration")
		}
		voiceHandler := voice.NewVoiceHandler(tokenBuilder, voice.DefaultTTL)

		voiceGroup := r.Group("/voice")
		voiceGroup.Use(authHandler.RequireAuthMiddleware(time.Second * 2))
		voiceGroup.GET("/token", voiceHandler.TokenHandler)
	} else {
		log.Info().Msg("VOICE_APP_ID not set, voice token endpoint disabled")
	}

	if err := r.Run(":5000"); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
