package auth

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alimuhammedak/SyncLove/domain"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrServerTimeoutStr         = "server-timeout"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidCredentialsStr    = "invalid-credentials"
	ErrUnknownStr               = "unknown-error"
	ErrUsernameAlreadyExistsStr = "username-already-exists"
	ErrWeakPasswordStr          = "weak-password"
	ErrPasswordTooLongStr       = "password-too-long"
	ErrInvalidUsernameFormatStr = "invalid-username-format"
	ErrAccountCreatedButNoToken = "account-created-but-no-token"
)

type authHandler struct {
	authService  AuthService
	cookieMaxAge time.Duration
}

func NewAuthHandler(service AuthService, cookieMaxAge time.Duration) *authHandler {
	return &authHandler{authService: service, cookieMaxAge: cookieMaxAge}
}

// redactToken keeps the header and claims but hides most of the signature,
// so log lines can identify a token without being replayable.
func redactToken(token string) string {
	tokenParts := strings.Split(token, ".")
	if len(tokenParts) != 3 {
		return token
	}

	r := []rune(tokenParts[2])
	sneak := tokenParts[2]
	if len(r) >= 10 {
		sneak = string(r[:10]) + strings.Repeat("*", len(r)-10)
	}
	return tokenParts[0] + "." + tokenParts[1] + "." + sneak
}

func (ah *authHandler) RequireAuthMiddleware(trollTime time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		id, err := ah.authService.VerifyToken(token)

		if err != nil {
			clientIP := ctx.ClientIP()
			userAgent := ctx.Request.UserAgent()
			redactedToken := redactToken(token)

			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken):

				log.Warn().
					Str("ip", clientIP).
					Str("user_agent", userAgent).
					Str("error", err.Error()).
					Str("token", redactedToken).
					Msg("RequireAuthMiddleware: suspicious token attempt")

				// Forged tokens get a slow 500, not a helpful 401.
				time.Sleep(trollTime)
				ctx.Status(http.StatusInternalServerError)
				ctx.Abort()

			case errors.Is(err, domain.ErrExpiredToken):
				log.Info().
					Str("ip", clientIP).
					Str("token", redactedToken).
					Msg("RequireAuthMiddleware: token expired")
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
				ctx.Abort()

			default:
				log.Error().
					Str("ip", clientIP).
					Str("error", err.Error()).
					Str("token", redactedToken).
					Msg("RequireAuthMiddleware: internal auth error")

				ctx.String(http.StatusUnauthorized, ErrUnknownStr)
				ctx.Abort()
			}

			return
		}
		ctx.Set("id", id)
		ctx.Next()
	}
}

func (ah *authHandler) LoginHandler(ctx *gin.Context) {
	var loginCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	err := ctx.ShouldBindJSON(&loginCredentials)

	if err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	reqCtx := ctx.Request.Context()

	token, err := ah.authService.Login(reqCtx, loginCredentials.Username, loginCredentials.Password)

	if err != nil {
		clientIP := ctx.ClientIP()
		userAgent := ctx.Request.UserAgent()
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, domain.ErrUserNotFound):
			ctx.String(http.StatusUnauthorized, ErrInvalidCredentialsStr)
			ctx.Abort()
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
			ctx.Abort()
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
			ctx.Abort()

		case errors.Is(err, domain.UnexpectedDatabaseError):
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", loginCredentials.Username).
				Msg("Login: database returned an unexpected error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			ctx.Abort()

		case errors.Is(err, domain.UnexpectedPasswordHashComparisonError):
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", loginCredentials.Username).
				Int("password_len", utf8.RuneCountInString(loginCredentials.Password)).
				Uint64("mem_alloc_mb", (mem.Alloc/1024)/1024).
				Uint64("mem_sys_mb", (mem.Sys/1024)/1024).
				Msg("Login: hashing comparison error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			ctx.Abort()

		case errors.Is(err, domain.UnexpectedTokenGenerationError):
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", loginCredentials.Username).
				Msg("Login: token generation error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			ctx.Abort()

		default:
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", loginCredentials.Username).
				Msg("Login: unknown unexpected error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			ctx.Abort()
		}
		return
	}

	ctx.SetCookie("token", token, int(ah.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.Status(http.StatusOK)
}

func (ah *authHandler) SignupHandler(ctx *gin.Context) {
	var signupCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	err := ctx.ShouldBindJSON(&signupCredentials)

	if err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	reqCtx := ctx.Request.Context()

	token, err := ah.authService.Signup(reqCtx, signupCredentials.Username, signupCredentials.Password)

	if err != nil {
		clientIP := ctx.ClientIP()
		userAgent := ctx.Request.UserAgent()

		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			ctx.String(http.StatusConflict, ErrUsernameAlreadyExistsStr)

		case errors.Is(err, ErrWeakPassword):
			ctx.String(http.StatusBadRequest, ErrWeakPasswordStr)

		case errors.Is(err, ErrPasswordTooLong):
			ctx.String(http.StatusBadRequest, ErrPasswordTooLongStr)

		case errors.Is(err, ErrInvalidUsernameFormat):
			ctx.String(http.StatusBadRequest, ErrInvalidUsernameFormatStr)

		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)

		case errors.Is(err, context.Canceled):
			ctx.Status(499)

		case errors.Is(err, domain.UnexpectedDatabaseError):
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", signupCredentials.Username).
				Msg("Signup: database returned an unexpected error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)

		case errors.Is(err, domain.UnexpectedPasswordHashingError):
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", signupCredentials.Username).
				Int("password_len", utf8.RuneCountInString(signupCredentials.Password)).
				Uint64("mem_alloc_mb", (mem.Alloc/1024)/1024).
				Uint64("mem_sys_mb", (mem.Sys/1024)/1024).
				Msg("Signup: password hashing error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)

		case errors.Is(err, domain.UnexpectedTokenGenerationError):
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", signupCredentials.Username).
				Msg("Signup: token generation error")
			ctx.String(http.StatusInternalServerError, ErrAccountCreatedButNoToken)

		default:
			log.Error().
				Str("error", err.Error()).
				Str("ip", clientIP).
				Str("user_agent", userAgent).
				Str("username", signupCredentials.Username).
				Msg("Signup: unknown unexpected error")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		ctx.Abort()
		return
	}

	ctx.SetCookie("token", token, int(ah.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.Status(http.StatusCreated)
}

func (ah *authHandler) RefreshSessionHandler(ctx *gin.Context) {
	token, err := ctx.Cookie("token")
	if err != nil {
		ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
		return
	}

	id, err := ah.authService.VerifyToken(token)
	if err != nil {
		log.Warn().
			Str("ip", ctx.ClientIP()).
			Str("user_agent", ctx.Request.UserAgent()).
			Str("error", err.Error()).
			Str("token", redactToken(token)).
			Msg("Refresh: invalid token provided")
		ctx.String(http.StatusUnauthorized, "bad-token")
		return
	}

	newToken, err := ah.authService.Refresh(id)
	if err != nil {
		log.Error().
			Str("ip", ctx.ClientIP()).
			Str("user_agent", ctx.Request.UserAgent()).
			Str("error", err.Error()).
			Str("user_id", id).
			Msg("Refresh: failed to generate new token")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.SetCookie("token", newToken, int(ah.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.Status(http.StatusOK)
}

// MeHandler returns the authenticated user's profile. Identity comes from
// the auth middleware.
func (ah *authHandler) MeHandler(ctx *gin.Context) {
	id := ctx.GetString("id")

	user, err := ah.authService.Profile(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			ctx.String(http.StatusNotFound, "user-not-found")
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
		default:
			log.Error().
				Str("error", err.Error()).
				Str("ip", ctx.ClientIP()).
				Str("user_id", id).
				Msg("Me: failed to load profile")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":       user.Id,
		"username": user.Username,
	})
}

func (ah *authHandler) LogoutHandler(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", true, true)
	ctx.Status(http.StatusOK)
}
