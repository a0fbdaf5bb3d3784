package yawebhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// LoggerContextKey is the gin context key holding the per-request yalogger.Logger.
const LoggerContextKey = "yawebhook.logger"

// GinMiddleware is implemented by the middlewares of this package.
type GinMiddleware interface {
	Handle(ctx *gin.Context)
}

// RequestLogger attaches a logger carrying a fresh request id to every request.
type RequestLogger struct {
	Log yalogger.Logger
}

func (m RequestLogger) Handle(ctx *gin.Context) {
	log := m.Log.WithRequestUUID(uuid.New())

	ctx.Set(LoggerContextKey, log)

	ctx.Next()

	route := loggedRoute(ctx)

	if len(ctx.Errors) > 0 {
		log.Errorf("%s %s -> %d: %s", ctx.Request.Method, route, ctx.Writer.Status(), ctx.Errors.String())

		return
	}

	log.Tracef("%s %s -> %d", ctx.Request.Method, route, ctx.Writer.Status())
}

// loggedRoute never returns the requested path of the webhook route, it holds the token.
func loggedRoute(ctx *gin.Context) string {
	if ctx.FullPath() == webhookRoute {
		return redactedPath
	}

	return ctx.FullPath()
}

// Recovery turns a panic inside the HTTP layer into a logged 500 response.
func Recovery(log yalogger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered any) {
		requestLogger(ctx, log).Errorf("recovered from panic: %v", recovered)

		ctx.AbortWithStatus(http.StatusInternalServerError)
	})
}

func requestLogger(ctx *gin.Context, fallback yalogger.Logger) yalogger.Logger {
	if value, ok := ctx.Get(LoggerContextKey); ok {
		if log, ok := value.(yalogger.Logger); ok {
			return log
		}
	}

	return fallback
}

func abortWithError(ctx *gin.Context, err yaerrors.Error) {
	_ = ctx.Error(err)

	ctx.AbortWithStatus(http.StatusInternalServerError)
}
