package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/core"
)

// LoggingMiddleware logs every command with its duration, and the error when
// the handler fails
func LoggingMiddleware(logger *zap.Logger) core.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			start := time.Now()
			result, err := next.Handle(ctx)

			fields := []zap.Field{
				zap.String("command", ctx.GetCommandName()),
				zap.String("user_id", ctx.UserID),
				zap.String("guild_id", ctx.GuildID),
				zap.Duration("duration", time.Since(start)),
			}

			if err != nil {
				logger.Warn("command failed", append(fields, zap.Error(err))...)
				return result, err
			}

			logger.Info("command handled", fields...)
			return result, nil
		})
	}
}
