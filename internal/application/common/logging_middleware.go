package common

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
)

// LoggingMiddleware logs every command and query at debug level, and failures at warn
func LoggingMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
		logger := LoggerFromContext(ctx).With("request", name)

		start := time.Now()
		resp, err := next(WithLogger(ctx, logger), request)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("request failed", "duration", elapsed, "error", err)
			return resp, err
		}
		logger.Debug("request handled", "duration", elapsed)
		return resp, nil
	}
}
