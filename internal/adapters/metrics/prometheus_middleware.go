package metrics

import (
	"context"
	"reflect"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
)

// PrometheusMiddleware times every mediator request and counts its outcome,
// labelled by the bare request type name, e.g. "GenerateSuggestionsQuery".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(requestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
