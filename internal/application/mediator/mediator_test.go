package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
)

type pingQuery struct{ Name string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong " + request.(*pingQuery).Name, nil
}

func TestMediator_DispatchesThroughMiddlewareInOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))
	var trace []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.Use(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name)
			return next(ctx, req)
		})
	}

	// Act
	resp, err := m.Send(context.Background(), &pingQuery{Name: "ge"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong ge", resp)
	assert.Equal(t, []string{"outer", "inner"}, trace)
}

func TestMediator_RejectsUnknownAndDuplicate(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))
	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)
	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}
