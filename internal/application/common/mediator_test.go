package common_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/application/common"
)

type pingQuery struct{ Name string }

type pingHandler struct{}

func (h *pingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q := request.(pingQuery)
	return "pong " + q.Name, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[pingQuery](m, &pingHandler{}))

	result, err := m.Send(context.Background(), pingQuery{Name: "Batumi"})

	require.NoError(t, err)
	assert.Equal(t, "pong Batumi", result)
}

func TestMediator_UnregisteredTypeFails(t *testing.T) {
	m := common.NewMediator()

	_, err := m.Send(context.Background(), pingQuery{})

	assert.Error(t, err)
}

func TestMediator_DoubleRegistrationFails(t *testing.T) {
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[pingQuery](m, &pingHandler{}))

	assert.Error(t, common.RegisterHandler[pingQuery](m, &pingHandler{}))
}

func TestMediator_NilRequestFails(t *testing.T) {
	m := common.NewMediator()

	_, err := m.Send(context.Background(), nil)

	assert.Error(t, err)
}
