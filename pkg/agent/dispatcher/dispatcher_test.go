// SPDX-License-Identifier: LGPL-3.0-or-later

package dispatcher_test

import (
	"context"
	"testing"

	"github.com/sage-x-project/staticagent/pkg/agent/dispatcher"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReplier struct{}

func (stubReplier) Send(ctx context.Context, msg message.Message) error { return nil }
func (stubReplier) SendAndAwaitReply(ctx context.Context, msg message.Message) (message.Message, error) {
	return nil, nil
}

func TestDispatch_CallsRegisteredHandler(t *testing.T) {
	d := dispatcher.New()
	called := false
	d.AddHandler("did:sage:ping", dispatcher.HandlerFunc(func(ctx context.Context, msg message.Message, conn dispatcher.Replier) error {
		called = true
		return nil
	}))

	err := d.Dispatch(context.Background(), message.New("did:sage:ping"), stubReplier{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDispatch_NoHandlerReturnsError(t *testing.T) {
	d := dispatcher.New()
	err := d.Dispatch(context.Background(), message.New("did:sage:unknown"), stubReplier{})
	assert.Error(t, err)
}

func TestClearHandlers(t *testing.T) {
	d := dispatcher.New()
	d.AddHandler("x", dispatcher.HandlerFunc(func(context.Context, message.Message, dispatcher.Replier) error { return nil }))
	d.ClearHandlers()

	err := d.Dispatch(context.Background(), message.New("x"), stubReplier{})
	assert.Error(t, err)
}

func TestAddHandlers(t *testing.T) {
	d := dispatcher.New()
	calls := map[string]bool{}
	d.AddHandlers(map[string]dispatcher.Handler{
		"a": dispatcher.HandlerFunc(func(context.Context, message.Message, dispatcher.Replier) error { calls["a"] = true; return nil }),
		"b": dispatcher.HandlerFunc(func(context.Context, message.Message, dispatcher.Replier) error { calls["b"] = true; return nil }),
	})

	require.NoError(t, d.Dispatch(context.Background(), message.New("a"), stubReplier{}))
	require.NoError(t, d.Dispatch(context.Background(), message.New("b"), stubReplier{}))
	assert.True(t, calls["a"])
	assert.True(t, calls["b"])
}
