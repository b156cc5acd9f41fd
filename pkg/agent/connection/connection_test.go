// SPDX-License-Identifier: LGPL-3.0-or-later

package connection_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sage-x-project/staticagent/pkg/agent/codec"
	"github.com/sage-x-project/staticagent/pkg/agent/connection"
	"github.com/sage-x-project/staticagent/pkg/agent/dispatcher"
	"github.com/sage-x-project/staticagent/pkg/agent/keys"
	"github.com/sage-x-project/staticagent/pkg/agent/message"
	"github.com/sage-x-project/staticagent/pkg/agent/peer"
	"github.com/sage-x-project/staticagent/pkg/agent/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKeyPair(t *testing.T) *keys.KeyPair {
	t.Helper()
	kp, err := keys.Generate()
	require.NoError(t, err)
	return kp
}

func newConn(t *testing.T, own *keys.KeyPair, addr *peer.Address, tr transport.Transport) (*connection.Connection, *dispatcher.MapDispatcher) {
	t.Helper()
	disp := dispatcher.New()
	return connection.New(own, addr, tr, disp), disp
}

// S1
func TestScenario_PeerAddressConstruction(t *testing.T) {
	verkey := bytesOf(1, 32)
	theirVK := bytesOf(3, 32)

	addr, err := peer.New("http://example/", theirVK, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{theirVK}, addr.RecipientKeys())

	own, err := keys.FromBytes(verkey, bytesOf(2, 64))
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(verkey), own.VerkeyB58())
	assert.Equal(t, base58.Encode(verkey[:16]), own.DID())
}

// S2
func TestScenario_PackUnpackRoundTrip_Authcrypt(t *testing.T) {
	sender := mustKeyPair(t)
	recipient := mustKeyPair(t)

	msg := message.New("p/1.0/x")
	msg.SetID("id1")
	msg["body"] = "y"

	packed, err := codec.Pack(msg, sender, [][]byte{recipient.Verkey}, codec.Opts{})
	require.NoError(t, err)

	out, mtc, err := codec.Unpack(packed, recipient)
	require.NoError(t, err)
	assert.Equal(t, "id1", out.ID())
	assert.Equal(t, message.AuthcryptKind, mtc.Kind)
	assert.Equal(t, []byte(sender.Verkey), mtc.SenderVK)
}

// S4
func TestScenario_ReplyChannelPreferredOverTransport(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, _ := newConn(t, own, addr, tr)

	var recorded []byte
	release := conn.ReplyHandler(func(packed []byte) error {
		recorded = packed
		return nil
	})
	defer release()

	msg := message.New("p/1.0/ping")
	msg.SetID("m1")

	err = conn.SendWithOptions(context.Background(), msg, connection.SendOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, recorded)
	assert.Empty(t, tr.SentMessages)
}

// S5
func TestScenario_HoldQueueOrderingAndDispatchBypass(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("http://peer/", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, disp := newConn(t, own, addr, tr)

	dispatched := false
	disp.AddHandler("p/1.0/x", dispatcher.HandlerFunc(func(ctx context.Context, msg message.Message, c dispatcher.Replier) error {
		dispatched = true
		return nil
	}))

	release := conn.Hold(nil)
	defer release()

	m1 := message.New("p/1.0/x")
	m1.SetID("m1")
	p1, err := codec.Pack(m1, peerKP, [][]byte{own.Verkey}, codec.Opts{})
	require.NoError(t, err)

	m2 := message.New("p/1.0/x")
	m2.SetID("m2")
	p2, err := codec.Pack(m2, peerKP, [][]byte{own.Verkey}, codec.Opts{})
	require.NoError(t, err)

	require.NoError(t, conn.Receive(context.Background(), p1))
	require.NoError(t, conn.Receive(context.Background(), p2))
	assert.False(t, dispatched)

	got1, err := conn.AwaitMessage(0)
	require.NoError(t, err)
	assert.Equal(t, "m1", got1.ID())

	got2, err := conn.AwaitMessage(0)
	require.NoError(t, err)
	assert.Equal(t, "m2", got2.ID())
}

// S6
func TestScenario_SendAndAwaitReply_Success(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("http://peer/", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	reply := message.New("p/1.0/pong")
	reply.SetID("reply1")
	packedReply, err := codec.Pack(reply, peerKP, [][]byte{own.Verkey}, codec.Opts{})
	require.NoError(t, err)

	tr := &transport.MockTransport{
		SendFunc: func(ctx context.Context, packed []byte, endpoint string, onResponse func([]byte), onError func(string)) error {
			onResponse(packedReply)
			return nil
		},
	}
	conn, _ := newConn(t, own, addr, tr)

	req := message.New("p/1.0/ping")
	req.SetID("req1")

	got, err := conn.RequestWithOptions(context.Background(), req, connection.RequestOptions{Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "reply1", got.ID())
}

func TestScenario_SendAndAwaitReply_TimeoutReleasesHold(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("http://peer/", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, disp := newConn(t, own, addr, tr)

	dispatched := false
	disp.AddHandler("p/1.0/x", dispatcher.HandlerFunc(func(ctx context.Context, msg message.Message, c dispatcher.Replier) error {
		dispatched = true
		return nil
	}))

	req := message.New("p/1.0/ping")
	req.SetID("req1")

	_, err = conn.RequestWithOptions(context.Background(), req, connection.RequestOptions{Timeout: 20 * time.Millisecond})
	require.Error(t, err)
	var timeoutErr *connection.TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)

	m := message.New("p/1.0/x")
	m.SetID("after-timeout")
	packed, err := codec.Pack(m, peerKP, [][]byte{own.Verkey}, codec.Opts{})
	require.NoError(t, err)
	require.NoError(t, conn.Receive(context.Background(), packed))
	assert.True(t, dispatched)
}

// Invariant 5: handle() for a frame without return_route clears any
// previously installed reply channel.
func TestInvariant_ReceiveClearsStaleReplyChannel(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, disp := newConn(t, own, addr, tr)
	disp.AddHandler("p/1.0/x", dispatcher.HandlerFunc(func(ctx context.Context, msg message.Message, c dispatcher.Replier) error {
		return nil
	}))

	release := conn.ReplyHandler(func(packed []byte) error { return nil })
	defer release()

	m := message.New("p/1.0/x")
	m.SetID("no-return-route")
	packed, err := codec.Pack(m, peerKP, [][]byte{own.Verkey}, codec.Opts{})
	require.NoError(t, err)
	require.NoError(t, conn.Receive(context.Background(), packed))

	var recorded []byte
	err = conn.SendWithOptions(context.Background(), message.New("p/1.0/y"), connection.SendOptions{})
	_ = recorded
	require.Error(t, err)
	var delivery *connection.DeliveryError
	assert.ErrorAs(t, err, &delivery)
}

// Invariant 8
func TestInvariant_NoEndpointNoReplyChannel_DeliveryErrorWithoutTransport(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, _ := newConn(t, own, addr, tr)

	err = conn.SendWithOptions(context.Background(), message.New("p/1.0/x"), connection.SendOptions{})
	var delivery *connection.DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.Empty(t, tr.SentMessages)
}

// Invariant 10
func TestInvariant_ReturnRouteInjectedWhenNoReplyChannel(t *testing.T) {
	own := mustKeyPair(t)
	peerKP := mustKeyPair(t)
	addr, err := peer.New("http://peer/", peerKP.Verkey, nil, nil)
	require.NoError(t, err)

	tr := &transport.MockTransport{}
	conn, _ := newConn(t, own, addr, tr)

	msg := message.New("p/1.0/x")
	require.NoError(t, conn.SendWithOptions(context.Background(), msg, connection.SendOptions{ReturnRoute: "all"}))

	rr, present := msg.ReturnRoute()
	assert.True(t, present)
	assert.Equal(t, "all", rr)

	last := tr.LastMessage()
	require.NotNil(t, last)
	_, _, err = codec.Unpack(last.Packed, peerKP)
	require.NoError(t, err)
}

func TestForwardChain_ThreeHopRoundTrip(t *testing.T) {
	finalPeer := mustKeyPair(t)
	mediatorR1 := mustKeyPair(t)
	mediatorR2 := mustKeyPair(t)
	sender := mustKeyPair(t)

	msg := message.New("p/1.0/x")
	msg.SetID("m0")
	inner, err := codec.Pack(msg, sender, [][]byte{finalPeer.Verkey}, codec.Opts{})
	require.NoError(t, err)

	wrapped, err := codec.WrapForward(inner, finalPeer.Verkey, [][]byte{mediatorR1.Verkey, mediatorR2.Verkey})
	require.NoError(t, err)

	outer, _, err := codec.Unpack(wrapped, mediatorR2)
	require.NoError(t, err)
	assert.Equal(t, "https://didcomm.org/routing/1.0/forward", outer.Type())
	assert.Equal(t, base58.Encode(mediatorR1.Verkey), outer["to"])

	e1, err := json.Marshal(outer["msg"])
	require.NoError(t, err)
	mid, _, err := codec.Unpack(e1, mediatorR1)
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(finalPeer.Verkey), mid["to"])

	e0, err := json.Marshal(mid["msg"])
	require.NoError(t, err)
	final, _, err := codec.Unpack(e0, finalPeer)
	require.NoError(t, err)
	assert.Equal(t, "m0", final.ID())
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
