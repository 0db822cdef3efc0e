package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, lotID string, buffer int) *Client {
	return &Client{
		Hub:   hub,
		Send:  make(chan []byte, buffer),
		LotID: lotID,
		ID:    uuid.NewString(),
	}
}

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHub_BroadcastReachesLotSubscribersOnly(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	subA1 := newTestClient(hub, "lot-a", 4)
	subA2 := newTestClient(hub, "lot-a", 4)
	subB := newTestClient(hub, "lot-b", 4)
	hub.RegisterClient(subA1)
	hub.RegisterClient(subA2)
	hub.RegisterClient(subB)

	hub.BroadcastToLot("lot-a", []byte("going once"))

	assert.Equal(t, []byte("going once"), recv(t, subA1.Send))
	assert.Equal(t, []byte("going once"), recv(t, subA2.Send))
	select {
	case data := <-subB.Send:
		t.Fatalf("subscriber of another lot received %q", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sub := newTestClient(hub, "lot-a", 4)
	hub.RegisterClient(sub)
	hub.UnregisterClient(sub)

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.Send:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// broadcasting after the only subscriber left must not block or panic
	hub.BroadcastToLot("lot-a", []byte("anyone there"))
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := newTestClient(hub, "lot-a", 1)
	healthy := newTestClient(hub, "lot-a", 16)
	hub.RegisterClient(slow)
	hub.RegisterClient(healthy)

	// fill the slow client's buffer, the next delivery drops it
	hub.BroadcastToLot("lot-a", []byte("1"))
	hub.BroadcastToLot("lot-a", []byte("2"))
	hub.BroadcastToLot("lot-a", []byte("3"))

	require.Eventually(t, func() bool {
		return len(healthy.Send) == 3
	}, 2*time.Second, 10*time.Millisecond)

	// slow client's channel was closed by the hub
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-slow.Send:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
}
