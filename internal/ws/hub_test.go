package ws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failWith error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewHub(zerolog.Nop())
	go h.Run(ctx)
	return h
}

func TestHubScopesMessagesToCompany(t *testing.T) {
	h := startHub(t)

	a := &fakeConn{}
	b := &fakeConn{}
	h.Register <- &Client{Conn: a, CompanyID: "c1", SubjectID: "e1"}
	h.Register <- &Client{Conn: b, CompanyID: "c2", SubjectID: "e2"}

	h.SendToCompany("c1", []byte(`{"type":"sale_created"}`))

	require.Eventually(t, func() bool { return a.received() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.received())
}

func TestHubSendToSubjects(t *testing.T) {
	h := startHub(t)

	a := &fakeConn{}
	b := &fakeConn{}
	h.Register <- &Client{Conn: a, CompanyID: "c1", SubjectID: "e1"}
	h.Register <- &Client{Conn: b, CompanyID: "c1", SubjectID: "e2"}

	h.SendToSubjects("c1", []string{"e2"}, []byte("hi"))

	require.Eventually(t, func() bool { return b.received() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, a.received())
}

func TestHubDropsFailingClient(t *testing.T) {
	h := startHub(t)

	bad := &fakeConn{failWith: errors.New("broken pipe")}
	h.Register <- &Client{Conn: bad, CompanyID: "c1"}
	h.SendToCompany("c1", []byte("x"))

	require.Eventually(t, bad.isClosed, time.Second, 5*time.Millisecond)
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	conn := &fakeConn{}
	h.Register <- &Client{Conn: conn, CompanyID: "c1"}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.True(t, conn.isClosed())
}

func TestHubJoinLeaveAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := &Client{Conn: &fakeConn{}, CompanyID: "c1"}
	require.True(t, h.Join(c))
	cancel()
	<-done

	late := &Client{Conn: &fakeConn{}, CompanyID: "c1"}
	assert.False(t, h.Join(late))

	left := make(chan struct{})
	go func() {
		h.Leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked after shutdown")
	}
}
