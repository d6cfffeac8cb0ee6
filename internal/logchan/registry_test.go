package logchan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memChannel struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (c *memChannel) WriteText(_ context.Context, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *memChannel) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func TestSendToUnknownClientIsDropped(t *testing.T) {
	r := NewRegistry(0)
	assert.NotPanics(t, func() { r.Send(context.Background(), "nobody", Text("hello")) })
	assert.Equal(t, 0, r.Len())
}

func TestConnectReplacesPreviousChannel(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	c1, c2 := &memChannel{}, &memChannel{}

	r.Connect(ctx, "A", c1)
	r.Connect(ctx, "A", c2)
	r.Send(ctx, "A", Text("line"))

	assert.Empty(t, c1.messages())
	assert.Equal(t, []string{"line"}, c2.messages())
	assert.Equal(t, 1, r.Len())
}

func TestStaleDisconnectKeepsSuccessor(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	c1, c2 := &memChannel{}, &memChannel{}

	r.Connect(ctx, "A", c1)
	r.Connect(ctx, "A", c2)
	r.Disconnect(ctx, "A", c1)
	require.True(t, r.Connected("A"))

	r.Send(ctx, "A", Text("still here"))
	assert.Equal(t, []string{"still here"}, c2.messages())

	r.Disconnect(ctx, "A", c2)
	assert.False(t, r.Connected("A"))
	r.Disconnect(ctx, "A", c2)
}

func TestEventsAfterDisconnectAreLost(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	c1, c2 := &memChannel{}, &memChannel{}

	r.Connect(ctx, "A", c1)
	r.Disconnect(ctx, "A", c1)
	r.Send(ctx, "A", Text("lost"))
	r.Connect(ctx, "A", c2)
	r.Send(ctx, "A", Text("kept"))

	assert.Empty(t, c1.messages())
	assert.Equal(t, []string{"kept"}, c2.messages())
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	r.Connect(ctx, "A", &memChannel{err: errors.New("broken pipe")})

	assert.NotPanics(t, func() { r.Send(ctx, "A", Text("x")) })
	assert.True(t, r.Connected("A"))
}

func TestPerClientOrdering(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	a, b := &memChannel{}, &memChannel{}
	r.Connect(ctx, "A", a)
	r.Connect(ctx, "B", b)

	var wg sync.WaitGroup
	for _, id := range []string{"A", "B"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Send(ctx, id, Text(fmt.Sprintf("%s-%d", id, i)))
			}
		}(id)
	}
	wg.Wait()

	for id, ch := range map[string]*memChannel{"A": a, "B": b} {
		msgs := ch.messages()
		require.Len(t, msgs, 50)
		for i, m := range msgs {
			assert.Equal(t, fmt.Sprintf("%s-%d", id, i), m)
		}
	}
}

func TestResultEncoding(t *testing.T) {
	msg, err := Result("<h1>Compte rendu</h1>").Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"result","html":"<h1>Compte rendu</h1>"}`, msg)

	line, err := Text("✅ Transcription terminée.").Encode()
	require.NoError(t, err)
	assert.Equal(t, "✅ Transcription terminée.", line)
}

func TestClientSinkForwardsToItsClient(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(time.Second)
	mine, other := &memChannel{}, &memChannel{}
	r.Connect(ctx, "mine", mine)
	r.Connect(ctx, "other", other)

	sink := Bind(r, "mine")
	sink.Log(ctx, "📝 Texte brut reçu directement.")
	sink.PushResult(ctx, "<p>ok</p>")

	msgs := mine.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "📝 Texte brut reçu directement.", msgs[0])
	assert.Contains(t, msgs[1], `"type":"result"`)
	assert.Empty(t, other.messages())
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	s.Log(context.Background(), "one")
	s.Log(context.Background(), "two")
	assert.Equal(t, "one\ntwo\n", buf.String())

	assert.Equal(t, Discard, OrDiscard(nil))
	assert.Equal(t, Sink(s), OrDiscard(s))
}

func TestWSChannelDelivers(t *testing.T) {
	r := NewRegistry(time.Second)
	ready := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, nil)
		if err != nil {
			return
		}
		ch := NewWSChannel(conn)
		r.Connect(req.Context(), "ws-client", ch)
		close(ready)
		_ = ch.Drain(req.Context())
		r.Disconnect(req.Context(), "ws-client", ch)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	<-ready
	r.Send(ctx, "ws-client", Text("🚀 Traitement terminé ! Affichage du résultat..."))

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Equal(t, "🚀 Traitement terminé ! Affichage du résultat...", string(data))

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("ignored")))
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return !r.Connected("ws-client") }, 2*time.Second, 10*time.Millisecond)
}
