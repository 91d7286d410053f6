package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/drivebuddy/internal/cryptox"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestState_ErrorText(t *testing.T) {
	assert.Empty(t, State{}.ErrorText())
	assert.Empty(t, State{Message: &Message{Kind: MessageInfo, Text: "hi"}}.ErrorText())
	assert.Equal(t, "boom", State{Message: &Message{Kind: MessageError, Text: "boom"}}.ErrorText())
}

func TestMessageKind_String(t *testing.T) {
	assert.Equal(t, "error", MessageError.String())
	assert.Equal(t, "info", MessageInfo.String())
}

func TestState_SnapshotIsDetached(t *testing.T) {
	g, _, _ := newTestGate(t, cryptox.SHA256Hasher{})
	_ = g.Login(context.Background(), "", "")

	snap := g.State()
	require.NotNil(t, snap.Message)
	snap.Message.Text = "mutated"

	assert.Equal(t, ErrFieldsRequired.Error(), g.State().ErrorText())
}

func TestSubscribe_DeliversCurrentThenLatest(t *testing.T) {
	g := NewAuthGate(nil, nil, cryptox.SHA256Hasher{}, logging.Discard())

	ch, cancel := g.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, State{}, first)

	// several updates without reading: only the newest is kept
	g.Logout()
	g.mu.Lock()
	g.state.Email = "b@example.com"
	g.publish()
	g.mu.Unlock()

	got := <-ch
	assert.Equal(t, "b@example.com", got.Email)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot: %+v", extra)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	g := NewAuthGate(nil, nil, cryptox.SHA256Hasher{}, logging.Discard())
	ch, cancel := g.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	received := 0
	go func() {
		defer wg.Done()
		for range ch {
			received++
		}
	}()

	for i := 0; i < 10; i++ {
		g.Logout()
	}
	cancel()
	cancel()
	wg.Wait()

	assert.GreaterOrEqual(t, received, 1)

	// publishing after cancel must not panic on the closed channel
	g.Logout()
}

func TestSubscribe_ObservesRegisterOutcome(t *testing.T) {
	g, _, _ := newTestGate(t, cryptox.SHA256Hasher{})
	ch, cancel := g.Subscribe()
	defer cancel()
	<-ch

	require.NoError(t, g.Register(context.Background(), "alice@example.com", "secret1"))

	st := <-ch
	require.NotNil(t, st.Message)
	assert.Equal(t, MessageInfo, st.Message.Kind)
	assert.Equal(t, MsgRegistered, st.Message.Text)
}
