package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnboundedChannelFIFO(t *testing.T) {
	ch := newUnboundedChannel[int]()
	ch.Send(1)
	ch.Send(2)
	ch.Send(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := ch.Receive()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestUnboundedChannelReceiveBlocksUntilSend(t *testing.T) {
	ch := newUnboundedChannel[string]()
	result := make(chan string, 1)
	go func() {
		v, ok := ch.Receive()
		require.True(t, ok)
		result <- v
	}()

	select {
	case <-result:
		t.Fatal("receive returned before any send")
	case <-time.After(20 * time.Millisecond):
	}

	ch.Send("hello")
	select {
	case v := <-result:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("receive did not unblock after send")
	}
}

func TestUnboundedChannelCloseDrainsThenReportsClosed(t *testing.T) {
	ch := newUnboundedChannel[int]()
	ch.Send(1)
	ch.Send(2)
	ch.Close()

	v, ok := ch.Receive()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = ch.Receive()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = ch.Receive()
	assert.False(t, ok)
}

func TestUnboundedChannelSendAfterCloseIsNoop(t *testing.T) {
	ch := newUnboundedChannel[int]()
	ch.Close()
	ch.Send(1)

	_, ok := ch.Receive()
	assert.False(t, ok)
}
