package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/orange-its/go-mqtt-client/transport/topic"
)

func TestPacketCloneDeepCopiesUserProperties(t *testing.T) {
	original := Packet{
		Topic:          topic.ParseStrTopic("5GCroCo/outQueue/info"),
		UserProperties: map[string]string{"traceparent": "00-abc"},
	}
	clone := original.Clone()
	clone.UserProperties["traceparent"] = "mutated"

	assert.Equal(t, "00-abc", original.UserProperties["traceparent"])
	assert.Equal(t, "mutated", clone.UserProperties["traceparent"])
}

func TestPacketCloneSharesExchangePointer(t *testing.T) {
	original := Packet{Topic: topic.ParseStrTopic("x"), Exchange: &exchange.Exchange{TypeField: "cam"}}
	clone := original.Clone()
	assert.NotNil(t, clone.Exchange)
	assert.Same(t, original.Exchange, clone.Exchange)
}

func TestContextReadSeesLatestWrite(t *testing.T) {
	ctx := NewContext(0)
	ctx.Write(func(v int) int { return v + 1 })
	ctx.Write(func(v int) int { return v + 1 })

	var observed int
	ctx.Read(func(v int) { observed = v })
	assert.Equal(t, 2, observed)
}

func TestContextConcurrentWritesAreSerialized(t *testing.T) {
	ctx := NewContext(0)
	done := make(chan struct{})
	const iterations = 1000
	go func() {
		for i := 0; i < iterations; i++ {
			ctx.Write(func(v int) int { return v + 1 })
		}
		close(done)
	}()
	for i := 0; i < iterations; i++ {
		ctx.Write(func(v int) int { return v + 1 })
	}
	<-done

	var observed int
	ctx.Read(func(v int) { observed = v })
	assert.Equal(t, 2*iterations, observed)
}
