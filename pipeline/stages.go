package pipeline

import (
	"context"
	"encoding/json"
	"runtime"
	"sync"

	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/orange-its/go-mqtt-client/introspection"
	"github.com/orange-its/go-mqtt-client/telemetry"
	"github.com/orange-its/go-mqtt-client/transport/mqttclient"
	"github.com/orange-its/go-mqtt-client/transport/router"
	"github.com/orange-its/go-mqtt-client/transport/topic"
)

// Logger is the structured logging interface every stage reports
// through.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// stageGraph wires the dedicated-thread stages and the analyze worker
// pool together with unbounded channels, per §5's concurrency model.
// Listen and Publish are async tasks owned by the caller (run); every
// other stage here is a dedicated goroutine locked to its own OS thread.
type stageGraph struct {
	instanceID      string
	logger          Logger
	router          *router.Router
	filter          regionFilter
	monitor         *telemetry.Monitor
	analyzeFactory  AnalyzerFactory
	workerCount     int
	configuration   any
	analyzerContext any
	sequenceNumber  *exchange.SequenceNumber
	collector       *introspection.Collector
	limiter         *congestionLimiter
	breaker         *publishBreaker

	dispatchIn  *unboundedChannel[mqttclient.Event]
	toAnalyze   *unboundedChannel[Packet]
	toFilter    *unboundedChannel[Packet]
	toMonitorRx *unboundedChannel[Packet]
	toMonitorTx *unboundedChannel[Packet]
	toPublish   *unboundedChannel[Packet]
	toInfo      *unboundedChannel[Packet]

	wg sync.WaitGroup
}

func lockedThread(name string, logger Logger, fn func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	logger.Debug("pipeline: thread started", "thread", name)
	fn()
	logger.Debug("pipeline: thread stopped", "thread", name)
}

func (g *stageGraph) incReceived() {
	if g.collector != nil {
		g.collector.IncReceived()
	}
}

func (g *stageGraph) incFiltered() {
	if g.collector != nil {
		g.collector.IncFiltered()
	}
}

func (g *stageGraph) incSent() {
	if g.collector != nil {
		g.collector.IncSent()
	}
}

func (g *stageGraph) reportSequenceNumber() {
	if g.collector != nil && g.sequenceNumber != nil {
		g.collector.SetSequenceNumber(g.sequenceNumber.Peek())
	}
}

// runDispatch classifies every inbound MQTT event through the router and
// fans a successfully deserialized Exchange packet out to monitoring and
// analysis; an Information packet goes to the information stage instead.
// Deserialization failures are logged and dropped, never propagated.
func (g *stageGraph) runDispatch() {
	lockedThread("mqtt-router-dispatcher", g.logger, func() {
		for {
			event, ok := g.dispatchIn.Receive()
			if !ok {
				g.toMonitorRx.Close()
				g.toAnalyze.Close()
				g.toInfo.Close()
				return
			}
			packet, ok := g.router.Dispatch(router.PublishEvent{
				Topic: event.Topic, Payload: event.Payload, UserProperties: event.UserProperties,
			})
			if !ok {
				continue
			}
			t, err := topicFromRoute(packet.Topic)
			if err != nil {
				g.logger.Error("pipeline: cannot parse dispatched topic", "topic", packet.Topic, "error", err)
				continue
			}
			p := Packet{Topic: t, Exchange: packet.Exchange, Information: packet.Information, UserProperties: packet.UserProperties}
			if packet.Information != nil {
				g.toInfo.Send(p)
				continue
			}
			if packet.Exchange != nil {
				telemetry.RecordReceived(packet.Exchange.TypeField)
				g.incReceived()
				g.reportSequenceNumber()
			}
			g.toMonitorRx.Send(p.Clone())
			g.toAnalyze.Send(p)
		}
	})
}

// runFilter applies the region-of-responsibility gate and forwards
// surviving packets to monitoring and publish.
func (g *stageGraph) runFilter() {
	lockedThread("filter", g.logger, func() {
		for {
			packet, ok := g.toFilter.Receive()
			if !ok {
				g.toMonitorTx.Close()
				g.toPublish.Close()
				return
			}
			if !g.filter.Accept(packet) {
				if packet.Exchange != nil {
					telemetry.RecordFiltered(packet.Exchange.TypeField)
					g.incFiltered()
				}
				continue
			}
			g.toMonitorTx.Send(packet.Clone())
			g.toPublish.Send(packet)
		}
	})
}

// runMonitor drains a monitoring channel, emitting a trace record for
// every Exchange packet it sees.
func (g *stageGraph) runMonitor(name string, channel *unboundedChannel[Packet], direction telemetry.Direction) {
	lockedThread(name, g.logger, func() {
		for {
			packet, ok := channel.Receive()
			if !ok {
				return
			}
			if packet.Exchange == nil {
				continue
			}
			cause := telemetry.CauseFromExchange(packet.Exchange)
			g.monitor.Record(telemetry.NewTraceRecord(direction, g.instanceID, g.instanceID, packet.Topic.AsRoute(), packet.Exchange, &cause))
		}
	})
}

// runInformation maintains the shared Information cell: reads INFO
// packets and updates whatever *Context[*exchange.Information] the
// caller wired in.
func (g *stageGraph) runInformation(cell *Context[*exchange.Information]) {
	lockedThread("reader-configurator", g.logger, func() {
		for {
			packet, ok := g.toInfo.Receive()
			if !ok {
				return
			}
			if packet.Information == nil || cell == nil {
				continue
			}
			info := packet.Information
			cell.Write(func(*exchange.Information) *exchange.Information { return info })
		}
	})
}

// runAnalyzeWorker is one member of the fixed-size analyze pool: it owns
// its own Analyzer instance and feeds results to the filter stage.
func (g *stageGraph) runAnalyzeWorker(index int, analyzer Analyzer) {
	lockedThread("analyze-worker", g.logger, func() {
		for {
			packet, ok := g.toAnalyze.Receive()
			if !ok {
				return
			}
			for _, out := range analyzer.Analyze(packet) {
				g.toFilter.Send(out)
			}
		}
	})
}

// runPublish is the async publish task: it drains the publish channel and
// sends each packet to the broker, propagating the active trace context
// via MQTT user-properties.
func (g *stageGraph) runPublish(ctx context.Context, client *mqttclient.Client) {
	defer g.wg.Done()
	for {
		packet, ok := g.toPublish.Receive()
		if !ok {
			return
		}
		if packet.Exchange == nil {
			continue
		}
		msgType := packet.Exchange.TypeField
		if g.limiter != nil && !g.limiter.Allow(msgType) {
			g.logger.Warn("pipeline: publish dropped by congestion limiter", "message_type", msgType)
			continue
		}
		if g.breaker != nil && !g.breaker.Allow(msgType) {
			g.logger.Warn("pipeline: publish dropped by open circuit", "message_type", msgType)
			continue
		}
		payload, err := json.Marshal(packet.Exchange)
		if err != nil {
			g.logger.Error("pipeline: cannot marshal outbound exchange", "error", err)
			continue
		}
		carrier := telemetry.UserPropertyCarrier(packet.UserProperties)
		if carrier == nil {
			carrier = telemetry.UserPropertyCarrier{}
		}
		telemetry.Inject(ctx, carrier)
		err = client.Publish(ctx, packet.Topic.String(), payload, 0, carrier)
		g.breaker.RecordResult(msgType, err)
		if err != nil {
			g.logger.Warn("pipeline: publish failed", "topic", packet.Topic.String(), "error", err)
			continue
		}
		telemetry.RecordSent(msgType)
		g.incSent()
	}
}

func topicFromRoute(raw string) (topic.Topic, error) {
	if gt, err := topic.ParseGeoTopic(raw); err == nil {
		return gt, nil
	}
	return topic.ParseStrTopic(raw), nil
}
