// Package pipeline implements the multi-stage concurrent engine that
// moves ITS exchanges from the broker through dispatch, analysis,
// filtering, and back out: the stage graph described in spec §4.F/§5.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/orange-its/go-mqtt-client/config"
	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/orange-its/go-mqtt-client/introspection"
	"github.com/orange-its/go-mqtt-client/mobility/quadkey"
	"github.com/orange-its/go-mqtt-client/telemetry"
	"github.com/orange-its/go-mqtt-client/transport/mqttclient"
	"github.com/orange-its/go-mqtt-client/transport/router"
	"github.com/orange-its/go-mqtt-client/transport/topic"
)

const (
	minBackoff     = 1 * time.Second
	maxBackoff     = 60 * time.Second
	reconnectSleep = 5 * time.Second
)

// Options configures one run of the pipeline.
type Options struct {
	Configuration   *config.Configuration
	Logger          Logger
	InstanceID      string
	Topics          []string
	Router          *router.Router
	AnalyzerFactory AnalyzerFactory
	AnalyzerContext any
	WorkerCount     int
	Region          quadkey.Quadtree
	InformationCell *Context[*exchange.Information]
	Collector       *introspection.Collector

	// PublishRateLimit caps outbound publishes per ITS message type per
	// PublishRateWindow (defaults to one second). Zero disables limiting.
	PublishRateLimit  int
	PublishRateWindow time.Duration

	// BreakerFailureThreshold and BreakerResetTimeout configure the
	// publish circuit breaker per message type. Both default when zero.
	BreakerFailureThreshold int
	BreakerResetTimeout     time.Duration
}

// Run is the outer reconnect loop: it builds a fresh broker connection
// and stage graph each cycle, runs it to completion (which only happens
// on an unrecoverable connection loss or ctx cancellation), and sleeps
// between cycles. It has no exit condition besides ctx cancellation,
// matching §5's "runs until killed" model.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		return fmt.Errorf("pipeline: logger is required")
	}
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := runCycle(ctx, opts); err != nil {
			opts.Logger.Error("pipeline: cycle ended", "error", err)
		}
		telemetry.RecordReconnect()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectSleep):
		}
	}
}

func runCycle(ctx context.Context, opts Options) error {
	mqttCfg, err := opts.Configuration.Mqtt()
	if err != nil {
		return fmt.Errorf("pipeline: read mqtt configuration: %w", err)
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := mqttclient.New(cycleCtx, mqttclient.Options{
		Host:              mqttCfg.Host,
		Port:              mqttCfg.Port,
		ClientID:          mqttCfg.ClientID,
		Username:          mqttCfg.Username,
		Password:          mqttCfg.Password,
		UseTLS:            mqttCfg.UseTLS,
		UseWebsocket:      mqttCfg.UseWebsocket,
		ConnectionTimeout: time.Duration(mqttCfg.ConnectionTimeout) * time.Second,
	}, opts.Logger)
	if err != nil {
		return fmt.Errorf("pipeline: create mqtt client: %w", err)
	}

	awaitCtx, awaitCancel := context.WithTimeout(cycleCtx, connectionAwaitTimeout(mqttCfg.ConnectionTimeout))
	err = client.AwaitConnection(awaitCtx)
	awaitCancel()
	if err != nil {
		return fmt.Errorf("pipeline: initial connection failed: %w", err)
	}
	topics := make([]topic.Topic, 0, len(opts.Topics))
	for _, t := range opts.Topics {
		topics = append(topics, topic.ParseTopic(t))
	}
	if err := client.Subscribe(cycleCtx, topic.SubscriptionStrings(topics)); err != nil {
		return fmt.Errorf("pipeline: subscribe: %w", err)
	}

	workerCount := opts.WorkerCount
	if workerCount <= 0 {
		workerCount, _ = config.GetOr(opts.Configuration, "mobility", "thread_count", runtime.NumCPU())
		if workerCount <= 0 {
			workerCount = runtime.NumCPU()
		}
	}

	node := opts.Configuration.Node()
	publishRateLimit := opts.PublishRateLimit
	if publishRateLimit <= 0 {
		publishRateLimit = node.PublishRateLimit
	}
	breakerFailureThreshold := opts.BreakerFailureThreshold
	if breakerFailureThreshold <= 0 {
		breakerFailureThreshold = node.BreakerFailureThreshold
	}
	breakerResetTimeout := opts.BreakerResetTimeout
	if breakerResetTimeout <= 0 && node.BreakerResetSeconds > 0 {
		breakerResetTimeout = time.Duration(node.BreakerResetSeconds) * time.Second
	}
	sequenceNumber := exchange.NewSequenceNumber(exchange.DefaultSequenceModulus)
	graph := &stageGraph{
		instanceID:     opts.InstanceID,
		logger:         opts.Logger,
		router:         opts.Router,
		filter:         newRegionFilter(node.ResponsibilityEnabled, opts.Region),
		monitor:        telemetry.NewMonitor(opts.Logger),
		analyzeFactory: opts.AnalyzerFactory,
		workerCount:    workerCount,
		collector:      opts.Collector,
		sequenceNumber: sequenceNumber,
		limiter:        newCongestionLimiter(publishRateLimit, opts.PublishRateWindow),
		breaker:        newPublishBreaker(opts.Logger, breakerFailureThreshold, breakerResetTimeout),
		dispatchIn:     newUnboundedChannel[mqttclient.Event](),
		toAnalyze:      newUnboundedChannel[Packet](),
		toFilter:       newUnboundedChannel[Packet](),
		toMonitorRx:    newUnboundedChannel[Packet](),
		toMonitorTx:    newUnboundedChannel[Packet](),
		toPublish:      newUnboundedChannel[Packet](),
		toInfo:         newUnboundedChannel[Packet](),
	}

	var analyzers []Analyzer
	for i := 0; i < workerCount; i++ {
		analyzers = append(analyzers, opts.AnalyzerFactory(opts.Configuration, opts.AnalyzerContext, sequenceNumber))
	}

	dispatchDone := runTrackedRecovered(opts.Logger, "dispatch", graph.runDispatch)
	monitorRxDone := runTrackedRecovered(opts.Logger, "monitor-reception", func() { graph.runMonitor("monitor-reception", graph.toMonitorRx, telemetry.DirectionReceivedOn) })
	informationDone := runTrackedRecovered(opts.Logger, "information", func() { graph.runInformation(opts.InformationCell) })
	analyzeDone := make([]chan struct{}, len(analyzers))
	for i, analyzer := range analyzers {
		analyzeDone[i] = runTracked(func() { graph.runAnalyzeWorker(i, analyzer) })
	}
	filterDone := runTrackedRecovered(opts.Logger, "filter", graph.runFilter)
	monitorTxDone := runTrackedRecovered(opts.Logger, "monitor-sent", func() { graph.runMonitor("monitor-sent", graph.toMonitorTx, telemetry.DirectionSentOn) })

	graph.wg.Add(1)
	go graph.runPublish(cycleCtx, client)

	backoff := minBackoff
	listenErr := runListen(cycleCtx, client, graph, opts.Logger, &backoff)

	_ = client.Disconnect(context.Background())

	// Join order matches §5: listen (above), dispatch, monitor-received,
	// configuration (information), analysis pool, filter, monitor-sent.
	<-dispatchDone
	<-monitorRxDone
	<-informationDone
	for _, done := range analyzeDone {
		<-done
	}
	<-filterDone
	<-monitorTxDone
	graph.wg.Wait()

	return listenErr
}

func runTracked(fn func()) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

// runListen is the async Listen task: it forwards broker events into the
// dispatch stage and applies the exponential backoff policy on
// connection errors, resetting on the next successful event.
func runListen(ctx context.Context, client *mqttclient.Client, graph *stageGraph, logger Logger, backoff *time.Duration) error {
	defer graph.dispatchIn.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-client.Events():
			*backoff = minBackoff
			graph.dispatchIn.Send(event)
		case connErr := <-client.ConnectionErrors():
			logger.Warn("pipeline: connection error, backing off", "error", connErr, "backoff", backoff.String())
			if graph.collector != nil {
				graph.collector.SetBackoff(*backoff)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(*backoff):
			}
			*backoff *= 2
			if *backoff > maxBackoff {
				*backoff = maxBackoff
			}
		case <-client.ConnectionUp():
			*backoff = minBackoff
		}
	}
}

func connectionAwaitTimeout(configuredSeconds int) time.Duration {
	if configuredSeconds > 5 {
		return time.Duration(configuredSeconds) * time.Second
	}
	return 5 * time.Second
}
