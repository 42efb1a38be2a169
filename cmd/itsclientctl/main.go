// Command itsclientctl is a thin driver that loads an INI configuration,
// optionally performs the bootstrap handshake, wires a topic router and
// telemetry, and runs the pipeline until interrupted.
//
// Usage:
//
//	itsclientctl -c /etc/its/client.ini
//	itsclientctl -c ./client.ini --log-level debug --otlp-endpoint otel-collector:4317
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/orange-its/go-mqtt-client/bootstrap"
	"github.com/orange-its/go-mqtt-client/config"
	"github.com/orange-its/go-mqtt-client/exchange"
	"github.com/orange-its/go-mqtt-client/introspection"
	"github.com/orange-its/go-mqtt-client/pipeline"
	"github.com/orange-its/go-mqtt-client/telemetry"
	"github.com/orange-its/go-mqtt-client/transport/router"
)

// stdLogger implements the module's common Logger shape (Debug/Info/Warn/
// Error) over the standard library logger, gated by a minimum level.
type stdLogger struct {
	level int
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) int {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *stdLogger) log(level int, tag, msg string, keysAndValues ...any) {
	if level < l.level {
		return
	}
	log.Printf("[%s] %s %v", tag, msg, keysAndValues)
}

func (l *stdLogger) Debug(msg string, kv ...any) { l.log(levelDebug, "DEBUG", msg, kv...) }
func (l *stdLogger) Info(msg string, kv ...any)  { l.log(levelInfo, "INFO", msg, kv...) }
func (l *stdLogger) Warn(msg string, kv ...any)  { l.log(levelWarn, "WARN", msg, kv...) }
func (l *stdLogger) Error(msg string, kv ...any) { l.log(levelError, "ERROR", msg, kv...) }

// passthroughAnalyzer forwards every received packet unchanged. It exists
// so this binary runs end to end out of the box; real deployments supply
// their own pipeline.AnalyzerFactory.
type passthroughAnalyzer struct{}

func (passthroughAnalyzer) Analyze(packet pipeline.Packet) []pipeline.Packet {
	return []pipeline.Packet{packet}
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "path to the INI configuration file")
	flag.StringVar(&configPath, "config", "", "path to the INI configuration file")
	logLevel := flag.String("log-level", "info", "minimum log level: debug, info, warn, error")
	otlpEndpoint := flag.String("otlp-endpoint", "", "OTLP/gRPC trace collector endpoint (tracing disabled if empty)")
	introspectAddr := flag.String("introspect-addr", ":9090", "gRPC introspection service listen address")
	flag.Parse()

	logger := &stdLogger{level: parseLevel(*logLevel)}

	if configPath == "" {
		logger.Error("itsclientctl: -c/--config is required")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("itsclientctl: load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mqttCfg, err := cfg.Mqtt()
	if err != nil {
		logger.Error("itsclientctl: read mqtt configuration", "error", err)
		os.Exit(1)
	}

	if bootstrapCfg, ok, err := cfg.Bootstrap(); err != nil {
		logger.Error("itsclientctl: read bootstrap configuration", "error", err)
		os.Exit(1)
	} else if ok {
		client := bootstrap.NewClient(bootstrapCfg.Host, bootstrapCfg.Port, bootstrapCfg.Path, bootstrapCfg.Username, bootstrapCfg.Password, mqttCfg.UseTLS)
		resp, err := client.Handshake(ctx, bootstrap.Request{
			UEID:        mqttCfg.ClientID,
			PSKLogin:    bootstrapCfg.Username,
			PSKPassword: bootstrapCfg.Password,
			Role:        bootstrapCfg.Role,
		})
		if err != nil {
			logger.Error("itsclientctl: bootstrap handshake failed", "error", err)
			os.Exit(1)
		}
		protocol, err := bootstrap.SelectProtocol(resp, mqttCfg.UseTLS, mqttCfg.UseWebsocket)
		if err != nil {
			logger.Error("itsclientctl: bootstrap protocol selection failed", "error", err)
			os.Exit(1)
		}
		logger.Info("itsclientctl: bootstrap handshake complete", "iot3_id", resp.IoT3ID, "protocol", protocol)
		mqttCfg.ClientID = resp.IoT3ID
		mqttCfg.Username = resp.PSKRunLogin
		mqttCfg.Password = resp.PSKRunPassword
		config.Set(cfg, "mqtt", "client_id", mqttCfg.ClientID)
		config.Set(cfg, "mqtt", "username", mqttCfg.Username)
		config.Set(cfg, "mqtt", "password", mqttCfg.Password)
	}

	if *otlpEndpoint != "" {
		shutdown, err := telemetry.InitTracer(ctx, "its-client", *otlpEndpoint, mqttCfg.UseTLS)
		if err != nil {
			logger.Error("itsclientctl: init tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	receiver, err := cfg.Receiver()
	if err != nil {
		logger.Error("itsclientctl: read receiver configuration", "error", err)
		os.Exit(1)
	}

	topicRouter := router.New(logger)
	for _, t := range receiver.TopicList {
		if strings.Contains(t, "info") {
			topicRouter.Register(t, router.InformationDeserializer)
		} else {
			topicRouter.Register(t, router.ExchangeDeserializer)
		}
	}

	collector := introspection.NewCollector()
	grpcServer := introspection.NewServer(logger, collector)
	go func() {
		if err := introspection.Serve(ctx, logger, *introspectAddr, grpcServer); err != nil {
			logger.Error("itsclientctl: introspection server stopped", "error", err)
		}
	}()

	logger.Info("itsclientctl: starting pipeline", "broker", fmt.Sprintf("%s:%d", mqttCfg.Host, mqttCfg.Port), "client_id", mqttCfg.ClientID)

	err = pipeline.Run(ctx, pipeline.Options{
		Configuration: cfg,
		Logger:        logger,
		InstanceID:    mqttCfg.ClientID,
		Topics:        receiver.TopicList,
		Router:        topicRouter,
		AnalyzerFactory: func(*config.Configuration, any, *exchange.SequenceNumber) pipeline.Analyzer {
			return passthroughAnalyzer{}
		},
		Collector: collector,
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("itsclientctl: pipeline exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("itsclientctl: shut down cleanly")
}
