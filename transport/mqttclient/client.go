// Package mqttclient wraps github.com/eclipse/paho.golang's autopaho
// connection manager behind a small Event|Error channel API so the rest
// of the pipeline stays callback-free.
package mqttclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
)

// Options configures a broker connection. Host/Port/ClientID are
// mandatory; the rest have the same defaulting rules as the [mqtt]
// configuration section.
type Options struct {
	Host              string
	Port              uint16
	ClientID          string
	Username          string
	Password          string
	UseTLS            bool
	UseWebsocket      bool
	ConnectionTimeout time.Duration
	KeepAlive         uint16
}

func (o Options) brokerURL() (*url.URL, error) {
	scheme := "mqtt"
	switch {
	case o.UseTLS && o.UseWebsocket:
		scheme = "wss"
	case o.UseTLS:
		scheme = "mqtts"
	case o.UseWebsocket:
		scheme = "ws"
	}
	raw := fmt.Sprintf("%s://%s:%d", scheme, o.Host, o.Port)
	return url.Parse(raw)
}

// Event is an inbound publish delivered to a subscribed topic.
type Event struct {
	Topic          string
	Payload        []byte
	QoS            byte
	UserProperties map[string]string
}

// Logger is the structured logging interface the client reports through.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client is a single broker connection: an autopaho.ConnectionManager
// plus the channels that surface its lifecycle as data instead of
// callbacks.
type Client struct {
	cm         *autopaho.ConnectionManager
	events     chan Event
	connUp     chan struct{}
	connErrors chan error
	logger     Logger
}

// New establishes a connection manager for opts and begins delivering
// inbound publishes on the returned Client's Events channel. It does not
// block waiting for the first connection; call AwaitConnection for that.
func New(ctx context.Context, opts Options, logger Logger) (*Client, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	brokerURL, err := opts.brokerURL()
	if err != nil {
		return nil, fmt.Errorf("mqttclient: parse broker url: %w", err)
	}

	c := &Client{
		events:     make(chan Event, 256),
		connUp:     make(chan struct{}, 1),
		connErrors: make(chan error, 16),
		logger:     logger,
	}

	keepAlive := opts.KeepAlive
	if keepAlive == 0 {
		keepAlive = 30
	}

	cfg := autopaho.ClientConfig{
		ServerUrls:      []*url.URL{brokerURL},
		KeepAlive:       keepAlive,
		ConnectUsername: opts.Username,
		ConnectPassword: []byte(opts.Password),
		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			logger.Info("mqttclient: connected", "host", opts.Host, "port", opts.Port)
			select {
			case c.connUp <- struct{}{}:
			default:
			}
		},
		OnConnectError: func(err error) {
			logger.Warn("mqttclient: connect error", "error", err)
			select {
			case c.connErrors <- err:
			default:
			}
		},
		ClientConfig: paho.ClientConfig{
			ClientID: opts.ClientID,
		},
	}
	if opts.UseTLS {
		cfg.TlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("mqttclient: create connection: %w", err)
	}
	c.cm = cm

	cm.AddOnPublishReceived(func(pr autopaho.PublishReceived) (bool, error) {
		event := Event{
			Topic:   pr.Packet.Topic,
			Payload: pr.Packet.Payload,
			QoS:     pr.Packet.QoS,
		}
		if pr.Packet.Properties != nil {
			event.UserProperties = propertiesToMap(pr.Packet.Properties.User)
		}
		select {
		case c.events <- event:
		default:
			logger.Warn("mqttclient: event channel full, dropping publish", "topic", event.Topic)
		}
		return true, nil
	})

	return c, nil
}

// AwaitConnection blocks until the first connection succeeds or ctx
// expires.
func (c *Client) AwaitConnection(ctx context.Context) error {
	return c.cm.AwaitConnection(ctx)
}

// Events returns the channel of inbound publishes.
func (c *Client) Events() <-chan Event { return c.events }

// ConnectionErrors returns the channel of connection-attempt failures,
// the signal the Listen stage's backoff loop keys off.
func (c *Client) ConnectionErrors() <-chan error { return c.connErrors }

// ConnectionUp returns the channel signaled each time a connection (or
// reconnection) succeeds, the signal that resets backoff to its floor.
func (c *Client) ConnectionUp() <-chan struct{} { return c.connUp }

// Subscribe issues a SUBSCRIBE for topics, each at QoS 0. Subscriptions
// do not survive a reconnect automatically; callers resubscribe from
// OnConnectionUp or an equivalent ConnectionUp signal.
func (c *Client) Subscribe(ctx context.Context, topics []string) error {
	subs := make([]paho.SubscribeOptions, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, paho.SubscribeOptions{Topic: topic, QoS: 0})
	}
	_, err := c.cm.Subscribe(ctx, &paho.Subscribe{Subscriptions: subs})
	return err
}

// Publish sends payload to topic with the given QoS, attaching
// userProperties (typically trace-context propagation) when non-empty.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos byte, userProperties map[string]string) error {
	publish := &paho.Publish{
		Topic:   topic,
		Payload: payload,
		QoS:     qos,
	}
	if len(userProperties) > 0 {
		publish.Properties = &paho.PublishProperties{User: mapToProperties(userProperties)}
	}
	_, err := c.cm.Publish(ctx, publish)
	return err
}

// Disconnect closes the connection, waiting up to the context deadline
// for a clean MQTT DISCONNECT to be sent.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.cm.Disconnect(ctx)
}

func propertiesToMap(props paho.UserProperties) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for _, kv := range props {
		out[kv.Key] = kv.Value
	}
	return out
}

func mapToProperties(m map[string]string) paho.UserProperties {
	out := make(paho.UserProperties, 0, len(m))
	for k, v := range m {
		out = append(out, paho.UserProperty{Key: k, Value: v})
	}
	return out
}
