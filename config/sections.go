package config

// MqttSection is the mandatory [mqtt] broker connection section.
type MqttSection struct {
	Host              string
	Port              uint16
	ClientID          string
	Username          string
	Password          string
	UseTLS            bool
	UseWebsocket      bool
	ConnectionTimeout int
}

// Mqtt reads the mandatory [mqtt] section.
func (c *Configuration) Mqtt() (MqttSection, error) {
	var s MqttSection
	var err error
	if s.Host, err = Get[string](c, "mqtt", "host"); err != nil {
		return s, err
	}
	if s.Port, err = Get[uint16](c, "mqtt", "port"); err != nil {
		return s, err
	}
	if s.ClientID, err = Get[string](c, "mqtt", "client_id"); err != nil {
		return s, err
	}
	s.Username, _ = GetOr(c, "mqtt", "username", "")
	s.Password, _ = GetOr(c, "mqtt", "password", "")
	s.UseTLS, _ = GetOr(c, "mqtt", "use_tls", false)
	s.UseWebsocket, _ = GetOr(c, "mqtt", "use_websocket", false)
	s.ConnectionTimeout, _ = GetOr(c, "mqtt", "connection_timeout", 30)
	return s, nil
}

// StationSection is the [station] section, required under the mobility
// feature.
type StationSection struct {
	ID   uint32
	Type uint8
}

// Station reads the [station] section.
func (c *Configuration) Station() (StationSection, error) {
	var s StationSection
	var err error
	if s.ID, err = Get[uint32](c, "station", "id"); err != nil {
		return s, err
	}
	stationType, err := Get[int](c, "station", "type")
	if err != nil {
		return s, err
	}
	s.Type = uint8(stationType)
	return s, nil
}

// GeoSection is the [geo] section, required under the geo_routing
// feature.
type GeoSection struct {
	Prefix string
	Suffix string
}

// Geo reads the [geo] section.
func (c *Configuration) Geo() (GeoSection, error) {
	var s GeoSection
	var err error
	if s.Prefix, err = Get[string](c, "geo", "prefix"); err != nil {
		return s, err
	}
	if s.Suffix, err = Get[string](c, "geo", "suffix"); err != nil {
		return s, err
	}
	return s, nil
}

// TelemetrySection is the [telemetry] section, required under the
// telemetry feature.
type TelemetrySection struct {
	Host     string
	Port     uint16
	Path     string
	Username string
	Password string
	UseTLS   bool
}

// Telemetry reads the [telemetry] section.
func (c *Configuration) Telemetry() (TelemetrySection, error) {
	var s TelemetrySection
	var err error
	if s.Host, err = Get[string](c, "telemetry", "host"); err != nil {
		return s, err
	}
	if s.Port, err = Get[uint16](c, "telemetry", "port"); err != nil {
		return s, err
	}
	s.Path, _ = GetOr(c, "telemetry", "path", "/v1/traces")
	s.Username, _ = GetOr(c, "telemetry", "username", "")
	s.Password, _ = GetOr(c, "telemetry", "password", "")
	s.UseTLS, _ = GetOr(c, "telemetry", "use_tls", false)
	return s, nil
}

// NodeSection is the optional [node] section.
type NodeSection struct {
	ResponsibilityEnabled bool

	// PublishRateLimit caps outbound publishes per ITS message type per
	// second (0 disables the congestion limiter).
	PublishRateLimit int
	// BreakerFailureThreshold is the consecutive-failure count that trips
	// the per-message-type publish circuit breaker.
	BreakerFailureThreshold int
	// BreakerResetSeconds is how long an open breaker waits before
	// letting one probe publish through.
	BreakerResetSeconds int
}

// Node reads the optional [node] section. Absence of the section is not
// an error; every field defaults to its zero value (no rate limiting, a
// five-failure/thirty-second breaker).
func (c *Configuration) Node() NodeSection {
	var s NodeSection
	s.ResponsibilityEnabled, _ = GetOr(c, "node", "responsibility_enabled", false)
	s.PublishRateLimit, _ = GetOr(c, "node", "publish_rate_limit", 0)
	s.BreakerFailureThreshold, _ = GetOr(c, "node", "breaker_failure_threshold", 0)
	s.BreakerResetSeconds, _ = GetOr(c, "node", "breaker_reset_seconds", 0)
	return s
}

// BootstrapSection is the optional [bootstrap] section.
type BootstrapSection struct {
	Host     string
	Port     uint16
	Path     string
	Role     string
	Username string
	Password string
}

// Bootstrap reads the [bootstrap] section. ok is false when the section
// is absent, which is not itself an error: bootstrap is optional.
func (c *Configuration) Bootstrap() (s BootstrapSection, ok bool, err error) {
	if !c.HasSection("bootstrap") {
		return s, false, nil
	}
	if s.Host, err = Get[string](c, "bootstrap", "host"); err != nil {
		return s, true, err
	}
	if s.Port, err = Get[uint16](c, "bootstrap", "port"); err != nil {
		return s, true, err
	}
	if s.Path, err = Get[string](c, "bootstrap", "path"); err != nil {
		return s, true, err
	}
	if s.Role, err = Get[string](c, "bootstrap", "role"); err != nil {
		return s, true, err
	}
	if s.Username, err = Get[string](c, "bootstrap", "username"); err != nil {
		return s, true, err
	}
	if s.Password, err = Get[string](c, "bootstrap", "password"); err != nil {
		return s, true, err
	}
	return s, true, nil
}

// ReceiverSection configures the example receiver binary's subscriptions.
type ReceiverSection struct {
	TopicList  []string
	RouteLevel int
}

// Receiver reads the [receiver] section.
func (c *Configuration) Receiver() (ReceiverSection, error) {
	var s ReceiverSection
	var err error
	if s.TopicList, err = GetList[string](c, "receiver", "topic_list"); err != nil {
		return s, err
	}
	if s.RouteLevel, err = Get[int](c, "receiver", "route_level"); err != nil {
		return s, err
	}
	return s, nil
}

// ExporterSection toggles the example exporter binary's output sinks.
type ExporterSection struct {
	Stdout bool
	File   bool
	Mqtt   bool
}

// Exporter reads the [exporter] section.
func (c *Configuration) Exporter() ExporterSection {
	var s ExporterSection
	s.Stdout, _ = GetOr(c, "exporter", "stdout", false)
	s.File, _ = GetOr(c, "exporter", "file", false)
	s.Mqtt, _ = GetOr(c, "exporter", "mqtt", false)
	return s
}
