package exchange

import (
	"encoding/json"
	"fmt"
)

// wireExchange mirrors Exchange's JSON shape but keeps Message raw so it
// can be decoded once TypeField is known.
type wireExchange struct {
	TypeField  string          `json:"type"`
	Origin     string          `json:"origin"`
	Version    string          `json:"version"`
	SourceUUID string          `json:"source_uuid"`
	Timestamp  int64           `json:"timestamp"`
	Path       []PathElement   `json:"path,omitempty"`
	Message    json.RawMessage `json:"message"`
}

// MarshalJSON encodes the Exchange, delegating Message encoding to its
// concrete variant's own struct tags.
func (e Exchange) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(e.Message)
	if err != nil {
		return nil, fmt.Errorf("exchange: marshal message: %w", err)
	}
	return json.Marshal(wireExchange{
		TypeField:  e.TypeField,
		Origin:     e.Origin,
		Version:    e.Version,
		SourceUUID: e.SourceUUID,
		Timestamp:  e.Timestamp,
		Path:       e.Path,
		Message:    payload,
	})
}

// UnmarshalJSON decodes the Exchange, selecting the concrete Message
// variant from the "type" field and enforcing the type-invariant from §3:
// the decoded message's GetType() must equal the wire type_field.
func (e *Exchange) UnmarshalJSON(data []byte) error {
	var wire wireExchange
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("exchange: decode envelope: %w", err)
	}

	message, err := decodeMessage(wire.TypeField, wire.Message)
	if err != nil {
		return err
	}

	e.TypeField = wire.TypeField
	e.Origin = wire.Origin
	e.Version = wire.Version
	e.SourceUUID = wire.SourceUUID
	e.Timestamp = wire.Timestamp
	e.Path = wire.Path
	e.Message = message
	return nil
}

func decodeMessage(typeField string, raw json.RawMessage) (Content, error) {
	var message Content
	switch typeField {
	case camType:
		message = &CooperativeAwarenessMessage{}
	case denmType:
		message = &DecentralizedEnvironmentalNotificationMessage{}
	case cpmType:
		message = &CollectivePerceptionMessage{}
	case mapemType:
		message = &MapExtendedMessage{}
	case spatemType:
		message = &SignalPhaseAndTimingExtendedMessage{}
	case infoType:
		message = &Information{}
	default:
		return nil, fmt.Errorf("exchange: unknown message type %q", typeField)
	}

	if err := json.Unmarshal(raw, message); err != nil {
		return nil, fmt.Errorf("exchange: decode %s message: %w", typeField, err)
	}
	if got := message.GetType(); got != typeField {
		return nil, fmt.Errorf("exchange: type_field %q does not match decoded message type %q", typeField, got)
	}
	return message, nil
}
