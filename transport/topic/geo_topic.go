package topic

import (
	"strings"

	"github.com/orange-its/go-mqtt-client/mobility/quadkey"
)

// GeoTopic is structured as
// <project>/<queue>/<server>/<message_type>/<uuid>/<tile>/<tile>/…
// where queue ∈ {in,out} and message_type ∈ {cam,denm,cpm,mapem,spatem,info}.
// INFO topics omit the <server> segment.
type GeoTopic struct {
	Project      string
	Queue        Queue
	Server       string
	MessageType  MessageType
	UUID         string
	GeoExtension quadkey.Quadkey
}

// AsRoute returns the routing key: the prefix up to and including the
// message-type segment (the uuid and geo extension are not part of the
// route, only of the full topic string).
func (t GeoTopic) AsRoute() string {
	if t.MessageType.IsInformation() {
		return strings.Join([]string{t.Project, t.Queue.String(), t.MessageType.String()}, "/")
	}
	return strings.Join([]string{t.Project, t.Queue.String(), t.Server, t.MessageType.String()}, "/")
}

// String renders the full wire topic: route + uuid + geo extension.
func (t GeoTopic) String() string {
	s := t.AsRoute() + "/" + t.UUID + t.GeoExtension.String()
	return strings.Trim(s, "/")
}

// Appropriate rewrites the topic so a republished message is attributed to
// the forwarder (componentName) and routed back into the inbound queue.
func (t *GeoTopic) Appropriate(componentName string) {
	t.UUID = componentName
	t.Queue = QueueIn
}

// ParseGeoTopic parses a GeoTopic wire string. A topic containing the
// literal segment "info" is parsed using the INFO layout (no <server>
// segment); all other topics use the standard five-segment layout
// followed by a variable-length geo extension.
func ParseGeoTopic(s string) (GeoTopic, error) {
	segments := strings.Split(strings.Trim(s, "/"), "/")
	for _, segment := range segments {
		if segment == "info" {
			return parseInfoGeoTopic(s, segments)
		}
	}
	return parseStandardGeoTopic(s, segments)
}

func parseInfoGeoTopic(raw string, segments []string) (GeoTopic, error) {
	var t GeoTopic
	for i, element := range segments {
		switch i {
		case 0:
			t.Project = element
		case 1:
			q, err := ParseQueue(element)
			if err != nil {
				return GeoTopic{}, newGeoTopicError(raw, err)
			}
			t.Queue = q
		case 2:
			mt, err := ParseMessageType(element)
			if err != nil {
				return GeoTopic{}, newGeoTopicError(raw, err)
			}
			t.MessageType = mt
		case 3:
			t.UUID = element
		default:
			tile, err := quadkey.ParseTile(rune(element[0]))
			if err != nil || len(element) != 1 {
				return GeoTopic{}, newGeoTopicError(raw, ErrInvalidTile)
			}
			t.GeoExtension.Push(tile)
		}
	}
	return t, nil
}

func parseStandardGeoTopic(raw string, segments []string) (GeoTopic, error) {
	var t GeoTopic
	for i, element := range segments {
		switch i {
		case 0:
			t.Project = element
		case 1:
			q, err := ParseQueue(element)
			if err != nil {
				return GeoTopic{}, newGeoTopicError(raw, err)
			}
			t.Queue = q
		case 2:
			t.Server = element
		case 3:
			mt, err := ParseMessageType(element)
			if err != nil {
				return GeoTopic{}, newGeoTopicError(raw, err)
			}
			t.MessageType = mt
		case 4:
			t.UUID = element
		default:
			if len(element) != 1 {
				return GeoTopic{}, newGeoTopicError(raw, ErrInvalidTile)
			}
			tile, err := quadkey.ParseTile(rune(element[0]))
			if err != nil {
				return GeoTopic{}, newGeoTopicError(raw, ErrInvalidTile)
			}
			t.GeoExtension.Push(tile)
		}
	}
	return t, nil
}
