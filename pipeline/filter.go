package pipeline

import (
	"github.com/orange-its/go-mqtt-client/mobility/quadkey"
	"github.com/orange-its/go-mqtt-client/transport/topic"
)

// regionFilter decides whether an analyzer-produced packet bound for
// publication falls inside the local region of responsibility. When disabled (the default), every packet
// passes, matching the spec's documented default behavior.
type regionFilter struct {
	enabled bool
	region  quadkey.Quadtree
}

func newRegionFilter(enabled bool, region quadkey.Quadtree) regionFilter {
	return regionFilter{enabled: enabled, region: region}
}

// Accept reports whether packet should continue downstream. Non-GeoTopic
// packets (e.g. INFO) always pass: the region of responsibility only
// constrains geographically routed exchanges.
func (f regionFilter) Accept(p Packet) bool {
	if !f.enabled {
		return true
	}
	geoTopic, ok := p.Topic.(topic.GeoTopic)
	if !ok {
		return true
	}
	return f.region.Contains(geoTopic.GeoExtension)
}
