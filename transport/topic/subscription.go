package topic

// ParseTopic parses s as a GeoTopic, falling back to an opaque
// RoutedStrTopic routed over its full length when s does not have
// GeoTopic shape (no project/queue/message-type prefix).
func ParseTopic(s string) Topic {
	if t, err := ParseGeoTopic(s); err == nil {
		return t
	}
	return NewRoutedStrTopic(s, FullTopicRoute)
}

// SubscriptionStrings derives the broker SUBSCRIBE filters for a list of
// Topics: each topic's route is extended with "/#" for INFO topics, whose
// wire topics end at the uuid segment, or "/+/#" for every other topic,
// whose wire topics carry a uuid level followed by a variable-length
// geographic extension.
func SubscriptionStrings(topics []Topic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		suffix := "/+/#"
		if gt, ok := t.(GeoTopic); ok && gt.MessageType.IsInformation() {
			suffix = "/#"
		}
		out = append(out, t.AsRoute()+suffix)
	}
	return out
}
