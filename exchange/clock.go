package exchange

import "time"

// etsiNowMillis returns the current time as an ETSI TimestampIts value:
// milliseconds since 2004-01-01T00:00:00Z.
func etsiNowMillis() uint64 {
	return uint64(time.Now().UnixMilli()) - etsiEpochMillisecondsOffset
}
