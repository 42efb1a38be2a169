package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrTopicParts(t *testing.T) {
	topic := ParseStrTopic("a/b/c")
	assert.Equal(t, []string{"a", "b", "c"}, topic.Parts())
	assert.Equal(t, "a/b/c", topic.String())
}

func TestStrTopicReplaceAt(t *testing.T) {
	cases := []struct {
		name  string
		level int
		value string
		want  string
	}{
		{"first segment", 1, "x", "x/b/c/d"},
		{"second segment", 2, "x", "a/x/c/d"},
		{"third segment", 3, "x", "a/b/x/d"},
		{"last segment", 4, "x", "a/b/c/x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topic := ParseStrTopic("a/b/c/d")
			err := topic.ReplaceAt(tc.level, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, topic.String())
		})
	}
}

func TestStrTopicReplaceAtLevelZero(t *testing.T) {
	topic := ParseStrTopic("a/b/c/d")
	err := topic.ReplaceAt(0, "x")
	require.Error(t, err)
	var levelErr *StrTopicLevelError
	require.ErrorAs(t, err, &levelErr)
	assert.False(t, levelErr.TooHigh)
}

func TestStrTopicReplaceAtLevelTooHigh(t *testing.T) {
	topic := ParseStrTopic("a/b/c/d")
	err := topic.ReplaceAt(5, "x")
	require.Error(t, err)
	var levelErr *StrTopicLevelError
	require.ErrorAs(t, err, &levelErr)
	assert.True(t, levelErr.TooHigh)
	assert.Equal(t, 4, levelErr.MaxLevel)
}

func TestRoutedStrTopicAsRouteLevels(t *testing.T) {
	cases := []struct {
		name  string
		level int
		want  string
	}{
		{"level 0 is empty route", 0, ""},
		{"level 1", 1, "a"},
		{"level 2", 2, "a/b"},
		{"level 3 is full topic", 3, "a/b/c"},
		{"level beyond depth is full topic", 10, "a/b/c"},
		{"full topic sentinel", FullTopicRoute, "a/b/c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			routed := NewRoutedStrTopic("a/b/c", tc.level)
			assert.Equal(t, tc.want, routed.AsRoute())
		})
	}
}

func TestRoutedStrTopicReplaceAt(t *testing.T) {
	routed := NewRoutedStrTopic("a/b/c/d", FullTopicRoute)

	require.NoError(t, routed.ReplaceAt(1, "x"))
	assert.Equal(t, "x/b/c/d", routed.String())
	assert.Equal(t, "x/b/c/d", routed.AsRoute())

	require.NoError(t, routed.ReplaceAt(4, "y"))
	assert.Equal(t, "x/b/c/y", routed.String())
}

func TestRoutedStrTopicReplaceAtLevelZeroRejected(t *testing.T) {
	routed := NewRoutedStrTopic("a/b/c/d", FullTopicRoute)
	err := routed.ReplaceAt(0, "x")
	require.Error(t, err)
}

func TestRoutedStrTopicReplaceAtTooHighRejected(t *testing.T) {
	routed := NewRoutedStrTopic("a/b/c/d", FullTopicRoute)
	err := routed.ReplaceAt(5, "x")
	require.Error(t, err)
}

func TestRoutedStrTopicPartialRouteUnaffectedByReplaceBeyondIt(t *testing.T) {
	routed := NewRoutedStrTopic("a/b/c/d", 2)
	require.NoError(t, routed.ReplaceAt(4, "z"))
	assert.Equal(t, "a/b", routed.AsRoute())
	assert.Equal(t, "a/b/c/z", routed.String())
}
