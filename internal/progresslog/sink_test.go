package progresslog

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"imgsplice/internal/core"
)

// fakeClock returns a fixed, caller-controlled sequence of
// timestamps instead of the wall clock, so tests can assert on exact
// event output.
type fakeClock struct {
	ticks []int64
	next  int
}

func (c *fakeClock) Now() int64 {
	t := c.ticks[c.next]
	if c.next < len(c.ticks)-1 {
		c.next++
	}
	return t
}

func TestEventStampsTimestampFromClockNotWallTime(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	clock := &fakeClock{ticks: []int64{100, 200, 300}}
	sink := New(log, clock)

	sink.Event(core.EventHashingImage, nil)
	sink.Event(core.EventBuildingPlan, nil)

	out := buf.String()
	require.Contains(t, out, `"ts":100`)
	require.Contains(t, out, `"ts":200`)
}

func TestEventMatchingFileLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	sink := New(log, &fakeClock{ticks: []int64{1}})
	sink.Event(core.EventMatchingFile, map[string]any{"path": "f"})

	require.Empty(t, buf.String(), "matching_file should be suppressed at Info level")
}
