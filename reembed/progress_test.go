package reembed

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1000, 100)
	tracker.Start()

	tracker.Update(50)
	assert.Empty(t, buf.String())

	tracker.Update(100)
	assert.Contains(t, buf.String(), "100/1000 chunks")

	buf.Reset()
	tracker.Increment(150)
	assert.Contains(t, buf.String(), "250/1000 chunks")
	assert.Equal(t, 250, tracker.Current())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()

	tracker.Increment(50)
	assert.Equal(t, 10, tracker.Current())
	assert.Contains(t, buf.String(), "10/10 chunks (100.0%)")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 40, 100)
	tracker.Start()
	tracker.Update(12)
	time.Sleep(5 * time.Millisecond)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "40/40 chunks")
	assert.Contains(t, out, "chunks/s")
	assert.Equal(t, byte('\n'), out[len(out)-1])
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 10)
	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0 chunks (100.0%)")
}

func TestProgressTracker_IgnoredUntilStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 1)

	tracker.Increment(10)
	tracker.Update(20)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := NewProgressTracker(nil, 3, 0)
	tracker.Start()
	tracker.Increment(3)
	tracker.Finish()
	assert.Equal(t, 3, tracker.Current())
}
