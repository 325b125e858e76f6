package timer_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodeb/polltimer-go/pkg/clock"
	"github.com/goodeb/polltimer-go/pkg/log"
	"github.com/goodeb/polltimer-go/pkg/timer"
)

// capturingLogger records events for assertions.
type capturingLogger struct {
	events []log.Event
}

func (c *capturingLogger) Log(event log.Event) {
	c.events = append(c.events, event)
}

func TestRegistryEmitsLifecycleEvents(t *testing.T) {
	clk := clock.NewManualClock()
	logger := &capturingLogger{}
	reg := timer.NewRegistryWithConfig(timer.RegistryConfig{
		Clock:  clk,
		Logger: logger,
	})

	require.NoError(t, reg.Setup("t", timer.Config{Interval: 10, Action: func(...any) {}}))
	require.NoError(t, reg.Start("t"))
	clk.AdvanceTicks(10)
	reg.Poll()
	require.NoError(t, reg.Trigger("t"))
	require.NoError(t, reg.OverrideExpiration("t", 5))
	require.NoError(t, reg.Stop("t"))
	require.NoError(t, reg.Remove("t"))

	var categories []log.Category
	for _, e := range logger.events {
		assert.Equal(t, reg.ID(), e.RegistryID)
		assert.Equal(t, "t", e.Timer)
		assert.Equal(t, "SHORT", e.Kind)
		categories = append(categories, e.Category)
	}

	want := []log.Category{
		log.CategorySetup,
		log.CategoryStart,
		log.CategoryFire,
		log.CategoryTrigger,
		log.CategoryOverride,
		log.CategoryStop,
		log.CategoryRemove,
	}
	assert.Equal(t, want, categories)
}

func TestDefinitionsToEventLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.tlog")
	fileLogger, err := log.NewFileLogger(path)
	require.NoError(t, err)

	clk := clock.NewManualClock()
	reg := timer.NewRegistryWithConfig(timer.RegistryConfig{
		Clock:  clk,
		Logger: fileLogger,
	})

	actions := timer.NewActionSet()
	fired := 0
	actions.Register("beep", func(...any) { fired++ })

	defs, err := timer.ParseDefinitions([]byte(`
timers:
  beeper:
    interval: 100
    action: beep
    running: true
`))
	require.NoError(t, err)
	require.NoError(t, reg.SetupDefinitions(defs, actions))

	clk.AdvanceTicks(100)
	reg.Poll()
	require.Equal(t, 1, fired)
	require.NoError(t, fileLogger.Close())

	// The fire shows up in the persisted event stream.
	fire := log.CategoryFire
	reader, err := log.NewFilteredReader(path, log.Filter{Category: &fire})
	require.NoError(t, err)
	defer reader.Close()

	event, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "beeper", event.Timer)
	assert.False(t, event.Armed)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}
