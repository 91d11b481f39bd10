package ui

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/hsbacot/jmsctl/action"
)

func TestTableRegionReplacesRows(t *testing.T) {
	region := &TableRegion{}

	region.Render([]action.Row{{Key: action.LoadingText}})
	region.Render([]action.Row{{Key: "1", Value: "first"}, {Key: "2", Value: "second"}})

	assert.Equal(t, []action.Row{{Key: "1", Value: "first"}, {Key: "2", Value: "second"}}, region.Rows())

	out := region.String()
	assert.Contains(t, out, "MESSAGE")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, action.LoadingText)

	region.Render(nil)
	assert.Empty(t, region.Rows())
}

func TestStatusLine(t *testing.T) {
	status := &StatusLine{}
	assert.Equal(t, "", status.Text())

	status.SetText(action.SendingText)
	status.SetText(action.SentText)
	assert.Equal(t, action.SentText, status.Text())
}

func TestSpinnerIndicatorWithoutTerminal(t *testing.T) {
	// Open and Close must pair safely whether or not stdout is a terminal
	ind := SpinnerFactory("Working...")()

	assert.NotPanics(t, func() {
		ind.Close()
		ind.Open()
		ind.Close()
		ind.Close()
	})
}

func TestInitLogger(t *testing.T) {
	assert.Equal(t, log.DebugLevel, InitLogger(true, "error").GetLevel())
	assert.Equal(t, log.WarnLevel, InitLogger(false, "warn").GetLevel())
	assert.Equal(t, log.InfoLevel, InitLogger(false, "nonsense").GetLevel())
}
