package action

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Indicator is a busy state toggled around every request
type Indicator interface {
	Open()
	Close()
}

// IndicatorFactory creates the indicator for one handler invocation
type IndicatorFactory func() Indicator

// Row is one rendered line of the results region
type Row struct {
	Key   string
	Value string
}

// ResultsRegion holds the browse results. Render replaces its whole content.
type ResultsRegion interface {
	Render(rows []Row)
}

// StatusRegion holds a single status text
type StatusRegion interface {
	SetText(text string)
}

// Texts written by the handlers
const (
	LoadingText = "Loading..."
	ErrorText   = "Error!"

	SendingText   = "Sending..."
	SentText      = "Message sent OK..."
	SendErrorText = "Error sending the message..."

	PurgedText     = "Messages purged OK..."
	PurgeErrorText = "Error purging the messages..."
)

var (
	loadingRows = []Row{{Key: LoadingText}}
	errorRows   = []Row{{Key: ErrorText}}
)

// Sanitize makes server supplied text safe to print on a terminal: escape
// sequences are removed and remaining control characters become spaces.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return ' '
		}
		return r
	}, s)
}

type nopIndicator struct{}

func (nopIndicator) Open()  {}
func (nopIndicator) Close() {}

// NopIndicator returns an indicator that shows nothing
func NopIndicator() Indicator {
	return nopIndicator{}
}
