package notify

import (
	"testing"

	"frameworks/api_lookout/pkg/logging"
)

func TestNoopAlerter_DoesNotPanic(t *testing.T) {
	alerter := &NoopAlerter{Logger: logging.NewLogger()}
	alerter.Alert("Scan Failed", "the scan failed", "detail")

	// Nil logger is tolerated too.
	(&NoopAlerter{}).Alert("Scan Failed", "the scan failed", "detail")
}
