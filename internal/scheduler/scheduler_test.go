package scheduler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"frameworks/api_lookout/pkg/logging"
)

func TestSchedule_RejectsInvalidSpec(t *testing.T) {
	s := New("http://127.0.0.1:1/scan", "", logging.NewLogger())
	assert.Error(t, s.Schedule("not a cron spec"))
	assert.NoError(t, s.Schedule("0 7 * * *"))
}

func TestRunScan_SendsCronHeaders(t *testing.T) {
	var gotCron, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCron = r.Header.Get("X-Cron-Trigger")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(server.URL, "s3cret", logging.NewLogger())
	s.runScan()

	assert.Equal(t, "1", gotCron)
	assert.Equal(t, "Bearer s3cret", gotAuth)
}

func TestRunScan_ServerErrorIsLoggedNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(server.URL, "", logging.NewLogger())
	s.runScan()
}
