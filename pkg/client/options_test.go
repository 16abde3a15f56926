package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testLogger records which levels were used.
type testLogger struct {
	debugCalled bool
	infoCalled  bool
	errorCalled bool
}

func (l *testLogger) Debugf(string, ...interface{}) { l.debugCalled = true }
func (l *testLogger) Infof(string, ...interface{})  { l.infoCalled = true }
func (l *testLogger) Errorf(string, ...interface{}) { l.errorCalled = true }

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: time.Minute}
	c := &Client{httpClient: http.DefaultClient}

	WithHTTPClient(custom)(c)
	assert.Same(t, custom, c.httpClient)

	WithHTTPClient(nil)(c)
	assert.Same(t, custom, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	c := &Client{httpClient: &http.Client{Timeout: time.Second}}
	WithTimeout(5 * time.Second)(c)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)

	WithTimeout(0)(c)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestWithLogger(t *testing.T) {
	logger := &testLogger{}
	c := &Client{logger: noopLogger{}}

	WithLogger(logger)(c)
	assert.Equal(t, logger, c.logger)

	WithLogger(nil)(c)
	assert.Equal(t, logger, c.logger)
}

func TestWithAPIKey(t *testing.T) {
	c := &Client{}
	WithAPIKey("secret")(c)
	assert.Equal(t, "secret", c.apiKey)
}

func TestWithRetryMax(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"positive", 5, 5},
		{"zero disables retries", 0, 0},
		{"negative ignored", -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryMax: 3}
			WithRetryMax(tt.input)(c)
			assert.Equal(t, tt.want, c.retryMax)
		})
	}
}

func TestWithRetryWait(t *testing.T) {
	const defMin, defMax = 500 * time.Millisecond, 5 * time.Second
	tests := []struct {
		name             string
		min, max         time.Duration
		wantMin, wantMax time.Duration
	}{
		{"valid range", time.Second, 3 * time.Second, time.Second, 3 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min ignored", 0, 3 * time.Second, defMin, defMax},
		{"max below min keeps max", 6 * time.Second, 2 * time.Second, 6 * time.Second, defMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryWaitMin: defMin, retryWaitMax: defMax}
			WithRetryWait(tt.min, tt.max)(c)
			assert.Equal(t, tt.wantMin, c.retryWaitMin)
			assert.Equal(t, tt.wantMax, c.retryWaitMax)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}
	WithUserAgent("")(c)
	assert.Equal(t, "default", c.userAgent)

	WithUserAgent("dashboard/2.0")(c)
	assert.Equal(t, "dashboard/2.0", c.userAgent)
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: 300 * time.Millisecond}

	b1 := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, b1, 100*time.Millisecond)
	assert.Less(t, b1, 125*time.Millisecond)

	b3 := c.calculateBackoff(3)
	assert.GreaterOrEqual(t, b3, 300*time.Millisecond)
	assert.Less(t, b3, 375*time.Millisecond)
}

//Personal.AI order the ending
