package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithTimeout_LeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	tr := NewHTTPTransport("http://localhost:5000", WithHTTPClient(shared), WithTimeout(3*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 3*time.Second, tr.httpClient.Timeout)
	assert.NotSame(t, shared, tr.httpClient)
}

func TestNewHTTPTransport_DefaultTimeout(t *testing.T) {
	tr := NewHTTPTransport("http://localhost:5000/")
	assert.Equal(t, 10*time.Second, tr.httpClient.Timeout)
	assert.Equal(t, "http://localhost:5000", tr.BaseURL())
}
