package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGuardDecision(t *testing.T) {
	before := testutil.ToFloat64(guardDecisions.WithLabelValues("tenant_mismatch"))
	ObserveGuardDecision("tenant_mismatch")
	ObserveGuardDecision("tenant_mismatch")
	assert.Equal(t, before+2, testutil.ToFloat64(guardDecisions.WithLabelValues("tenant_mismatch")))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	ObserveHTTPRequest("GET", "/health", "200", 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
