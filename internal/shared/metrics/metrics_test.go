package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg, "comment").(*promRecorder)

	rec.Observe("create", time.Now(), nil)
	rec.Observe("create", time.Now(), nil)
	rec.Observe("delete", time.Now(), errors.New("nope"))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.ops.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ops.WithLabelValues("delete", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.ops.WithLabelValues("delete", "ok")))
}
