package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()
	r.Observe("village.add", true, 2*time.Millisecond)
	r.Observe("village.add", true, time.Millisecond)
	r.Observe("village.add", false, time.Millisecond)
	r.Observe("", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("village.add", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("village.add", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.durations))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe("member.delete", true, time.Millisecond)

	path := filepath.Join(t.TempDir(), "census.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `census_operations_total{operation="member.delete",result="success"} 1`)
	assert.Contains(t, string(data), "census_operation_duration_seconds_bucket")
}
