package metrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/logrotatorr"
	"golift.io/logrotatorr/metrics"
)

var errTest = errors.New("test error")

type counter struct {
	logrotatorr.NopObserver
	removed []bool
	errors  int
}

func (c *counter) Removed(_ string, count bool) { c.removed = append(c.removed, count) }
func (c *counter) Error(error)                  { c.errors++ }

func TestObserver(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	registry := prometheus.NewRegistry()
	next := &counter{}

	stats, err := metrics.New(registry, "test", next)
	require.NoError(t, err)

	stats.Open("a.log")
	stats.Rotation()
	stats.Rotated("a.log.1")
	stats.History()
	stats.Removed("a.log.1", true)
	stats.Removed("a.log.2", false)
	stats.Removed("a.log.3", false)
	stats.Warning(errTest)
	stats.Error(errTest)

	assert.Equal([]bool{true, false, false}, next.removed, "events must reach the next observer")
	assert.Equal(1, next.errors)

	count, err := testutil.GatherAndCount(registry,
		"test_logrotatorr_opens_total", "test_logrotatorr_removed_total")
	require.NoError(t, err)
	assert.Equal(3, count, "one opens series, two removed series")
}

func TestObserverLogger(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	registry := prometheus.NewRegistry()

	stats, err := metrics.New(registry, "", nil)
	require.NoError(t, err)

	logger, err := logrotatorr.New(&logrotatorr.Config{
		Dir:      t.TempDir(),
		Filename: "metered.log",
		FileSize: 5,
		Rotate:   2,
		Observer: stats,
	})
	require.NoError(t, err)

	for range 3 {
		_, err = logger.Write([]byte("test\n"))
		require.NoError(t, err)
	}

	require.NoError(t, logger.Close())

	expect := "# HELP logrotatorr_rotations_total Total number of log rotations started\n" +
		"# TYPE logrotatorr_rotations_total counter\n" +
		"logrotatorr_rotations_total 3\n"
	assert.NoError(testutil.GatherAndCompare(registry, strings.NewReader(expect), "logrotatorr_rotations_total"))

	count, err := testutil.GatherAndCount(registry, "logrotatorr_errors_total", "logrotatorr_failed")
	assert.NoError(err)
	assert.Equal(2, count, "unlabeled metrics are always present")
}

func TestNewDuplicate(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	_, err := metrics.New(registry, "dupe", nil)
	require.NoError(t, err)

	_, err = metrics.New(registry, "dupe", nil)
	assert.Error(t, err, "registering the same metrics twice must fail")
}
