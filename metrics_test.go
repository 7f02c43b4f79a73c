package grove

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsResolveOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	f := newFixture(t)
	f.scene.SetMetrics(m)

	_, _ = Resolve[*bar](f.root, ResolveOptions{Relation: Descendant})
	_, _ = Resolve[*foo](f.root, ResolveOptions{Relation: Descendant})
	_, _ = Resolve[*armor](f.root, ResolveOptions{Relation: Descendant})
	_, _ = Resolve[*armor](f.root, ResolveOptions{Relation: Descendant, Optional: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(outcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(outcomeAmbiguous)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(outcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(outcomeMissing)))
}

func TestMetricsEnsureOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	s := newTestScene()
	s.SetMetrics(m)
	n := s.NewNode("n")

	_, err := Ensure[*health](n, Sibling, nil)
	require.NoError(t, err)
	_, err = Ensure[*health](n, Sibling, nil)
	require.NoError(t, err)
	_, err = Ensure[damager](n, Sibling, nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ensures.WithLabelValues(outcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ensures.WithLabelValues(outcomeExisting)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ensures.WithLabelValues(outcomeFailed)))
}

func TestMetricsWaits(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	s := newTestScene()
	s.SetMetrics(m)
	n := s.NewNode("n")

	resolved := WaitFor[*weapon](n, ResolveOptions{Relation: Sibling}, time.Second)
	WaitFor[*armor](n, ResolveOptions{Relation: Sibling}, 0)
	canceled := WaitFor[*health](n, ResolveOptions{Relation: Sibling}, time.Second)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pending))

	canceled.Cancel()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pending))

	Attach(n, &weapon{})
	s.Tick(quarter)
	require.True(t, resolved.Done())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.waits.WithLabelValues(outcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waits.WithLabelValues(outcomeTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waits.WithLabelValues(outcomeCanceled)))
	assert.Zero(t, testutil.ToFloat64(m.pending))
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.resolved(outcomeFound)
	m.setPending(2)

	expected := `
# HELP grove_waits_pending Dependency waits still polling.
# TYPE grove_waits_pending gauge
grove_waits_pending 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "grove_waits_pending")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "grove_resolve_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.resolved(outcomeFound)
	m.ensured(outcomeCreated)
	m.waited(outcomeTimeout)
	m.setPending(1)

	// Unregistered metrics still count.
	u := NewMetrics(nil)
	u.resolved(outcomeFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(u.resolves.WithLabelValues(outcomeFound)))
}
