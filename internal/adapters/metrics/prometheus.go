// Package metrics exposes game activity as prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomtoy/dicegame/internal/domain"
)

const namespace = "dicegame"

// Prometheus implements ports.Metrics.
type Prometheus struct {
	activeViews *prometheus.GaugeVec
	mounts      *prometheus.CounterVec
	unmounts    *prometheus.CounterVec
	rolls       *prometheus.CounterVec
	ignored     *prometheus.CounterVec
	faces       *prometheus.CounterVec
	sums        prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		activeViews: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_views",
			Help:      "Mounted views by kind.",
		}, []string{"kind"}),
		mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_mounts_total",
			Help:      "Views mounted by kind.",
		}, []string{"kind"}),
		unmounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_unmounts_total",
			Help:      "Views destroyed by kind and reason.",
		}, []string{"kind", "reason"}),
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Rolls started by view kind.",
		}, []string{"kind"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_ignored_total",
			Help:      "Roll triggers ignored because a roll was in flight.",
		}, []string{"kind"}),
		faces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "die_faces_total",
			Help:      "Settled die faces.",
		}, []string{"face"}),
		sums: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "group_sum",
			Help:      "Sums of completed group rolls.",
			Buckets:   prometheus.LinearBuckets(2, 1, 11),
		}),
	}

	for _, c := range []prometheus.Collector{p.activeViews, p.mounts, p.unmounts, p.rolls, p.ignored, p.faces, p.sums} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) ViewMounted(kind domain.ViewKind) {
	p.mounts.WithLabelValues(string(kind)).Inc()
	p.activeViews.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) ViewUnmounted(kind domain.ViewKind, reason string) {
	p.unmounts.WithLabelValues(string(kind), reason).Inc()
	p.activeViews.WithLabelValues(string(kind)).Dec()
}

func (p *Prometheus) RollStarted(kind domain.ViewKind) {
	p.rolls.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) RollIgnored(kind domain.ViewKind) {
	p.ignored.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) DieSettled(face int) {
	p.faces.WithLabelValues(strconv.Itoa(face)).Inc()
}

func (p *Prometheus) GroupSettled(sum int) {
	p.sums.Observe(float64(sum))
}
