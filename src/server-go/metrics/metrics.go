// Package metrics exposes the Prometheus counters and gauges the SFU track
// listener observes transitions onto. A nil *Registry disables metrics
// entirely; callers aren't required to provide one.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the track-listener metric families. Construct one with
// NewRegistry and pass it to tracks.WithMetrics.
type Registry struct {
	TracksActive       *prometheus.GaugeVec
	RTPPacketsForwarded *prometheus.CounterVec
	RTPBytesForwarded  *prometheus.CounterVec
	PLISent            *prometheus.CounterVec
	PLIErrors          *prometheus.CounterVec
}

// NewRegistry builds the metric families and, if reg is non-nil, registers
// them on it.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		TracksActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sfu",
			Name:      "tracks_active",
			Help:      "Local forwarding tracks currently alive, by publisher client id.",
		}, []string{"client_id"}),
		RTPPacketsForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sfu",
			Name:      "rtp_packets_forwarded_total",
			Help:      "RTP packets copied from a remote track to its local forwarding track.",
		}, []string{"client_id"}),
		RTPBytesForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sfu",
			Name:      "rtp_bytes_forwarded_total",
			Help:      "RTP bytes copied from a remote track to its local forwarding track.",
		}, []string{"client_id"}),
		PLISent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sfu",
			Name:      "pli_sent_total",
			Help:      "PLI RTCP packets written to a publisher.",
		}, []string{"client_id"}),
		PLIErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sfu",
			Name:      "pli_errors_total",
			Help:      "Failed PLI RTCP writes to a publisher.",
		}, []string{"client_id"}),
	}

	if reg != nil {
		reg.MustRegister(
			r.TracksActive,
			r.RTPPacketsForwarded,
			r.RTPBytesForwarded,
			r.PLISent,
			r.PLIErrors,
		)
	}

	return r
}

// The Inc*/Add*/Dec* helpers are nil-receiver safe so tracks.TrackListener
// can hold a *Registry that's nil when metrics weren't requested.

func (r *Registry) IncTracksActive(clientID string) {
	if r == nil {
		return
	}
	r.TracksActive.WithLabelValues(clientID).Inc()
}

func (r *Registry) DecTracksActive(clientID string) {
	if r == nil {
		return
	}
	r.TracksActive.WithLabelValues(clientID).Dec()
}

func (r *Registry) AddRTPForwarded(clientID string, bytes int) {
	if r == nil {
		return
	}
	r.RTPPacketsForwarded.WithLabelValues(clientID).Inc()
	r.RTPBytesForwarded.WithLabelValues(clientID).Add(float64(bytes))
}

func (r *Registry) IncPLISent(clientID string) {
	if r == nil {
		return
	}
	r.PLISent.WithLabelValues(clientID).Inc()
}

func (r *Registry) IncPLIErrors(clientID string) {
	if r == nil {
		return
	}
	r.PLIErrors.WithLabelValues(clientID).Inc()
}
