package telemetry

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Registry holds the server counters on a private prometheus.Registry, so
// nothing registered globally leaks into /metrics. The zero value is not
// usable; call New.
type Registry struct {
	reg          *prometheus.Registry
	analyses     *prometheus.CounterVec
	quotaDenied  prometheus.Counter
	chatReplies  *prometheus.CounterVec
	signups      prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// New returns a Registry with every counter registered. Unlabelled counters
// are exported at 0 before their first increment; labelled families appear
// with their first sample.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "golfcoach_analyses_total",
			Help: "Swing analyses scored, by swing path.",
		}, []string{"path"}),
		quotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golfcoach_quota_denied_total",
			Help: "Analyses refused by the daily quota.",
		}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "golfcoach_chat_replies_total",
			Help: "AI coach replies, by matched rule.",
		}, []string{"rule"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golfcoach_signups_total",
			Help: "Users added to the roster.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "golfcoach_http_requests_total",
			Help: "HTTP API requests, by route and status code.",
		}, []string{"route", "code"}),
	}
	r.reg.MustRegister(r.analyses, r.quotaDenied, r.chatReplies, r.signups, r.httpRequests)
	return r
}

// IncAnalysis counts one scored analysis with the given swing path.
func (r *Registry) IncAnalysis(path string) { r.analyses.WithLabelValues(path).Inc() }

// IncQuotaDenied counts one analysis refused by the quota.
func (r *Registry) IncQuotaDenied() { r.quotaDenied.Inc() }

// IncChatReply counts one coach reply matched by rule.
func (r *Registry) IncChatReply(rule string) { r.chatReplies.WithLabelValues(rule).Inc() }

// IncSignup counts one new user.
func (r *Registry) IncSignup() { r.signups.Inc() }

// ObserveHTTP counts one request to route answered with code.
func (r *Registry) ObserveHTTP(route string, code int) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Gather returns a snapshot of every family with samples, sorted by name.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// Handler serves the counters in the format negotiated from the Accept header.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fams, err := r.Gather()
		if err != nil {
			slog.Error("telemetry: gather failed", "err", err)
			http.Error(w, "gather metrics", http.StatusInternalServerError)
			return
		}

		format := expfmt.Negotiate(req.Header)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range fams {
			if err := enc.Encode(mf); err != nil {
				return
			}
		}
		if closer, ok := enc.(expfmt.Closer); ok {
			_ = closer.Close()
		}
	})
}
