package handlers

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"vidinsight/internal/analytics"
	"vidinsight/internal/store"
)

var (
	interactionsTotal    *prometheus.CounterVec
	watchDurationBuckets *prometheus.HistogramVec
)

func InitPrometheusMetrics() {
	interactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidinsight",
			Name:      "interactions_total",
			Help:      "Total number of recorded interactions.",
		},
		[]string{"kind"},
	)
	watchDurationBuckets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vidinsight",
			Name:      "watch_duration_seconds",
			Help:      "Histogram of reported watch durations in seconds.",
			Buckets:   []float64{1, 5, 10, 15, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)
	prometheus.MustRegister(interactionsTotal, watchDurationBuckets)
}

// IngestInteraction is one interaction as sent by the playback UI. The
// server assigns id and timestamp at append time.
type IngestInteraction struct {
	Username      string           `json:"username"`
	SessionID     string           `json:"sessionId"`
	VideoID       string           `json:"videoId"`
	VideoCaption  string           `json:"videoCaption"`
	Kind          string           `json:"interactionType"`
	WatchDuration *float64         `json:"watchDuration,omitempty"`
	Device        store.DeviceInfo `json:"deviceInfo"`
	Location      *store.Location  `json:"location,omitempty"`
}

type ingestRequest struct {
	Interactions []IngestInteraction `json:"interactions"`
}

// IngestHandler accepts a batch of interactions and records each one.
// Recording is fire-and-forget: a storage failure is logged inside the
// service and the request is still accepted.
func IngestHandler(svc *analytics.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var payload ingestRequest
		if err := json.Unmarshal(ctx.PostBody(), &payload); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(payload.Interactions) == 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "no interactions provided")
			return
		}

		recorded := 0
		for _, in := range payload.Interactions {
			if in.VideoID == "" {
				continue
			}

			svc.Record(in.Username, in.SessionID, in.VideoID, in.VideoCaption,
				store.Kind(in.Kind), in.WatchDuration, in.Device, in.Location)
			recorded++

			interactionsTotal.WithLabelValues(in.Kind).Inc()
			if in.WatchDuration != nil && *in.WatchDuration >= 0 {
				watchDurationBuckets.WithLabelValues(in.Kind).Observe(*in.WatchDuration)
			}
		}

		if recorded == 0 {
			errResponse(ctx, fasthttp.StatusBadRequest, "no valid interactions after validation")
			return
		}

		ctx.SetStatusCode(fasthttp.StatusAccepted)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"status":"accepted","count":` + strconv.Itoa(recorded) + `}`)
	}
}
