// Package viewstats exposes the detection viewer's frame statistics to Prometheus.
package viewstats

import (
	"net/http"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/yolotools/pkg/viewer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	frames          prometheus.Counter
	objects         prometheus.Counter
	inferenceErrors prometheus.Counter
	fps             prometheus.Gauge
	inference       prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detectcam_frames_total",
			Help: "Frames captured and displayed",
		}),
		objects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detectcam_objects_detected_total",
			Help: "Objects drawn, summed over all frames",
		}),
		inferenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "detectcam_inference_errors_total",
			Help: "Frames on which object detection failed",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "detectcam_fps",
			Help: "Frames per second, averaged over recent frames",
		}),
		inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "detectcam_inference_seconds",
			Help:    "Time spent running the detection model on one frame",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}
	m.registry.MustRegister(m.frames, m.objects, m.inferenceErrors, m.fps, m.inference)
	return m
}

// Hooks returns viewer hooks that feed these metrics
func (m *Metrics) Hooks() viewer.Hooks {
	return viewer.Hooks{
		OnFrame:          m.ObserveFrame,
		OnInferenceError: func(err error) { m.inferenceErrors.Inc() },
	}
}

func (m *Metrics) ObserveFrame(s viewer.FrameStats) {
	m.frames.Inc()
	m.objects.Add(float64(s.Objects))
	m.fps.Set(s.AverageFPS)
	m.inference.Observe(s.InferenceTime.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve /metrics on addr in the background.
// The viewer loop is not affected if the listener fails.
func (m *Metrics) Serve(log logs.Log, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		log.Infof("Serving metrics on %v/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warnf("Metrics server stopped: %v", err)
		}
	}()
}
