// Package metrics exports actor lifecycle events as Prometheus metrics.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/super-flat/actornode/actors"
)

// listenMaxRetries bounds the attempts to bind the metrics port
const listenMaxRetries = 5

// Recorder turns lifecycle events into Prometheus metrics
type Recorder struct {
	spawned        prometheus.Counter
	messagesSent   *prometheus.CounterVec
	stateChanges   prometheus.Counter
	transitions    *prometheus.CounterVec
	actorsByStatus *prometheus.GaugeVec
	handlerFailed  prometheus.Counter
	dropped        *prometheus.CounterVec
}

// NewRecorder creates the metrics and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actornode_actors_spawned_total",
			Help: "Total number of actors spawned",
		}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actornode_messages_sent_total",
			Help: "Total number of messages appended to a mailbox",
		}, []string{"with_reply"}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actornode_state_changes_total",
			Help: "Total number of actor state replacements",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actornode_status_transitions_total",
			Help: "Total number of actor status transitions",
		}, []string{"from", "to"}),
		actorsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actornode_actors",
			Help: "Current number of actors per status",
		}, []string{"status"}),
		handlerFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actornode_handler_failures_total",
			Help: "Total number of failed handler calls",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actornode_messages_dropped_total",
			Help: "Total number of undeliverable messages",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		r.spawned,
		r.messagesSent,
		r.stateChanges,
		r.transitions,
		r.actorsByStatus,
		r.handlerFailed,
		r.dropped,
	)

	return r
}

// Listener returns the hooks feeding the recorder
func (r *Recorder) Listener() actors.Listener {
	return actors.Listener{
		OnSpawned: func(e actors.SpawnedEvent) {
			r.spawned.Inc()
			r.actorsByStatus.WithLabelValues(e.Status.String()).Inc()
		},
		OnStateChanged: func(actors.StateChangedEvent) {
			r.stateChanges.Inc()
		},
		OnStatusChanged: func(e actors.StatusChangedEvent) {
			r.transitions.WithLabelValues(e.Previous.String(), e.Current.String()).Inc()
			r.actorsByStatus.WithLabelValues(e.Previous.String()).Dec()
			r.actorsByStatus.WithLabelValues(e.Current.String()).Inc()
		},
		OnMessageSent: func(e actors.MessageSentEvent) {
			r.messagesSent.WithLabelValues(boolToStr(e.WithReply)).Inc()
		},
		OnHandlerFailed: func(actors.HandlerFailedEvent) {
			r.handlerFailed.Inc()
		},
		OnDropped: func(e actors.DroppedEvent) {
			r.dropped.WithLabelValues(e.Reason).Inc()
		},
	}
}

// Serve exposes gatherer on addr under /metrics until ctx is done. Binding
// the port is retried with exponential backoff.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log logrus.FieldLogger) error {
	var listener net.Listener
	expoBackoff := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), listenMaxRetries),
		ctx,
	)
	err := backoff.RetryNotify(func() error {
		var err error
		listener, err = net.Listen("tcp", addr)
		return err
	}, expoBackoff, func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait).Warn("[metrics] failed to bind listener")
	})
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("address", listener.Addr().String()).Info("[metrics] serving")
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve metrics")
	}
	return nil
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
