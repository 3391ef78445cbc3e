package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/super-flat/actornode/actors"
)

type tally struct{ n int }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRecorderCountsLifecycle(t *testing.T) {
	recorder := NewRecorder(prometheus.NewRegistry())
	node := actors.New(actors.WithLogger(quietLogger()), actors.WithListener(recorder.Listener()))
	node.Start()
	defer node.Shutdown()

	handle := actors.Spawn(context.Background(), node, func(ctx *actors.Context, state *tally, msg string) (*tally, error) {
		if msg == "fail" {
			return nil, errors.New("nope")
		}
		ctx.RespondWith(state.n)
		return &tally{n: state.n + 1}, nil
	}, &tally{})
	handle.Send("a")
	handle.SendWithReply("b", func(any) {})
	handle.Send("fail")
	node.Send("bogus", "x")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, node.AwaitIdle(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.spawned))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.messagesSent.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.messagesSent.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.stateChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.handlerFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.dropped.WithLabelValues("invalid address")))
	assert.Equal(t, 3.0, testutil.ToFloat64(recorder.transitions.WithLabelValues("waiting", "processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.actorsByStatus.WithLabelValues("idle")))
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.actorsByStatus.WithLabelValues("processing")))
}

func TestServeExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewRecorder(registry)
	recorder.spawned.Inc()

	// reserve a free port
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := probe.Addr().String()
	require.NoError(t, probe.Close())

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- Serve(ctx, addr, registry, quietLogger()) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, strings.Contains(body, "actornode_actors_spawned_total 1"))

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestServeGivesUpWhenCancelled(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err = Serve(ctx, busy.Addr().String(), prometheus.NewRegistry(), quietLogger())
	assert.Error(t, err)
}
