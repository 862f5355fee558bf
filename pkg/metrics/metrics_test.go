package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/policy"
	"github.com/slp-mesh/slp-go/pkg/sleep"
)

func TestRecorderTransitions(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.RecordTransition(gate.StateActive, gate.StatePendingSleep, sleep.TriggerPolicyFire)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("ACTIVE", "PENDING_SLEEP", "POLICY_FIRE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gateState.WithLabelValues("PENDING_SLEEP")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.gateState.WithLabelValues("ACTIVE")))

	r.RecordTransition(gate.StateAsleep, gate.StateActive, sleep.TriggerForceActive)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.sleepCycles))

	r.RecordTransition(gate.StateAsleep, gate.StateActive, sleep.TriggerSleepExpired)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sleepCycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gateState.WithLabelValues("ACTIVE")))
}

func TestRecorderCountsActivity(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.RecordCommand(sleep.CommandRadioOff, true)
	r.RecordCommand(sleep.CommandLeaveNetwork, false)
	r.RecordTimer(sleep.TimerSleepDuration, log.TimerStale)
	r.RecordPolicy(policy.KindThreshold, false)
	r.RecordPolicy(policy.KindThreshold, true)
	r.RecordDecision(gate.DirectionInbound, gate.StateAsleep, gate.PacketMeta{Protocol: gate.ProtocolUDP}, gate.ActionDrop)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("RADIO_OFF", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("LEAVE_NETWORK", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.timers.WithLabelValues("SLEEP_DURATION", "STALE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("THRESHOLD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fires.WithLabelValues("THRESHOLD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.packets.WithLabelValues("IN", "UDP", "DROP")))
}

func TestRecorderWithEngine(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	cfg := sleep.DefaultConfig()
	cfg.Policy = policy.Config{Kind: policy.KindThreshold, Threshold: 2}
	cfg.PendingDelay = time.Hour
	cfg.Recorder = r
	cfg.DecisionRecorder = r

	e, err := sleep.NewEngine(cfg, nil, nil)
	require.NoError(t, err)
	defer e.Close()

	pkt := gate.PacketMeta{Protocol: gate.ProtocolUDP}
	for i := 0; i < 3; i++ {
		e.Interceptor().ClassifyInbound(pkt)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.packets.WithLabelValues("IN", "UDP", "PROCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.packets.WithLabelValues("IN", "UDP", "DROP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fires.WithLabelValues("THRESHOLD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commands.WithLabelValues("LEAVE_NETWORK", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gateState.WithLabelValues("PENDING_SLEEP")))
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.RecordPolicy(policy.KindProbability, true)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `slp_policy_fires_total{policy="PROBABILITY"} 1`)
	assert.Contains(t, string(body), `slp_gate_state{state="ACTIVE"} 1`)
}
