package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/policy"
	"github.com/slp-mesh/slp-go/pkg/sleep"
)

// Namespace prefixes every metric name.
const Namespace = "slp"

var gateStates = []gate.State{gate.StateActive, gate.StatePendingSleep, gate.StateAsleep}

// Recorder exposes Prometheus metrics for one engine.
type Recorder struct {
	transitions *prometheus.CounterVec
	commands    *prometheus.CounterVec
	timers      *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	fires       *prometheus.CounterVec
	packets     *prometheus.CounterVec
	gateState   *prometheus.GaugeVec
	sleepCycles prometheus.Counter
	gatherer    prometheus.Gatherer
}

// NewRecorder registers metrics with the provided registry. If reg also
// implements prometheus.Gatherer it backs Handler; otherwise Handler serves
// the default gatherer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "gate_transitions_total",
			Help:      "Gate state changes grouped by edge",
		}, []string{"from", "to", "trigger"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commands_total",
			Help:      "Collaborator commands grouped by command and delivery",
		}, []string{"command", "delivered"}),
		timers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "timer_events_total",
			Help:      "Timer activity grouped by timer and action",
		}, []string{"timer", "action"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "policy_evaluations_total",
			Help:      "Qualifying packets evaluated by the sleep policy",
		}, []string{"policy"}),
		fires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "policy_fires_total",
			Help:      "Evaluations that triggered the sleep policy",
		}, []string{"policy"}),
		packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "packets_total",
			Help:      "Interceptor verdicts grouped by direction, protocol and action",
		}, []string{"direction", "protocol", "action"}),
		gateState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gate_state",
			Help:      "Current gate state (1 for the active state label)",
		}, []string{"state"}),
		sleepCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sleep_cycles_total",
			Help:      "Completed sleep cycles",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		r.transitions,
		r.commands,
		r.timers,
		r.evaluations,
		r.fires,
		r.packets,
		r.gateState,
		r.sleepCycles,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		r.gatherer = g
	} else {
		r.gatherer = prometheus.DefaultGatherer
	}

	r.setState(gate.StateActive)
	return r
}

// Handler returns an HTTP handler serving the registered metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// RecordTransition implements sleep.Recorder.
func (r *Recorder) RecordTransition(from, to gate.State, trigger sleep.Trigger) {
	r.transitions.WithLabelValues(from.String(), to.String(), trigger.String()).Inc()
	if from == gate.StateAsleep && trigger == sleep.TriggerSleepExpired {
		r.sleepCycles.Inc()
	}
	r.setState(to)
}

// RecordCommand implements sleep.Recorder.
func (r *Recorder) RecordCommand(cmd sleep.Command, delivered bool) {
	r.commands.WithLabelValues(cmd.String(), boolLabel(delivered)).Inc()
}

// RecordTimer implements sleep.Recorder.
func (r *Recorder) RecordTimer(timer sleep.TimerKind, action log.TimerAction) {
	r.timers.WithLabelValues(timer.String(), action.String()).Inc()
}

// RecordPolicy implements sleep.Recorder.
func (r *Recorder) RecordPolicy(kind policy.Kind, fired bool) {
	r.evaluations.WithLabelValues(kind.String()).Inc()
	if fired {
		r.fires.WithLabelValues(kind.String()).Inc()
	}
}

// RecordDecision implements gate.DecisionRecorder.
func (r *Recorder) RecordDecision(dir gate.Direction, _ gate.State, meta gate.PacketMeta, action gate.Action) {
	r.packets.WithLabelValues(dir.String(), meta.Protocol.String(), action.String()).Inc()
}

func (r *Recorder) setState(current gate.State) {
	for _, s := range gateStates {
		v := 0.0
		if s == current {
			v = 1
		}
		r.gateState.WithLabelValues(s.String()).Set(v)
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Compile-time interface satisfaction checks.
var (
	_ sleep.Recorder        = (*Recorder)(nil)
	_ gate.DecisionRecorder = (*Recorder)(nil)
)
