package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Wizard = (*wizardMetrics)(nil)

type wizardMetrics struct {
	stepsAdvanced *prometheus.CounterVec
	stepsBack     *prometheus.CounterVec
	stepsRejected *prometheus.CounterVec
	submissions   *prometheus.CounterVec
}

func newWizardMetrics(registry *promRegistry) *wizardMetrics {
	advanced := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_advanced_total",
			Help: "Total number of successful wizard step submits by step",
		},
		[]string{"step"},
	)

	back := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_back_total",
			Help: "Total number of backward wizard navigations by step",
		},
		[]string{"step"},
	)

	rejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_rejected_total",
			Help: "Total number of wizard step submits blocked by validation",
		},
		[]string{"step"},
	)

	submissions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of terminal wizard submissions by outcome",
		},
		[]string{"outcome"},
	)

	registry.registry.MustRegister(advanced, back, rejected, submissions)

	return &wizardMetrics{
		stepsAdvanced: advanced,
		stepsBack:     back,
		stepsRejected: rejected,
		submissions:   submissions,
	}
}

func (m *wizardMetrics) StepAdvanced(step string) {
	m.stepsAdvanced.WithLabelValues(step).Add(1)
}

func (m *wizardMetrics) StepBack(step string) {
	m.stepsBack.WithLabelValues(step).Add(1)
}

func (m *wizardMetrics) StepRejected(step string) {
	m.stepsRejected.WithLabelValues(step).Add(1)
}

func (m *wizardMetrics) Submission(outcome string) {
	m.submissions.WithLabelValues(outcome).Add(1)
}
