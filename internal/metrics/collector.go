package metrics

import (
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/shared"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes planning activity as Prometheus metrics.
type Collector struct {
	plans      *prometheus.CounterVec
	meals      prometheus.Histogram
	agentCalls *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	tokens     *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pantry_planner",
			Name:      "plans_generated_total",
			Help:      "Meal plans generated, by source.",
		}, []string{"source"}),
		meals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pantry_planner",
			Name:      "plan_meals",
			Help:      "Number of meals in each generated plan.",
			Buckets:   []float64{0, 3, 7, 14, 21, 31, 62, 93},
		}),
		agentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pantry_planner",
			Name:      "agent_calls_total",
			Help:      "Language model calls, by agent and outcome.",
		}, []string{"agent", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pantry_planner",
			Name:      "agent_latency_seconds",
			Help:      "Language model call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"agent"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pantry_planner",
			Name:      "agent_tokens_total",
			Help:      "Tokens consumed, by agent and kind.",
		}, []string{"agent", "kind"}),
	}
	reg.MustRegister(c.plans, c.meals, c.agentCalls, c.latency, c.tokens)
	return c
}

// ObserveAgent records one language model call.
func (c *Collector) ObserveAgent(meta shared.AgentMeta) {
	c.agentCalls.WithLabelValues(meta.AgentName, meta.OutcomeOrOK()).Inc()
	c.latency.WithLabelValues(meta.AgentName).Observe(meta.Latency.Seconds())
	c.tokens.WithLabelValues(meta.AgentName, "prompt").Add(float64(meta.Usage.PromptTokens))
	c.tokens.WithLabelValues(meta.AgentName, "completion").Add(float64(meta.Usage.CompletionTokens))
}

// ObservePlan records a generated plan and the agent calls behind it.
func (c *Collector) ObservePlan(plan mealplan.MealPlan, metas []shared.AgentMeta) {
	source := string(plan.Source)
	if source == "" {
		source = "unknown"
	}
	c.plans.WithLabelValues(source).Inc()
	c.meals.Observe(float64(len(plan.Meals)))
	for _, m := range metas {
		c.ObserveAgent(m)
	}
}
