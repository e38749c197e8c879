package calculation

import "math"

// EventKind labels an entry in a scenario's shock/withdrawal history
type EventKind string

const (
	MinorEmergency     EventKind = "minor_emergency"
	MediumEmergency    EventKind = "medium_emergency"
	MajorEmergency     EventKind = "major_emergency"
	MinorClusterEvent  EventKind = "minor_cluster"
	MediumClusterEvent EventKind = "medium_cluster"
	ForcedMajorEvent   EventKind = "major_cluster"
	PartialIncomeLoss  EventKind = "partial_income_loss"
	FullIncomeLoss     EventKind = "full_income_loss"
	PlannedWithdrawal  EventKind = "planned_expense"
)

// Severity groups emergency kinds into tiers
type Severity int

const (
	NotEmergency Severity = iota
	MinorSeverity
	MediumSeverity
	MajorSeverity
)

// Severity returns the emergency tier of the kind
func (k EventKind) Severity() Severity {
	switch k {
	case MinorEmergency, MinorClusterEvent:
		return MinorSeverity
	case MediumEmergency, MediumClusterEvent:
		return MediumSeverity
	case MajorEmergency, ForcedMajorEvent:
		return MajorSeverity
	default:
		return NotEmergency
	}
}

// IsShock reports whether the kind is an emergency or an income loss
func (k EventKind) IsShock() bool {
	return k.Severity() != NotEmergency || k == PartialIncomeLoss || k == FullIncomeLoss
}

// ShockState carries the cluster and income-loss counters between months
type ShockState struct {
	MinorClusterActive    bool
	MajorClusterRemaining int
	PartialLossMonthsLeft int
	FullLossMonthsLeft    int
}

// ShockEvent is one stochastic cost in a month
type ShockEvent struct {
	Kind   EventKind
	Amount float64
}

// MonthShocks bundles a month's stochastic outcomes
type MonthShocks struct {
	Events        []ShockEvent
	EmergencyCost float64
	IncomeLoss    float64
}

// Total returns emergency costs plus income-loss amounts
func (m MonthShocks) Total() float64 {
	return m.EmergencyCost + m.IncomeLoss
}

func (m *MonthShocks) emergency(kind EventKind, cost float64) {
	m.Events = append(m.Events, ShockEvent{Kind: kind, Amount: cost})
	m.EmergencyCost += cost
}

func (m *MonthShocks) loss(kind EventKind, amount float64) {
	m.Events = append(m.Events, ShockEvent{Kind: kind, Amount: amount})
	m.IncomeLoss += amount
}

// ShockGenerator draws the monthly emergencies and income interruptions
type ShockGenerator struct {
	p ShockParams
}

// NewShockGenerator creates a generator for the given parameters
func NewShockGenerator(p ShockParams) ShockGenerator {
	return ShockGenerator{p: p}
}

// Next advances the shock counters by one month and returns the month's outcomes.
// Draws are taken from src in a fixed order so a seeded stream replays exactly.
func (g ShockGenerator) Next(s ShockState, income float64, src DrawSource) (ShockState, MonthShocks) {
	var out MonthShocks
	p := g.p

	if s.MajorClusterRemaining > 0 {
		out.emergency(ForcedMajorEvent, p.MajorCost)
		s.MajorClusterRemaining--
	} else {
		// minor and medium share one cluster flag; neither starts while it is set
		if !s.MinorClusterActive && bernoulli(src, p.MinorProb) {
			out.emergency(MinorEmergency, p.MinorCost)
			s.MinorClusterActive = true
		}
		if !s.MinorClusterActive && bernoulli(src, p.MediumProb) {
			out.emergency(MediumEmergency, p.MediumCost)
			s.MinorClusterActive = true
		}
		if bernoulli(src, p.MajorProb) {
			out.emergency(MajorEmergency, p.MajorCost)
			s.MajorClusterRemaining = poisson(src, p.MajorClusterLambda)
		}
	}

	if s.MinorClusterActive {
		if bernoulli(src, p.MinorClusterProb) {
			if src.Float64() < p.MinorClusterMinorShare {
				out.emergency(MinorClusterEvent, p.MinorCost)
			} else {
				out.emergency(MediumClusterEvent, p.MediumCost)
			}
		} else {
			s.MinorClusterActive = false
		}
	}

	if s.PartialLossMonthsLeft == 0 && bernoulli(src, p.PartialLossProb) {
		s.PartialLossMonthsLeft = durationMonths(src.ExpFloat64() * p.PartialLossDurationMean)
	}
	if s.FullLossMonthsLeft == 0 && bernoulli(src, p.FullLossProb) {
		s.FullLossMonthsLeft = durationMonths(p.FullLossDurationMean + p.FullLossDurationSD*src.NormFloat64())
	}
	if s.PartialLossMonthsLeft > 0 {
		out.loss(PartialIncomeLoss, income*p.PartialLossRate)
		s.PartialLossMonthsLeft--
	}
	if s.FullLossMonthsLeft > 0 {
		out.loss(FullIncomeLoss, income)
		s.FullLossMonthsLeft--
	}
	return s, out
}

// durationMonths rounds a continuous duration to whole months, at least one
func durationMonths(x float64) int {
	if math.IsNaN(x) {
		return 1
	}
	return max(1, int(math.Round(x)))
}
