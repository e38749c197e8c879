package calculation

import (
	"math"

	"github.com/rpgo/wealthsim/internal/domain"
)

// Ledger is the balance sheet of one path. Values are in currency units.
type Ledger struct {
	Cushion      float64
	Savings      float64
	Debt         float64
	AnnualGrowth float64
	Restructured bool
}

// NewLedger allocates initial capital: the cushion fills first, the rest goes to savings.
// Negative capital is treated as zero.
func NewLedger(capital, cushionCap float64) Ledger {
	capital = math.Max(0, capital)
	cushion := math.Min(cushionCap, capital)
	return Ledger{Cushion: cushion, Savings: math.Max(0, capital-cushion)}
}

// NetWealth returns cushion + savings - debt
func (l Ledger) NetWealth() float64 {
	return l.Cushion + l.Savings - l.Debt
}

// asset names a balance that can fund a withdrawal
type asset int

const (
	cushionAsset asset = iota
	savingsAsset
)

var (
	cushionThenSavings = []asset{cushionAsset, savingsAsset}
	savingsOnly        = []asset{savingsAsset}
)

// withdraw takes amount from the assets in order and returns the unmet remainder.
// Every balance reduction in the engine goes through here.
func (l Ledger) withdraw(amount float64, order []asset) (Ledger, float64) {
	for _, a := range order {
		if amount <= 0 {
			break
		}
		switch a {
		case cushionAsset:
			take := math.Min(l.Cushion, amount)
			if take > 0 {
				l.Cushion -= take
				amount -= take
			}
		case savingsAsset:
			l, amount = l.takeSavings(amount)
		}
	}
	return l, math.Max(0, amount)
}

// takeSavings removes up to amount from savings and scales annual growth by the
// fraction that remains. Emptied savings carry no growth.
func (l Ledger) takeSavings(amount float64) (Ledger, float64) {
	if l.Savings <= 0 {
		l.Savings = 0
		l.AnnualGrowth = 0
		return l, amount
	}
	if amount >= l.Savings {
		rest := amount - l.Savings
		l.Savings = 0
		l.AnnualGrowth = 0
		return l, rest
	}
	l.AnnualGrowth -= l.AnnualGrowth * (amount / l.Savings)
	l.Savings -= amount
	return l, 0
}

// repay pays down debt from the assets in order
func (l Ledger) repay(order []asset) Ledger {
	if l.Debt <= 0 {
		return l
	}
	l, short := l.withdraw(l.Debt, order)
	l.Debt = short
	return l
}

// spend pays a planned expense from savings; any shortfall becomes debt
func (l Ledger) spend(amount float64) Ledger {
	l, short := l.withdraw(amount, savingsOnly)
	l.Debt += short
	return l
}

// Settled returns the ledger after repaying all debt it can from cushion then savings.
// Net wealth is unchanged.
func (l Ledger) Settled() Ledger {
	return l.repay(cushionThenSavings)
}

// checkInvariants counts violated ledger invariants without correcting them
func (l Ledger) checkInvariants(cushionCap float64) domain.Diagnostics {
	var d domain.Diagnostics
	if l.Cushion < 0 || l.Cushion > cushionCap {
		d.CushionBoundViolations++
	}
	if l.Savings < 0 || l.Debt < 0 {
		d.NegativeBalanceViolations++
	}
	if l.Savings <= 0 && l.AnnualGrowth != 0 {
		d.GrowthWithoutSavings++
	}
	return d
}

// deposit routes a positive flow into the cushion up to its cap, then into savings
func (l Ledger) deposit(amount, cushionCap float64) Ledger {
	room := cushionCap - l.Cushion
	switch {
	case room <= 0:
		l.Savings += amount
	case amount >= room:
		l.Cushion = cushionCap
		l.Savings += amount - room
	default:
		l.Cushion += amount
	}
	return l
}
