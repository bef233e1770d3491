// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fuel meters the work done by a transaction and its nested calls.
package fuel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Costs of metered operations.
const (
	LoadFuel      uint64 = 200
	StoreSetFuel  uint64 = 2000
	StoreByteFuel uint64 = 8
	BalanceFuel   uint64 = 400
	TransferFuel  uint64 = 500
	CallFuel      uint64 = 1000
	CreateFuel    uint64 = 5000
)

// ErrOutOfFuel is returned when a meter's budget is exhausted.
var ErrOutOfFuel = errors.New("out of fuel")

// IsOutOfFuel reports whether err was caused by fuel exhaustion.
func IsOutOfFuel(err error) bool {
	return errors.Is(err, ErrOutOfFuel)
}

// Meter tracks fuel usage against a budget. Child meters drain their parent,
// so nested work is bounded by every enclosing budget.
type Meter struct {
	parent *Meter
	limit  uint64
	used   uint64

	loadOps    uint64
	storeOps   uint64
	balanceOps uint64
	transfers  uint64
	calls      uint64
	creates    uint64
	custom     uint64
}

// New creates a root meter.
func New(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Remaining returns the fuel still available, bounded by all ancestors.
func (m *Meter) Remaining() uint64 {
	left := m.limit - m.used
	if m.parent != nil {
		if p := m.parent.Remaining(); p < left {
			left = p
		}
	}
	return left
}

// Used returns the fuel consumed through this meter and its children.
func (m *Meter) Used() uint64 {
	return m.used
}

// Child creates a meter limited to budget, clamped to what remains here.
// A zero budget means everything that remains.
func (m *Meter) Child(budget uint64) *Meter {
	left := m.Remaining()
	if budget == 0 || budget > left {
		budget = left
	}
	return &Meter{parent: m, limit: budget}
}

func (m *Meter) consume(amount uint64) error {
	if amount > m.Remaining() {
		// burn what is left so the failing frame is charged in full
		m.burn(m.Remaining())
		return ErrOutOfFuel
	}
	m.burn(amount)
	return nil
}

func (m *Meter) burn(amount uint64) {
	for cur := m; cur != nil; cur = cur.parent {
		cur.used += amount
	}
}

// Charge consumes amount, classifying it by the known operation costs.
func (m *Meter) Charge(amount uint64) error {
	if m == nil {
		return nil
	}
	if err := m.consume(amount); err != nil {
		return err
	}
	switch amount {
	case LoadFuel:
		m.loadOps++
	case BalanceFuel:
		m.balanceOps++
	case TransferFuel:
		m.transfers++
	case CallFuel:
		m.calls++
	case CreateFuel:
		m.creates++
	default:
		if amount >= StoreSetFuel && (amount-StoreSetFuel)%StoreByteFuel == 0 {
			m.storeOps++
		} else {
			m.custom += amount
		}
	}
	return nil
}

// ChargeStore consumes the cost of writing a value of n bytes.
func (m *Meter) ChargeStore(n int) error {
	return m.Charge(StoreSetFuel + uint64(n)*StoreByteFuel)
}

// Breakdown describes how the fuel of this meter was spent.
func (m *Meter) Breakdown() string {
	return fmt.Sprintf(
		"LOAD: %d ops (%d) | STORE: %d ops | BALANCE: %d ops (%d) | TRANSFER: %d ops (%d) | CALL: %d ops (%d) | CREATE: %d ops (%d) | CUSTOM: %d | TOTAL: %d",
		m.loadOps,
		m.loadOps*LoadFuel,
		m.storeOps,
		m.balanceOps,
		m.balanceOps*BalanceFuel,
		m.transfers,
		m.transfers*TransferFuel,
		m.calls,
		m.calls*CallFuel,
		m.creates,
		m.creates*CreateFuel,
		m.custom,
		m.used,
	)
}
