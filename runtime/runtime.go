// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes contract calls against a revertible state.
// Every call frame runs behind a state checkpoint and is rolled back, with
// all its transfers, when it fails.
package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

// MaxCallDepth bounds the nesting of calls.
const MaxCallDepth = 64

// DefaultFuelLimit is used for transactions that carry no fuel limit.
const DefaultFuelLimit = 10_000_000

var (
	logger = log.WithContext("pkg", "runtime")

	errCallDepth = errors.New("max call depth exceeded")

	// ErrInvalidCaller rejects a transaction sent on behalf of anything but
	// an account. Contract instances only act through nested calls.
	ErrInvalidCaller = errors.New("caller is not an account")
)

// Runtime is to support transaction execution.
type Runtime struct {
	registry Registry
	state    *state.State
	height   uint64

	created []asset.ID
}

// New create a Runtime object.
func New(registry Registry, state *state.State, height uint64) *Runtime {
	return &Runtime{
		registry: registry,
		state:    state,
		height:   height,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Height() uint64      { return rt.height }

// Created returns the instances created by successful frames so far.
func (rt *Runtime) Created() []asset.ID {
	return append([]asset.ID(nil), rt.created...)
}

// ExecuteTransaction executes a transaction. Contract failures are reported
// in the receipt with every effect of the transaction reverted. The error is
// non-nil when the transaction is rejected, leaving no receipt, or when the
// state itself could not be accessed.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (*tx.Receipt, error) {
	if caller := trx.Caller(); caller.Block != asset.BlockAccount {
		return nil, errors.WithMessagef(ErrInvalidCaller, "caller %s", caller)
	}
	limit := trx.FuelLimit()
	if limit == 0 {
		limit = DefaultFuelLimit
	}
	meter := fuel.New(limit)
	rt.created = nil

	resp, err := rt.Call(trx.Caller(), trx.Target(), trx.Inputs(), trx.Parcel(), meter, false)

	receipt := &tx.Receipt{
		TxID:     trx.ID(),
		Height:   rt.height,
		FuelUsed: meter.Used(),
	}
	if err != nil {
		var serr *state.Error
		if errors.As(err, &serr) {
			return nil, err
		}
		receipt.Reverted = true
		receipt.RevertKind, receipt.RevertReason = Classify(err)
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "reverted", "kind": receipt.RevertKind})
		logger.Debug("tx reverted", "id", trx.ID(), "kind", receipt.RevertKind, "reason", receipt.RevertReason)
	} else {
		receipt.Parcel = resp.Parcel
		receipt.Data = resp.Data
		receipt.Created = rt.Created()
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "success", "kind": ""})
	}
	metricTxFuel().Observe(int64(meter.Used()))
	logger.Trace("fuel breakdown", "id", trx.ID(), "fuel", meter.Breakdown())
	return receipt, nil
}

// Classify returns the revert kind and reason recorded for a failed call.
func Classify(err error) (kind string, reason string) {
	switch {
	case reverts.IsRevertErr(err):
		return reverts.KindOf(err).String(), err.Error()
	case fuel.IsOutOfFuel(err):
		return "fuel", err.Error()
	default:
		return "host", err.Error()
	}
}

// Call runs target on behalf of caller. The parcel is moved from caller to
// the callee before it runs, and the response parcel back afterwards. A
// static call is always rolled back.
func (rt *Runtime) Call(
	caller, target asset.ID,
	inputs []u128.Int,
	parcel asset.Parcel,
	meter *fuel.Meter,
	static bool,
) (*Response, error) {
	return rt.call(caller, target, inputs, parcel, meter, static, 0)
}

func (rt *Runtime) call(
	caller, target asset.ID,
	inputs []u128.Int,
	parcel asset.Parcel,
	meter *fuel.Meter,
	static bool,
	depth int,
) (resp *Response, err error) {
	if depth >= MaxCallDepth {
		return nil, errCallDepth
	}
	if err := meter.Charge(fuel.CallFuel); err != nil {
		return nil, err
	}

	checkpoint := rt.state.NewCheckpoint()
	nCreated := len(rt.created)
	defer func() {
		if err != nil || static {
			rt.state.RevertTo(checkpoint)
			rt.created = rt.created[:nCreated]
		}
	}()

	myself, contract, err := rt.resolve(target, meter)
	if err != nil {
		return nil, err
	}
	if static {
		parcel = nil
	}
	if err := rt.transfer(caller, myself, parcel, meter, false); err != nil {
		return nil, err
	}

	fr := &frame{
		rt: rt,
		ctx: Context{
			Myself:   myself,
			Caller:   caller,
			Incoming: parcel.Clone(),
			Inputs:   append([]u128.Int(nil), inputs...),
			Height:   rt.height,
			Static:   static,
		},
		meter: meter,
		depth: depth,
	}
	resp, err = contract.Execute(fr)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &Response{}
	}
	resp.Instance = asset.ID{}
	if target.Block == asset.BlockFactory {
		resp.Instance = myself
	}
	if !static {
		if err := rt.transfer(myself, caller, resp.Parcel, meter, true); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// resolve finds the instance and contract behind target, instantiating a
// template when target is a factory id.
func (rt *Runtime) resolve(target asset.ID, meter *fuel.Meter) (asset.ID, Contract, error) {
	if target.Block == asset.BlockFactory {
		contract, ok := rt.registry.Contract(target.Tx)
		if !ok {
			return asset.ID{}, nil, errors.Errorf("unknown template %s", target.Tx)
		}
		if err := meter.Charge(fuel.CreateFuel); err != nil {
			return asset.ID{}, nil, err
		}
		seq, err := rt.state.NextSequence()
		if err != nil {
			return asset.ID{}, nil, err
		}
		instance := asset.ID{Block: asset.BlockInstance, Tx: seq}
		rt.state.SetTemplate(instance, target.Tx)
		rt.created = append(rt.created, instance)
		return instance, contract, nil
	}

	template, ok, err := rt.state.GetTemplate(target)
	if err != nil {
		return asset.ID{}, nil, err
	}
	if !ok {
		return asset.ID{}, nil, errors.Errorf("no contract at %s", target)
	}
	contract, ok := rt.registry.Contract(template)
	if !ok {
		return asset.ID{}, nil, errors.Errorf("unknown template %s of %s", template, target)
	}
	return target, contract, nil
}

// transfer moves every transfer of parcel from one holder to another. When
// mint is set, units of from's own id that from does not hold are created.
func (rt *Runtime) transfer(from, to asset.ID, parcel asset.Parcel, meter *fuel.Meter, mint bool) error {
	for _, t := range parcel {
		if t.Value.IsZero() {
			continue
		}
		if err := meter.Charge(fuel.TransferFuel); err != nil {
			return err
		}
		bal, err := rt.state.GetBalance(from, t.ID)
		if err != nil {
			return err
		}
		debit := t.Value
		if bal.Cmp(debit) < 0 {
			if !mint || t.ID != from {
				return errors.Errorf("%s holds %s of %s, cannot send %s", from, bal, t.ID, t.Value)
			}
			debit = bal
		}
		rt.state.SetBalance(from, t.ID, bal.SaturatingSub(debit))

		dest, err := rt.state.GetBalance(to, t.ID)
		if err != nil {
			return err
		}
		credited, overflow := dest.Add(t.Value)
		if overflow {
			return errors.Errorf("balance of %s in %s overflows", to, t.ID)
		}
		rt.state.SetBalance(to, t.ID, credited)
	}
	return nil
}
