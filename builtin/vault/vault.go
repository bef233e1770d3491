// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the per-stake receipt contract. Each vault holds
// the principal of one position; its single unit is the bearer receipt.
package vault

import (
	"fmt"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/guard"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/storage"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/u128"
)

// ContentType is the type of the data returned by opcode 1000.
const ContentType = "image/png"

var (
	logger      = log.WithContext("pkg", "vault")
	metricCalls = metrics.LazyLoadCounterVec("vault_calls_count", []string{"op", "outcome"})
)

// Contract is the runtime entry point of the vault template.
var Contract runtime.Contract = runtime.ContractFunc(Execute)

// Execute decodes and runs one call.
func Execute(env runtime.Env) (*runtime.Response, error) {
	msg, err := Decode(env.Context().Inputs)
	if err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"op": "invalid", "outcome": "reverted"})
		return nil, err
	}
	resp, err := New(env).Handle(msg)
	outcome := "success"
	if err != nil {
		outcome = "reverted"
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": opName(msg), "outcome": outcome})
	return resp, err
}

// Vault implements the vault opcodes against one instance.
type Vault struct {
	env runtime.Env
	ctx *runtime.Context

	collection *storage.Slot[asset.ID]
	index      *storage.Slot[u128.Int]
}

// New binds a vault to the running instance of env.
func New(env runtime.Env) *Vault {
	ctx := env.Context()
	sctx := storage.NewContext(ctx.Myself, env.State(), env.Fuel())
	return &Vault{
		env:        env,
		ctx:        ctx,
		collection: storage.NewID(sctx, "/collection_id"),
		index:      storage.NewUint128(sctx, "/index"),
	}
}

// Handle dispatches msg.
func (v *Vault) Handle(msg Message) (*runtime.Response, error) {
	switch m := msg.(type) {
	case Initialize:
		return v.Initialize(m.Index)
	case Unstake:
		return v.Unstake()
	case GetName:
		return v.withData(v.Name())
	case GetSymbol:
		return v.withData(v.Symbol())
	case GetTotalSupply:
		return v.withData(u128.One.BytesLE(), nil)
	case GetCollectionIdentifier:
		collection, err := v.collectionRef()
		return v.withData([]byte(collection.String()), err)
	case GetIndex:
		index, err := v.index.Get()
		return v.withData(index.BytesLE(), err)
	case GetData:
		index, err := v.index.Get()
		if err != nil {
			return nil, err
		}
		return v.withData(v.queryCollection(pool.GetData{Index: index}))
	case GetContentType:
		return v.withData([]byte(ContentType), nil)
	case GetAttributes:
		return v.withData(v.queryCollection(pool.GetAttributes{}))
	default:
		return nil, reverts.Newf(reverts.Configuration, "unhandled message %T", msg)
	}
}

// Initialize binds the vault to the calling collection and mints the
// receipt unit.
func (v *Vault) Initialize(index u128.Int) (*runtime.Response, error) {
	if err := v.env.ObserveInitialization(); err != nil {
		return nil, err
	}
	if err := v.collection.Set(v.ctx.Caller); err != nil {
		return nil, err
	}
	if err := v.index.Set(index); err != nil {
		return nil, err
	}
	return &runtime.Response{
		Parcel: asset.Parcel{{ID: v.ctx.Myself, Value: u128.One}},
	}, nil
}

// Unstake consumes the receipt, asks the collection to close the position,
// and hands the reward and the principal held by the vault to the caller.
func (v *Vault) Unstake() (*runtime.Response, error) {
	if err := guard.OnlyOwner(v.ctx, "authentication token"); err != nil {
		return nil, err
	}
	collection, err := v.collectionRef()
	if err != nil {
		return nil, err
	}
	index, err := v.index.Get()
	if err != nil {
		return nil, err
	}

	inputs := []u128.Int{u128.From64(pool.OpUnstake), index}
	sub, err := v.env.Call(collection, inputs, nil, 0)
	if err != nil {
		return nil, err
	}
	stakingToken, err := asset.BytesToID(sub.Data)
	if err != nil {
		return nil, reverts.Newf(reverts.ExternalCall, "collection returned no staking asset: %v", err)
	}

	resp := &runtime.Response{Parcel: sub.Parcel.Clone()}
	principal, err := v.env.Balance(v.ctx.Myself, stakingToken)
	if err != nil {
		return nil, err
	}
	if !principal.IsZero() {
		resp.Parcel = append(resp.Parcel, asset.Transfer{ID: stakingToken, Value: principal})
	}
	logger.Debug("vault unstaked", "vault", v.ctx.Myself, "index", index, "principal", principal, "parcel", resp.Parcel)
	return resp, nil
}

// Name returns "{collection name} #{index}".
func (v *Vault) Name() ([]byte, error) {
	index, err := v.index.Get()
	if err != nil {
		return nil, err
	}
	name := "Unknown"
	if data, err := v.queryCollection(pool.GetName{}); err == nil {
		if text, err := guard.Text(data, "collection name"); err == nil {
			name = text
		}
	} else if !reverts.IsRevertErr(err) {
		return nil, err
	}
	return fmt.Appendf(nil, "%s #%s", name, index), nil
}

// Symbol returns "SLP #{index}".
func (v *Vault) Symbol() ([]byte, error) {
	index, err := v.index.Get()
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "%s #%s", pool.CollectionSymbol, index), nil
}

func (v *Vault) collectionRef() (asset.ID, error) {
	id, err := v.collection.Get()
	if err != nil {
		return asset.ID{}, err
	}
	if id.IsZero() {
		return asset.ID{}, reverts.NewRequireError(reverts.Configuration, "collection reference not found")
	}
	return id, nil
}

// queryCollection runs a read-only call against the collection and returns
// its data.
func (v *Vault) queryCollection(msg pool.Message) ([]byte, error) {
	collection, err := v.collectionRef()
	if err != nil {
		return nil, err
	}
	resp, err := v.env.StaticCall(collection, pool.Inputs(msg), 0)
	if err != nil {
		return nil, guard.External(err, "query opcode %d of collection %s", msg.Opcode(), collection)
	}
	return resp.Data, nil
}

func (v *Vault) withData(data []byte, err error) (*runtime.Response, error) {
	if err != nil {
		return nil, err
	}
	resp := runtime.Forward(v.ctx)
	resp.Data = data
	return resp, nil
}
