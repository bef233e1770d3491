// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/u128"
)

// QueryRequest is the body of a raw query.
type QueryRequest struct {
	Caller asset.ID   `json:"caller"`
	Inputs []u128.Int `json:"inputs"`
}

// QueryResult is the outcome of a raw query.
type QueryResult struct {
	Data     hexutil.Bytes `json:"data"`
	Reverted bool          `json:"reverted"`
	Kind     string        `json:"revertKind,omitempty"`
	Reason   string        `json:"revertReason,omitempty"`
}

type Contracts struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Contracts {
	return &Contracts{chain}
}

// query runs a read-only call. Contract failures are reported as bad
// requests, state access failures as internal errors.
func (c *Contracts) query(caller, target asset.ID, op uint64) ([]byte, error) {
	resp, err := c.chain.Query(caller, target, []u128.Int{u128.From64(op)})
	if err != nil {
		var serr *state.Error
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, utils.BadRequest(err)
	}
	return resp.Data, nil
}

func (c *Contracts) caller(req *http.Request) (asset.ID, error) {
	s := req.URL.Query().Get("caller")
	if s == "" {
		return asset.ID{}, nil
	}
	id, err := asset.ParseID(s)
	if err != nil {
		return asset.ID{}, utils.BadRequest(errors.WithMessage(err, "caller"))
	}
	return id, nil
}

func (c *Contracts) handleGetText(op uint64, field string) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		id, err := utils.IDVar(req, "id")
		if err != nil {
			return err
		}
		caller, err := c.caller(req)
		if err != nil {
			return err
		}
		data, err := c.query(caller, id, op)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, utils.M{field: string(data)})
	}
}

func (c *Contracts) handleGetAttributes(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.IDVar(req, "id")
	if err != nil {
		return err
	}
	caller, err := c.caller(req)
	if err != nil {
		return err
	}
	data, err := c.query(caller, id, pool.OpGetAttributes)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return errors.New("contract returned malformed attributes")
	}
	return utils.WriteJSON(w, json.RawMessage(data))
}

func (c *Contracts) handleQuery(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.IDVar(req, "id")
	if err != nil {
		return err
	}
	var body QueryRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Inputs) == 0 {
		return utils.BadRequest(errors.New("inputs: missing opcode"))
	}

	resp, err := c.chain.Query(body.Caller, id, body.Inputs)
	if err != nil {
		var serr *state.Error
		if errors.As(err, &serr) {
			return err
		}
		kind, reason := runtime.Classify(err)
		return utils.WriteJSON(w, &QueryResult{Reverted: true, Kind: kind, Reason: reason})
	}
	return utils.WriteJSON(w, &QueryResult{Data: resp.Data})
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}/name").
		Methods(http.MethodGet).
		Name("contracts_get_name").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetText(pool.OpGetName, "name")))
	sub.Path("/{id}/symbol").
		Methods(http.MethodGet).
		Name("contracts_get_symbol").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetText(pool.OpGetSymbol, "symbol")))
	sub.Path("/{id}/attributes").
		Methods(http.MethodGet).
		Name("contracts_get_attributes").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetAttributes))
	sub.Path("/{id}/query").
		Methods(http.MethodPost).
		Name("contracts_query").
		HandlerFunc(utils.WrapHandlerFunc(c.handleQuery))
}
