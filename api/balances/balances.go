// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/u128"
)

// Balance is the amount of an asset held by a holder.
type Balance struct {
	Holder asset.ID `json:"holder"`
	Asset  asset.ID `json:"asset"`
	Amount u128.Int `json:"amount"`
	Height uint64   `json:"height"`
}

type Balances struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Balances {
	return &Balances{chain}
}

func (b *Balances) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := utils.IDVar(req, "holder")
	if err != nil {
		return err
	}
	id, err := utils.IDVar(req, "asset")
	if err != nil {
		return err
	}
	height := b.chain.Height()
	amount, err := b.chain.Balance(holder, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{
		Holder: holder,
		Asset:  id,
		Amount: amount,
		Height: height,
	})
}

func (b *Balances) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{holder}/{asset}").
		Methods(http.MethodGet).
		Name("balances_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBalance))
}
