// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/tx"
)

type Transactions struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Transactions {
	return &Transactions{chain}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := body.validate(); err != nil {
		return utils.BadRequest(err)
	}
	trx := body.build()

	var (
		receipt *tx.Receipt
		err     error
	)
	if body.Height == 0 {
		receipt, err = t.chain.Execute(trx)
	} else {
		if body.Height < t.chain.Height() {
			return utils.BadRequest(errors.Errorf("height: below head %d", t.chain.Height()))
		}
		receipt, err = t.chain.ExecuteAt(body.Height, trx)
	}
	if err != nil {
		if errors.Is(err, chain.ErrKnownTx) {
			return utils.HTTPError(err, http.StatusConflict)
		}
		if errors.Is(err, runtime.ErrInvalidCaller) {
			return utils.BadRequest(err)
		}
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) parseID(req *http.Request) (tx.ID, error) {
	id, err := tx.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return tx.ID{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := t.parseID(req)
	if err != nil {
		return err
	}
	trx, err := t.chain.GetTransaction(id)
	if err != nil {
		if chain.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, ConvertTransaction(trx))
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id, err := t.parseID(req)
	if err != nil {
		return err
	}
	receipt, err := t.chain.GetReceipt(id)
	if err != nil {
		if chain.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("transactions_send_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("transactions_get_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("transactions_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
