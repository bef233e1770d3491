// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/asset"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID   ID     `json:"txID"`
	Height uint64 `json:"height"`
	// whether the transaction was rolled back
	Reverted bool `json:"reverted"`
	// class and message of the failure, empty on success
	RevertKind   string `json:"revertKind,omitempty"`
	RevertReason string `json:"revertReason,omitempty"`
	// assets returned to the caller
	Parcel asset.Parcel  `json:"parcel"`
	Data   hexutil.Bytes `json:"data"`
	// contract instances created, in creation order
	Created  []asset.ID `json:"created"`
	FuelUsed uint64     `json:"fuelUsed"`
}

// EncodeReceipt returns the rlp form of r.
func EncodeReceipt(r *Receipt) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// DecodeReceipt decodes the rlp form of a receipt.
func DecodeReceipt(data []byte) (*Receipt, error) {
	var r Receipt
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
