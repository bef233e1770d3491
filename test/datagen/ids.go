// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

func RandTxID() (id tx.ID) {
	rand.Read(id[:])
	return
}

// RandAccount returns a random account id.
func RandAccount() asset.ID {
	return asset.ID{Block: asset.BlockAccount, Tx: u128.From64(RandUint64())}
}

// RandInstance returns a random contract instance id.
func RandInstance() asset.ID {
	return asset.ID{Block: asset.BlockInstance, Tx: u128.From64(RandUint64())}
}
