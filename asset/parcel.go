// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"fmt"
	"strings"

	"github.com/vechain/stakepool/u128"
)

// Transfer moves Value units of the asset ID.
type Transfer struct {
	ID    ID       `json:"id" yaml:"id"`
	Value u128.Int `json:"value" yaml:"value"`
}

func (t Transfer) String() string {
	return fmt.Sprintf("%s×%s", t.Value, t.ID)
}

// Parcel is an ordered list of transfers attached to a call or a response.
type Parcel []Transfer

// Clone returns a copy of the parcel.
func (p Parcel) Clone() Parcel {
	if p == nil {
		return nil
	}
	return append(Parcel(nil), p...)
}

// Partition splits the parcel into transfers of id and everything else.
// The first result sums the matched values; overflow reports whether that
// sum left the 128-bit range.
func (p Parcel) Partition(id ID) (total u128.Int, matched Parcel, rest Parcel, overflow bool) {
	for _, t := range p {
		if t.ID != id {
			rest = append(rest, t)
			continue
		}
		matched = append(matched, t)
		if !overflow {
			if total, overflow = total.Add(t.Value); overflow {
				total = u128.Max
			}
		}
	}
	return
}

// Amount sums the values of id in the parcel, saturating.
func (p Parcel) Amount(id ID) u128.Int {
	total := u128.Zero
	for _, t := range p {
		if t.ID == id {
			total = total.SaturatingAdd(t.Value)
		}
	}
	return total
}

func (p Parcel) String() string {
	parts := make([]string, 0, len(p))
	for _, t := range p {
		parts = append(parts, t.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
