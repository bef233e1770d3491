// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/u128"
)

// Well known values of the block half of an ID.
var (
	// BlockAccount holds externally owned accounts.
	BlockAccount = u128.From64(1)
	// BlockInstance holds contract instances created by the runtime.
	BlockInstance = u128.From64(2)
	// BlockFactory targets a template: calling {5, n} instantiates template n.
	BlockFactory = u128.From64(5)
)

// IDLength is the length of the binary form of an ID.
const IDLength = 2 * u128.Size

// ID identifies an account, a contract instance and the asset it issues.
// It is a (block, tx) pair of 128-bit integers.
type ID struct {
	Block u128.Int
	Tx    u128.Int
}

// NewID creates an ID from small integers.
func NewID(block, tx uint64) ID {
	return ID{Block: u128.From64(block), Tx: u128.From64(tx)}
}

// ParseID parses the "block:tx" form.
func ParseID(s string) (ID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ID{}, errors.Errorf("invalid id %q", s)
	}
	block, err := u128.Parse(parts[0])
	if err != nil {
		return ID{}, errors.Wrapf(err, "invalid id %q", s)
	}
	tx, err := u128.Parse(parts[1])
	if err != nil {
		return ID{}, errors.Wrapf(err, "invalid id %q", s)
	}
	return ID{Block: block, Tx: tx}, nil
}

// MustParseID is like ParseID but panics on error.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// BytesToID decodes the 32-byte little-endian form.
func BytesToID(b []byte) (ID, error) {
	if len(b) < IDLength {
		return ID{}, errors.Errorf("id requires %d bytes, got %d", IDLength, len(b))
	}
	return ID{
		Block: u128.FromBytesLE(b[:u128.Size]),
		Tx:    u128.FromBytesLE(b[u128.Size:IDLength]),
	}, nil
}

// Bytes returns block and tx as two little-endian 16-byte integers.
func (id ID) Bytes() []byte {
	b := make([]byte, 0, IDLength)
	b = append(b, id.Block.BytesLE()...)
	return append(b, id.Tx.BytesLE()...)
}

// IsZero returns whether the ID is {0, 0}.
func (id ID) IsZero() bool {
	return id.Block.IsZero() && id.Tx.IsZero()
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%s:%s", id.Block, id.Tx)
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id ID) MarshalYAML() (any, error) {
	return id.String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by yaml and flags.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
