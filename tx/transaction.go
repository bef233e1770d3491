// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/u128"
)

// ID identifies a transaction. It is the blake2b-256 hash of its rlp encoding.
type ID [32]byte

// String returns the 0x prefixed hex form.
func (id ID) String() string {
	return hexutil.Encode(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID parses the hex form, with or without 0x prefix.
func ParseID(s string) (ID, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return ID{}, errors.Wrap(err, "tx id")
	}
	if len(b) != len(ID{}) {
		return ID{}, errors.Errorf("tx id: expected %d bytes, got %d", len(ID{}), len(b))
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Transaction is an immutable call of Target by Caller.
type Transaction struct {
	body body

	cache struct {
		id *ID
	}
}

// body describes details of a tx.
type body struct {
	Caller    asset.ID
	Target    asset.ID
	Inputs    []u128.Int
	Parcel    asset.Parcel
	FuelLimit uint64
	Nonce     uint64
}

// ID returns the id of tx.
func (t *Transaction) ID() ID {
	if cached := t.cache.id; cached != nil {
		return *cached
	}
	h, _ := blake2b.New256(nil)
	_ = rlp.Encode(h, &t.body)

	var id ID
	h.Sum(id[:0])
	t.cache.id = &id
	return id
}

// Caller returns the account or contract sending the call.
func (t *Transaction) Caller() asset.ID { return t.body.Caller }

// Target returns the called contract. A factory id instantiates a template.
func (t *Transaction) Target() asset.ID { return t.body.Target }

// Inputs returns a copy of the call inputs. The first input is the opcode.
func (t *Transaction) Inputs() []u128.Int {
	return append([]u128.Int(nil), t.body.Inputs...)
}

// Parcel returns a copy of the assets sent with the call.
func (t *Transaction) Parcel() asset.Parcel { return t.body.Parcel.Clone() }

// FuelLimit returns the fuel budget of the whole transaction.
func (t *Transaction) FuelLimit() uint64 { return t.body.FuelLimit }

// Nonce returns the nonce, used to tell otherwise identical transactions apart.
func (t *Transaction) Nonce() uint64 { return t.body.Nonce }

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v)
	Caller:     %v
	Target:     %v
	Inputs:     %v
	Parcel:     %v
	FuelLimit:  %v
	Nonce:      %v`, t.ID(), t.body.Caller, t.body.Target, t.body.Inputs,
		t.body.Parcel, t.body.FuelLimit, t.body.Nonce)
}
