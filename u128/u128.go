// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package u128 implements the unsigned 128-bit integer used for amounts,
// weights and counters. Arithmetic is carried out on 256-bit words and every
// operation reports whether the result left the 128-bit range.
package u128

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Size is the width of the little-endian encoding in bytes.
const Size = 16

var (
	// Zero is the zero value.
	Zero = Int{}
	// One is 1.
	One = From64(1)
	// Max is 2^128 - 1.
	Max = Int{v: uint256.Int{^uint64(0), ^uint64(0), 0, 0}}

	// ErrOverflow reports a value that does not fit in 128 bits.
	ErrOverflow = errors.New("u128: value overflows 128 bits")
	// ErrDivisionByZero reports a zero divisor.
	ErrDivisionByZero = errors.New("u128: division by zero")
)

// Int is an immutable unsigned 128-bit integer.
type Int struct {
	v uint256.Int
}

// From64 converts an uint64.
func From64(x uint64) Int {
	return Int{v: uint256.Int{x, 0, 0, 0}}
}

// FromBig converts a big.Int. The second result is false if b is negative
// or does not fit in 128 bits.
func FromBig(b *big.Int) (Int, bool) {
	if b == nil || b.Sign() < 0 {
		return Zero, false
	}
	v, overflow := uint256.FromBig(b)
	if overflow || !fits(v) {
		return Zero, false
	}
	return Int{v: *v}, true
}

// FromBytesLE decodes up to 16 little-endian bytes. Missing bytes are zero,
// extra bytes are ignored.
func FromBytesLE(b []byte) Int {
	var buf [Size]byte
	copy(buf[:], b)
	return Int{v: uint256.Int{
		binary.LittleEndian.Uint64(buf[0:8]),
		binary.LittleEndian.Uint64(buf[8:16]),
		0, 0,
	}}
}

// Parse parses a decimal string.
func Parse(s string) (Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Zero, errors.Wrap(err, "u128: parse")
	}
	if !fits(v) {
		return Zero, ErrOverflow
	}
	return Int{v: *v}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Int {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

func fits(v *uint256.Int) bool {
	return v[2] == 0 && v[3] == 0
}

// BytesLE returns the 16-byte little-endian encoding.
func (x Int) BytesLE() []byte {
	b := make([]byte, Size)
	binary.LittleEndian.PutUint64(b[0:8], x.v[0])
	binary.LittleEndian.PutUint64(b[8:16], x.v[1])
	return b
}

// IsZero returns whether x == 0.
func (x Int) IsZero() bool {
	return x.v.IsZero()
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Int) Cmp(y Int) int {
	return x.v.Cmp(&y.v)
}

// IsUint64 reports whether x fits in an uint64.
func (x Int) IsUint64() bool {
	return x.v.IsUint64()
}

// Uint64 returns the low 64 bits.
func (x Int) Uint64() uint64 {
	return x.v[0]
}

// Big returns x as a new big.Int.
func (x Int) Big() *big.Int {
	return x.v.ToBig()
}

// Add returns x + y and whether the sum overflowed.
func (x Int) Add(y Int) (Int, bool) {
	var z uint256.Int
	z.Add(&x.v, &y.v)
	if !fits(&z) {
		return Zero, true
	}
	return Int{v: z}, false
}

// Sub returns x - y and whether the difference underflowed.
func (x Int) Sub(y Int) (Int, bool) {
	if x.Cmp(y) < 0 {
		return Zero, true
	}
	var z uint256.Int
	z.Sub(&x.v, &y.v)
	return Int{v: z}, false
}

// Mul returns x * y and whether the product overflowed.
func (x Int) Mul(y Int) (Int, bool) {
	// both operands are below 2^128 so the 256-bit product never wraps
	var z uint256.Int
	z.Mul(&x.v, &y.v)
	if !fits(&z) {
		return Zero, true
	}
	return Int{v: z}, false
}

// Div returns floor(x / y), or ErrDivisionByZero.
func (x Int) Div(y Int) (Int, error) {
	if y.IsZero() {
		return Zero, ErrDivisionByZero
	}
	var z uint256.Int
	z.Div(&x.v, &y.v)
	return Int{v: z}, nil
}

// SaturatingAdd returns x + y clamped to Max.
func (x Int) SaturatingAdd(y Int) Int {
	if z, overflow := x.Add(y); !overflow {
		return z
	}
	return Max
}

// SaturatingSub returns x - y clamped to Zero.
func (x Int) SaturatingSub(y Int) Int {
	z, _ := x.Sub(y)
	return z
}

// SaturatingMul returns x * y clamped to Max.
func (x Int) SaturatingMul(y Int) Int {
	if z, overflow := x.Mul(y); !overflow {
		return z
	}
	return Max
}

// MulDiv returns floor(x * y / z). It fails with ErrOverflow when the
// product does not fit in 128 bits and with ErrDivisionByZero when z is zero.
func (x Int) MulDiv(y, z Int) (Int, error) {
	product, overflow := x.Mul(y)
	if overflow {
		return Zero, ErrOverflow
	}
	return product.Div(z)
}

// String returns the decimal representation.
func (x Int) String() string {
	return x.v.Dec()
}

// MarshalText implements encoding.TextMarshaler.
func (x Int) MarshalText() ([]byte, error) {
	return []byte(x.v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Int) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (x Int) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, x.Big())
}

// DecodeRLP implements rlp.Decoder.
func (x *Int) DecodeRLP(s *rlp.Stream) error {
	var b big.Int
	if err := s.Decode(&b); err != nil {
		return err
	}
	v, ok := FromBig(&b)
	if !ok {
		return ErrOverflow
	}
	*x = v
	return nil
}
