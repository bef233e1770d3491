// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a contract call was rejected.
type Kind uint8

const (
	Unknown Kind = iota
	Authorization
	Configuration
	Window
	Capacity
	State
	ExternalCall
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case Configuration:
		return "configuration"
	case Window:
		return "window"
	case Capacity:
		return "capacity"
	case State:
		return "state"
	case ExternalCall:
		return "external-call"
	default:
		return "unknown"
	}
}

// ErrRequire is a failed precondition of a contract entry point. It aborts
// the call and every state change made by it.
type ErrRequire struct {
	kind    Kind
	message string
}

func NewRequireError(kind Kind, message string) *ErrRequire {
	return &ErrRequire{
		kind:    kind,
		message: message,
	}
}

// Newf formats the message of a new ErrRequire.
func Newf(kind Kind, format string, args ...any) *ErrRequire {
	return NewRequireError(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Kind returns the class of the failure.
func (e *ErrRequire) Kind() Kind {
	return e.kind
}

// Bytes returns the revert payload recorded in receipts.
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}
	return []byte(e.kind.String() + ": " + e.message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRequire
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}

// KindOf returns the kind of the first ErrRequire in err's chain, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRequire
	if errors.As(err, &ve) && ve != nil {
		return ve.kind
	}
	return Unknown
}
