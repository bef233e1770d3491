// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package guard holds checks shared by the builtin contracts.
package guard

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
)

// OnlyOwner requires the call to carry exactly one transfer, of at least
// one unit of the running instance's own id. token names the id in errors.
func OnlyOwner(ctx *runtime.Context, token string) error {
	if len(ctx.Incoming) != 1 {
		return reverts.Newf(reverts.Authorization, "did not authenticate with only the %s", token)
	}
	t := ctx.Incoming[0]
	if t.ID != ctx.Myself {
		return reverts.Newf(reverts.Authorization, "supplied asset is not %s", token)
	}
	if t.Value.IsZero() {
		return reverts.Newf(reverts.Authorization, "less than 1 unit of %s supplied to authenticate", token)
	}
	return nil
}

// External turns the failure of a nested call into an ExternalCall revert.
// State access failures and fuel exhaustion are returned unchanged.
func External(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var serr *state.Error
	if errors.As(err, &serr) || fuel.IsOutOfFuel(err) {
		return err
	}
	return reverts.Newf(reverts.ExternalCall, "%s: %v", fmt.Sprintf(format, args...), err)
}

// Text decodes a string payload returned by a nested call.
func Text(data []byte, what string) (string, error) {
	if !utf8.Valid(data) {
		return "", reverts.Newf(reverts.ExternalCall, "%s is not valid utf-8", what)
	}
	return string(data), nil
}
