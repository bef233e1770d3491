// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRevertErrors(t *testing.T) {
	err := Newf(Window, "staking ended at %d", 1100)
	wrapped := errors.Wrap(err, "stake")

	assert.True(t, IsRevertErr(err))
	assert.True(t, IsRevertErr(wrapped))
	assert.False(t, IsRevertErr(errors.New("io")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))

	assert.Equal(t, Window, KindOf(wrapped))
	assert.Equal(t, Unknown, KindOf(errors.New("io")))
	assert.Equal(t, "window: staking ended at 1100", string(err.Bytes()))

	var nilErr *ErrRequire
	assert.Nil(t, nilErr.Bytes())
	assert.Equal(t, "external-call", ExternalCall.String())
}
