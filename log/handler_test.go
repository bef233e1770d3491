// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type id string

func (i id) String() string { return "id:" + string(i) }

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandler(&buf))

	l.Info("staked", "weight", uint256.NewInt(7), "vault", id("2:3"), "err", errors.New("cap exceeded"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "7", rec["weight"])
	assert.Equal(t, "id:2:3", rec["vault"])
	assert.Equal(t, "cap exceeded", rec["err"])
}

func TestDiscardHandler(t *testing.T) {
	h := DiscardHandler()
	assert.False(t, h.Enabled(context.Background(), LevelCrit))
	assert.NotPanics(t, func() { NewLogger(h.WithGroup("g")).Error("dropped") })
}

func TestLogfmtHandlerWithLevel(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	l := NewLogger(LogfmtHandlerWithLevel(&buf, &lvl))

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), "lvl=warn")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestWithContextFollowsRoot(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	pkgLogger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(NewLogger(LogfmtHandler(&buf)))
	pkgLogger.Info("hello")

	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLegacyLevels(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "dbug", LevelString(slog.LevelDebug))
}
