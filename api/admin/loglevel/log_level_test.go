// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/log"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedLevel  string
		expectedError  string
		finalLevel     slog.Level
	}{
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", "", log.LevelDebug},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "trace", "", log.LevelTrace},
		{"invalid level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "", "Invalid verbosity level", log.LevelInfo},
		{"unknown field", http.MethodPost, `{"verbosity":3}`, http.StatusBadRequest, "", "", log.LevelInfo},
		{"get", http.MethodGet, "", http.StatusOK, "info", "", log.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(log.LevelInfo)

			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")

			req := httptest.NewRequest(tt.method, "/admin/loglevel", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.finalLevel, logLevel.Level())
			if tt.expectedLevel != "" {
				var resp Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedLevel, resp.CurrentLevel)
			}
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, strings.TrimSpace(rr.Body.String()))
			}
		})
	}
}
