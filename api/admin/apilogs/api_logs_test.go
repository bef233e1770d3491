// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		body         string
		start        bool
		expectedHTTP int
		expectedEnd  bool
	}{
		{"enable", http.MethodPost, `{"enabled":true}`, false, http.StatusOK, true},
		{"disable", http.MethodPost, `{"enabled":false}`, true, http.StatusOK, false},
		{"get", http.MethodGet, "", true, http.StatusOK, true},
		{"bad body", http.MethodPost, `{"enabled":"yes"}`, true, http.StatusBadRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/apilogs", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedHTTP, rr.Code)
			assert.Equal(t, tt.expectedEnd, enabled.Load())
			if rr.Code == http.StatusOK {
				var status LogStatus
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
				assert.Equal(t, tt.expectedEnd, status.Enabled)
			}
		})
	}
}
