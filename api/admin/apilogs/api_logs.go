// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package apilogs toggles the request logger of the public API at runtime.
package apilogs

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "apilogs")

// LogStatus tells whether every API request is logged.
type LogStatus struct {
	Enabled bool `json:"enabled"`
}

// APILogs serves the flag shared with the request logger middleware.
type APILogs struct {
	enabled *atomic.Bool
}

func New(enabled *atomic.Bool) *APILogs {
	return &APILogs{enabled}
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_get_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_set_api_logs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSet))
}

func (a *APILogs) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{Enabled: a.enabled.Load()})
}

func (a *APILogs) handleSet(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(err)
	}
	if prev := a.enabled.Swap(req.Enabled); prev != req.Enabled {
		logger.Info("api request logging toggled", "enabled", req.Enabled)
	}
	return utils.WriteJSON(w, LogStatus{Enabled: req.Enabled})
}
