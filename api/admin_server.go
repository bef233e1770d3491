// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/admin"
)

// StartAdminServer serves the admin API on addr. It returns the base url and
// a function stopping the server.
func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{Handler: admin.New(logLevel, apiLogs), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("admin server stopped", "err", err)
		}
	}()
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		<-done
	}, nil
}
