// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/metrics"
)

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); store.Close() }()

	c, err := initChain(store, gene, chain.Options{
		StateCacheSize: ctx.Int(cacheFlag.Name) * 1024,
		QueryFuelLimit: ctx.Uint64(fuelLimitFlag.Name),
	})
	if err != nil {
		return err
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := api.New(c, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		adminURL, stopAdmin, err := api.StartAdminServer(addr, logLevel, &apiLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stopAdmin() }()
		logger.Info("admin server started", "url", adminURL)
	}

	logger.Info("API server started",
		"url", apiURL,
		"backend", ctx.String(backendFlag.Name),
		"dataDir", ctx.String(dataDirFlag.Name),
		"height", c.Height(),
	)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Debug("chain status", "height", c.Height())
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("exit signal received")
		return nil
	})
	return g.Wait()
}
