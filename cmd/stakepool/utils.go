// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pebbledb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		handler = log.LogfmtHandlerWithLevel(os.Stderr, &level)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

// isTerminal reports whether stderr is attached to a terminal.
func isTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakepool")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.stakepool")
		default:
			return filepath.Join(home, ".org.vechain.stakepool")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// openStore opens the chain database of the data dir with the selected
// storage engine.
func openStore(ctx *cli.Context) (kv.StoreCloser, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.New("--data-dir required")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	cacheMB := ctx.Int(cacheFlag.Name)

	switch backend := ctx.String(backendFlag.Name); backend {
	case "leveldb":
		dir := filepath.Join(dataDir, "main.db")
		db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB / 2, OpenFilesCacheCapacity: 256})
		if err != nil {
			return nil, errors.Wrapf(err, "open leveldb [%v]", dir)
		}
		logger.Debug("opened database", "backend", backend, "dir", dir)
		return db, nil
	case "pebble":
		dir := filepath.Join(dataDir, "main.pebble")
		db, err := pebbledb.New(dir, pebbledb.Options{CacheSize: cacheMB / 2, MaxOpenFiles: 256})
		if err != nil {
			return nil, errors.Wrapf(err, "open pebble [%v]", dir)
		}
		logger.Debug("opened database", "backend", backend, "dir", dir)
		return db, nil
	default:
		return nil, errors.Errorf("unsupported backend %q", backend)
	}
}

// loadGenesis reads a genesis yaml file, or returns the dev genesis when
// path is empty.
func loadGenesis(path string) (*genesis.Genesis, error) {
	if path == "" {
		return genesis.Dev(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()
	return decodeGenesis(file)
}

func decodeGenesis(r io.Reader) (*genesis.Genesis, error) {
	var gene genesis.Genesis
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gene); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gene, nil
}

// initChain builds the genesis into a fresh store and opens the chain.
func initChain(store kv.Store, gene *genesis.Genesis, opts chain.Options) (*chain.Chain, error) {
	built, err := genesis.IsBuilt(store)
	if err != nil {
		return nil, err
	}
	if !built {
		ids, err := gene.Build(store)
		if err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		logger.Info("genesis built", "tokens", ids)
	}
	return chain.New(store, builtin.Registry{}, opts)
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("API server stopped", "err", err)
		}
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		<-done
	}, nil
}
