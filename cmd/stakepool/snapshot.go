// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/snapshot"
)

func newProgressBar(total int64) *pb.ProgressBar {
	bar := pb.New64(total).
		SetUnits(pb.U_BYTES).
		SetMaxWidth(90)
	bar.Output = os.Stderr
	bar.NotPrint = !isTerminal()
	return bar.Start()
}

func exportAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 1 {
		return errors.New("snapshot file required")
	}
	path := ctx.Args().First()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}
	defer os.Remove(tmp)

	bar := newProgressBar(0)
	stats, err := snapshot.Export(store, io.MultiWriter(file, bar))
	bar.Finish()
	if err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "rename snapshot file")
	}
	fmt.Printf("exported %d entries, checksum %s\n", stats.Entries, hex.EncodeToString(stats.Checksum[:]))
	return nil
}

func importAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 1 {
		return errors.New("snapshot file required")
	}
	file, err := os.Open(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "open snapshot file")
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	bar := newProgressBar(info.Size())
	stats, err := snapshot.Import(bar.NewProxyReader(file), store)
	bar.Finish()
	if err != nil {
		return err
	}
	fmt.Printf("imported %d entries, checksum %s\n", stats.Entries, hex.EncodeToString(stats.Checksum[:]))
	return nil
}
