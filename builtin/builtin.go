// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the builtin contracts to their template numbers.
package builtin

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/builtin/vault"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/u128"
)

// Builtin templates binding.
var (
	Token = &Template{Name: "token", Number: u128.From64(1), contract: token.Contract}
	Pool  = &Template{Name: "pool", Number: u128.From64(2), contract: pool.Contract}
	Vault = &Template{Name: "vault", Number: u128.From64(3), contract: vault.Contract}
)

var templates = []*Template{Token, Pool, Vault}

// Template is a contract that instances can be created from.
type Template struct {
	Name   string
	Number u128.Int

	contract runtime.Contract
}

// Factory returns the id whose call creates a new instance of the template.
func (t *Template) Factory() asset.ID {
	return asset.ID{Block: asset.BlockFactory, Tx: t.Number}
}

// Templates lists the builtin templates.
func Templates() []*Template {
	return append([]*Template(nil), templates...)
}

// TemplateByName finds a template by its name.
func TemplateByName(name string) (*Template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Registry resolves template numbers to the builtin contracts.
type Registry struct{}

var _ runtime.Registry = Registry{}

func (Registry) Contract(number u128.Int) (runtime.Contract, bool) {
	for _, t := range templates {
		if t.Number == number {
			return t.contract, true
		}
	}
	return nil, false
}
