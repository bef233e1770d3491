// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage, asset balances and instance records.
// It follows the flow as bellow:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	           |
//	     [ lru cache ]
//	           |
//	     [ kv store ]
//
// Every value is kept as raw bytes. An empty value means absent, and staging
// it deletes the key.
package state
