// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"github.com/perfecthash/chm/hashmask"
	"github.com/perfecthash/chm/keysrc"
	"github.com/perfecthash/chm/tablefile"
	"github.com/perfecthash/chm/verify"
)

func verifyCmd(tablePath, keysPath string) {
	loaded, err := tablefile.Load(tablePath)
	if err != nil {
		exitf("loading %s: %s", tablePath, err)
	}
	defer loaded.Close()

	keys, err := keysrc.Load(keysPath)
	if err != nil {
		exitf("loading keys: %s", err)
	}
	defer keys.Close()

	hashMasker := hashmask.NewMasker(hashmask.Function(loaded.Header.MaskFuncID), loaded.Header.HashSize)
	indexMasker := hashmask.NewMasker(hashmask.Function(loaded.Header.MaskFuncID), loaded.Header.IndexSize)
	seeds := hashmask.Seeds{
		loaded.Header.Seed1, loaded.Header.Seed2, loaded.Header.Seed3, loaded.Header.Seed4,
	}

	report, err := verify.Verify(keys.Values(), loaded.Assigned(), hashMasker, indexMasker, seeds)
	if err != nil {
		exitf("verify: %s", err)
	}
	logf("chmbuild: verify %s ok, %d keys, %d slots", tablePath, len(keys.Values()), len(report.Values))
}

func runVerify(args []string) {
	if len(args) != 2 {
		exitf("usage: verify <table> <keys-file>")
	}
	verifyCmd(args[0], args[1])
}
