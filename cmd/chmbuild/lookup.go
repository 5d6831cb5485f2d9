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
	"fmt"
	"strconv"

	"github.com/perfecthash/chm/tablefile"
)

func runLookup(args []string) {
	if len(args) != 2 {
		exitf("usage: lookup <table> <key>")
	}
	key, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		exitf("parsing key %q: %s", args[1], err)
	}

	loaded, err := tablefile.Load(args[0])
	if err != nil {
		exitf("loading %s: %s", args[0], err)
	}
	defer loaded.Close()

	idx := loaded.Index(uint32(key))
	fmt.Println(idx)
}
