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

// Command chmbuild builds, verifies, and queries CHM perfect-hash
// tables over fixed-width uint32 keys.
package main

import (
	"fmt"
	"os"
)

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func logf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "lookup":
		runLookup(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s build [flags] -o <table> <keys-file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        build a perfect-hash table from a flat file of little-endian uint32 keys\n")
	fmt.Fprintf(os.Stderr, "    %s verify <table> <keys-file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        re-hash every key and confirm a table built without a later collision\n")
	fmt.Fprintf(os.Stderr, "    %s lookup <table> <key>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        print the index a single key resolves to\n")
	os.Exit(1)
}
