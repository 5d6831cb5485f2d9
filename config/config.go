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

// Package config parses the build-time options a chmbuild invocation
// accepts, either from command-line flags or from a definition.json /
// definition.yaml sidecar file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"

	"github.com/perfecthash/chm/hashmask"
)

// File is the shape of a definition.json / definition.yaml file: the
// same options the CLI flags expose, for build systems that prefer a
// checked-in config file over a long command line.
type File struct {
	MaskFunction           string `json:"maskFunction,omitempty"`
	RequestedTableElements uint32 `json:"requestedTableElements,omitempty"`
	MaxConcurrency         int    `json:"maxConcurrency,omitempty"`
	ResizeThreshold        int64  `json:"resizeThreshold,omitempty"`
	ResizeLimit            int    `json:"resizeLimit,omitempty"`
}

// LoadFile reads and parses a definition.json or definition.yaml file.
// sigs.k8s.io/yaml handles both: YAML is converted to JSON internally,
// so a single struct tag set covers both formats.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}

// maskFunctionNames maps the CLI/file string names to hashmask.Function
// values, in the order documented for the maskFunction option.
var maskFunctionNames = map[string]hashmask.Function{
	"modulus":    hashmask.Modulus,
	"and":        hashmask.And,
	"foldonce":   hashmask.FoldOnce,
	"foldtwice":  hashmask.FoldTwice,
	"foldthrice": hashmask.FoldThrice,
	"auto":       hashmask.Auto,
}

// ParseMaskFunction resolves one of the documented mask function names,
// case-insensitively. An empty name resolves to Auto, the default.
func ParseMaskFunction(name string) (hashmask.Function, error) {
	if name == "" {
		return hashmask.Auto, nil
	}
	fn, ok := maskFunctionNames[strings.ToLower(name)]
	if !ok {
		valid := maps.Keys(maskFunctionNames)
		slices.Sort(valid)
		return 0, fmt.Errorf("config: unknown maskFunction %q (valid: %s)", name, strings.Join(valid, ", "))
	}
	return fn, nil
}

// Options is the flag set chmbuild's subcommands register against.
// Call Resolve once fs.Parse has run to get a validated File.
type Options struct {
	maskFunction    string
	tableElements   uint
	maxConcurrency  int
	resizeThreshold int64
	resizeLimit     int
}

// Bind registers the documented flags on fs and returns an Options
// whose fields are populated once fs.Parse has run.
func Bind(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.StringVar(&o.maskFunction, "mask-function", "auto",
		"one of modulus, and, foldonce, foldtwice, foldthrice, auto")
	fs.UintVar(&o.tableElements, "table-elements", 0,
		"pre-select the initial vertex count instead of computing it heuristically")
	fs.IntVar(&o.maxConcurrency, "concurrency", 0, "worker pool width (0 = GOMAXPROCS)")
	fs.Int64Var(&o.resizeThreshold, "resize-threshold", 2048, "attempts before trying a larger table")
	fs.IntVar(&o.resizeLimit, "resize-limit", 8, "maximum number of resize events")
	return o
}

// Resolve validates o's flag values and merges in any options from file
// (file values are used only where the flag still holds its default
// value, so a flag set to anything else always wins).
func (o *Options) Resolve(file *File) (*File, error) {
	f := File{
		MaskFunction:           o.maskFunction,
		RequestedTableElements: uint32(o.tableElements),
		MaxConcurrency:         o.maxConcurrency,
		ResizeThreshold:        o.resizeThreshold,
		ResizeLimit:            o.resizeLimit,
	}
	if file != nil {
		if f.RequestedTableElements == 0 {
			f.RequestedTableElements = file.RequestedTableElements
		}
		if f.MaxConcurrency == 0 {
			f.MaxConcurrency = file.MaxConcurrency
		}
		if f.MaskFunction == "auto" && file.MaskFunction != "" {
			f.MaskFunction = file.MaskFunction
		}
		if f.ResizeThreshold == 2048 && file.ResizeThreshold != 0 {
			f.ResizeThreshold = file.ResizeThreshold
		}
		if f.ResizeLimit == 8 && file.ResizeLimit != 0 {
			f.ResizeLimit = file.ResizeLimit
		}
	}
	if _, err := ParseMaskFunction(f.MaskFunction); err != nil {
		return nil, err
	}
	return &f, nil
}
