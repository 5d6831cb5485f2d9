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

package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/perfecthash/chm/hashmask"
)

func TestParseMaskFunction(t *testing.T) {
	cases := []struct {
		name    string
		want    hashmask.Function
		wantErr bool
	}{
		{"", hashmask.Auto, false},
		{"auto", hashmask.Auto, false},
		{"Modulus", hashmask.Modulus, false},
		{"FOLDTWICE", hashmask.FoldTwice, false},
		{"bogus", 0, true},
	}
	for _, c := range cases {
		got, err := ParseMaskFunction(c.name)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseMaskFunction(%q): expected an error", c.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMaskFunction(%q): %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseMaskFunction(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBindAndResolveDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := Bind(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	f, err := opts.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.MaskFunction != "auto" {
		t.Fatalf("MaskFunction = %q, want %q", f.MaskFunction, "auto")
	}
	if f.ResizeThreshold != 2048 || f.ResizeLimit != 8 {
		t.Fatalf("unexpected resize defaults: %+v", f)
	}
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := Bind(fs)
	if err := fs.Parse([]string{"-table-elements", "64"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	file := &File{RequestedTableElements: 128, MaxConcurrency: 4}
	f, err := opts.Resolve(file)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.RequestedTableElements != 64 {
		t.Fatalf("RequestedTableElements = %d, want flag value 64 to win", f.RequestedTableElements)
	}
	if f.MaxConcurrency != 4 {
		t.Fatalf("MaxConcurrency = %d, want file value 4 to fill the unset flag", f.MaxConcurrency)
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "definition.yaml")
	content := "maskFunction: foldonce\nrequestedTableElements: 256\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.MaskFunction != "foldonce" || f.RequestedTableElements != 256 {
		t.Fatalf("LoadFile = %+v, unexpected", f)
	}
}
