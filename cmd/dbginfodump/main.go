// This file is part of dbginfo.
//
// dbginfo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dbginfo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dbginfo.  If not, see <https://www.gnu.org/licenses/>.

// Command dbginfodump loads a cc65-style debug-info file and prints a
// summary of what it contains, exercising the public dbginfo API end to end.
package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/sixfiveteam/dbginfo"
	"github.com/spf13/cobra"
)

var (
	flagWarnings bool
	flagGraph    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dbginfodump: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "dbginfodump <path>",
	Short:         "Summarise a cc65 debug-info file",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagWarnings, "warnings", false, "print warnings in addition to errors")
	rootCmd.Flags().StringVar(&flagGraph, "graph", "", "write a Graphviz rendering of the module/scope tree to this path")
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	errorCount := 0
	db, err := dbginfo.Load(path, func(d dbginfo.Diagnostic) {
		if d.Severity == dbginfo.SeverityWarning && !flagWarnings {
			return
		}
		if d.Severity == dbginfo.SeverityError {
			errorCount++
		}
		fmt.Fprintln(os.Stderr, d.String())
	})
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%s: failed to load (%d error(s) reported above)", path, errorCount)
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  libraries: %d\n", db.LibraryCount())
	fmt.Printf("  modules:   %d\n", db.ModuleCount())
	fmt.Printf("  files:     %d\n", db.FileCount())
	fmt.Printf("  segments:  %d\n", db.SegmentCount())
	fmt.Printf("  spans:     %d\n", db.SpanCount())
	fmt.Printf("  scopes:    %d\n", db.ScopeCount())
	fmt.Printf("  lines:     %d\n", db.LineCount())
	fmt.Printf("  symbols:   %d\n", db.SymCount())

	for _, seg := range db.Segments() {
		fmt.Printf("  segment %q: start=%#x size=%#x\n", seg.Name, seg.Start, seg.Size)
	}

	if flagGraph != "" {
		out, err := os.Create(flagGraph)
		if err != nil {
			return fmt.Errorf("cannot create graph output %q: %v", flagGraph, err)
		}
		defer out.Close()
		memviz.Map(out, db.Modules())
	}

	return nil
}
