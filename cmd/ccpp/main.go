// Copyright 2026 The ccpp Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ccpp is a smoke-test driver over the preprocess package: it
// discovers translation units with glob patterns, seeds a macro store with
// -D/-U definitions and a target platform's predefined macros, and prints
// each file's expanded text (or, with -list-includes, just the
// #include/#include_next directives it recognized) to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ccpp/ccpp/internal/cc/cond"
	"github.com/ccpp/ccpp/internal/cc/lexer"
	"github.com/ccpp/ccpp/internal/cc/macro"
	"github.com/ccpp/ccpp/internal/ccfind"
	"github.com/ccpp/ccpp/platform"
	"github.com/ccpp/ccpp/preprocess"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ccpp", flag.ExitOnError)
	var defines, undefines, excludes stringList
	fs.Var(&defines, "D", "predefine NAME or NAME=VALUE (repeatable)")
	fs.Var(&undefines, "U", "undefine NAME before processing (repeatable)")
	fs.Var(&excludes, "exclude", "glob pattern to exclude from the include set (repeatable)")
	platformFlag := fs.String("platform", "", "target platform as os/arch (e.g. linux/x86_64); defaults to the host platform")
	listIncludes := fs.Bool("list-includes", false, "print only recognized #include directives instead of expanded text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	includePatterns := fs.Args()
	if len(includePatterns) == 0 {
		includePatterns = []string{"**/*.c", "**/*.cc", "**/*.cpp", "**/*.h", "**/*.hpp"}
	}

	target, err := resolvePlatform(*platformFlag)
	if err != nil {
		return err
	}

	defs, err := macro.ParseDefinitions(defines)
	if err != nil {
		return err
	}

	files, err := ccfind.Find(os.DirFS("."), includePatterns, excludes)
	if err != nil {
		return fmt.Errorf("discovering translation units: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no translation units matched %v", includePatterns)
	}

	cache := cond.NewSkipCache()
	results := make([]fileResult, len(files))

	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			result, err := processFile(path, lexer.FileID(i), target, defs, undefines, cache)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range files {
		r := results[i]
		if *listIncludes {
			for _, inc := range r.includes {
				fmt.Printf("%s: %s\n", path, formatInclude(inc))
			}
			continue
		}
		fmt.Printf("// ---- %s ----\n", path)
		fmt.Print(r.text)
		if !strings.HasSuffix(r.text, "\n") {
			fmt.Println()
		}
		for _, d := range r.diagnostics {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
		}
	}
	return nil
}

type fileResult struct {
	text        string
	includes    []preprocess.Include
	diagnostics []error
}

func processFile(path string, id lexer.FileID, target platform.Platform, defs []macro.Definition, undefines []string, cache *cond.SkipCache) (fileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}

	store := macro.NewStore()
	store.SeedBuiltins()
	platform.Seed(store, target)
	for _, d := range defs {
		store.Define(d.Name, macro.BuildObject(lexer.NewCursor([]byte(d.Value+"\n"), id), macro.FileInfo{File: "<command-line>"}))
	}
	for _, name := range undefines {
		store.Undefine(name)
	}

	p := preprocess.New(id, path, src, store, cache)
	text := p.Run()
	return fileResult{text: text, includes: p.Includes(), diagnostics: p.Diagnostics().List()}, nil
}

func resolvePlatform(spec string) (platform.Platform, error) {
	if spec == "" {
		return platform.Host()
	}
	osName, archName, ok := strings.Cut(spec, "/")
	if !ok {
		return platform.Platform{}, fmt.Errorf("invalid -platform %q, want os/arch", spec)
	}
	return platform.Create(platform.OS(osName), platform.Arch(archName))
}

func formatInclude(inc preprocess.Include) string {
	if inc.System {
		return fmt.Sprintf("<%s>%s", inc.Path, nextSuffix(inc.Next))
	}
	return fmt.Sprintf("%q%s", inc.Path, nextSuffix(inc.Next))
}

func nextSuffix(next bool) string {
	if next {
		return " (include_next)"
	}
	return ""
}
