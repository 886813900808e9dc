// Package main is a command-line harness for the inkpad editor core:
// it loads a markdown note, runs a search (and optionally a bulk
// replace), and writes the highlighted rendered HTML to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/inkpad/internal/config"
	"github.com/dshills/inkpad/internal/editor/render"
	"github.com/dshills/inkpad/internal/editor/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath    string
		query         string
		replacement   string
		doReplace     bool
		caseSensitive bool
		wholeWord     bool
		regex         bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&query, "search", "", "Search text")
	flag.StringVar(&replacement, "replace", "", "Replacement text (with -all, replaces every match)")
	flag.BoolVar(&doReplace, "all", false, "Replace all matches with the -replace text")
	flag.BoolVar(&caseSensitive, "case", false, "Case-sensitive search")
	flag.BoolVar(&wholeWord, "word", false, "Whole-word search")
	flag.BoolVar(&regex, "regex", false, "Treat the search text as a regular expression")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inkpad [flags] <note.md>")
		flag.PrintDefaults()
		return 2
	}
	path := flag.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading note: %v\n", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg.Search.CaseSensitive = caseSensitive
	cfg.Search.WholeWord = wholeWord
	cfg.Search.Regex = regex

	s := session.New(cfg, render.NewMarkdown())
	s.Open(path, string(content))

	if query != "" {
		if err := s.Search(query); err != nil {
			fmt.Fprintf(os.Stderr, "search: %v\n", err)
		}
		fmt.Fprintln(os.Stderr, s.CountDisplay())
	}

	if doReplace && query != "" {
		n, err := s.ReplaceAll(replacement)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: replace: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "replaced %d occurrence(s)\n", n)
	}

	tree, err := s.Project(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: render: %v\n", err)
		return 1
	}
	fmt.Println(tree.HTML())
	return 0
}
