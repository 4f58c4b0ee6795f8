//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceRoots are the trees whose Go code is counted.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// lineCount splits Go lines into production and test code.
type lineCount struct {
	Prod int `json:"prod"`
	Test int `json:"test"`
}

// Stats prints one JSON record with Go line counts per package and the word
// count of the Markdown docs.
func Stats() error {
	packages := map[string]*lineCount{}
	var total lineCount

	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			n := bytes.Count(data, []byte("\n"))

			pkg := filepath.ToSlash(filepath.Dir(path))
			c, ok := packages[pkg]
			if !ok {
				c = &lineCount{}
				packages[pkg] = c
			}
			if strings.HasSuffix(path, "_test.go") {
				c.Test += n
				total.Test += n
			} else {
				c.Prod += n
				total.Prod += n
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
	}

	words, err := markdownWords()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	sort.Strings(names)
	ordered := make([]struct {
		Package string `json:"package"`
		lineCount
	}, len(names))
	for i, name := range names {
		ordered[i].Package = name
		ordered[i].lineCount = *packages[name]
	}

	out, err := json.Marshal(struct {
		Total    lineCount `json:"go_loc"`
		Packages any       `json:"packages"`
		DocWords int       `json:"doc_words"`
	}{total, ordered, words})
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// markdownWords counts whitespace-separated words in the top-level and docs/
// Markdown files.
func markdownWords() (int, error) {
	var files []string
	for _, pattern := range []string{"*.md", "docs/*.md"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return 0, err
		}
		files = append(files, matches...)
	}

	words := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		words += len(strings.Fields(string(data)))
	}
	return words, nil
}
