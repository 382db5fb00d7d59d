package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const modulePath = "github.com/devsilvver/corrida-das-gemas"

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// rule forbids packages under From from importing anything under any of Deny.
type rule struct {
	From string
	Deny []string
}

// Transport knows nothing about matches, and the match core knows nothing
// about peers.
var rules = []rule{
	{From: "internal/net", Deny: []string{"internal/match", "internal/pvp", "internal/app"}},
	{From: "internal/match", Deny: []string{"internal/net", "internal/pvp", "internal/app"}},
	{From: "internal/board", Deny: []string{"internal/match", "internal/arena", "internal/net"}},
	{From: "logging", Deny: []string{"internal/"}},
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	violations, err := check(bytes.NewReader(output))
	if err != nil {
		fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

// check decodes a `go list -json` stream and returns the sorted rule
// violations it contains.
func check(r io.Reader) ([]string, error) {
	decoder := json.NewDecoder(r)
	var violations []string
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		for _, imp := range pkg.Imports {
			if denied(pkg.ImportPath, imp) {
				violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
			}
		}
	}
	sort.Strings(violations)
	return violations, nil
}

func denied(from, imp string) bool {
	for _, r := range rules {
		if !under(from, r.From) {
			continue
		}
		for _, deny := range r.Deny {
			if under(imp, deny) {
				return true
			}
		}
	}
	return false
}

func under(importPath, rel string) bool {
	prefix := modulePath + "/" + strings.TrimSuffix(rel, "/")
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
