// Package bench runs the configured backends through the memo, checks each
// result and assembles the report.
package bench

import (
	"fmt"
	"strings"

	"raggedbench/backend"
	"raggedbench/utils"
	"raggedbench/verify"
)

// Entry is one backend in the lineup.
type Entry struct {
	Label       string
	Adapter     backend.Adapter
	Expectation verify.Expectation
}

// ParseLineup builds entries from backend specs such as ragged, sparse,
// loop, padded, ckks and nested@<device>, keeping their order.
func ParseLineup(specs []string, cfg *utils.Config) ([]Entry, error) {
	seen := make(map[string]bool, len(specs))
	entries := make([]Entry, 0, len(specs))
	for _, spec := range specs {
		e, err := parseEntry(strings.TrimSpace(spec), cfg)
		if err != nil {
			return nil, err
		}
		if seen[e.Label] {
			return nil, fmt.Errorf("backend %q listed twice", spec)
		}
		seen[e.Label] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func parseEntry(spec string, cfg *utils.Config) (Entry, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(spec), "@")
	exp := verify.Expectation{
		Op:   verify.Fourth,
		Row:  cfg.ProbeRow,
		Col:  cfg.ProbeCol,
		Atol: cfg.Atol,
		Rtol: cfg.Rtol,
	}
	if hasArg && name != "nested" {
		return Entry{}, fmt.Errorf("backend %q takes no device", name)
	}

	e := Entry{Label: name, Expectation: exp}
	switch name {
	case "ragged":
		e.Adapter = backend.Ragged{}
	case "sparse":
		e.Adapter = backend.Sparse{}
	case "padded":
		e.Adapter = backend.Padded{}
	case "loop":
		e.Adapter = backend.Loop{}
		e.Expectation.Op = verify.Sqrt
	case "ckks":
		e.Adapter = backend.Ckks{LogN: cfg.CkksLogN, Depth: cfg.CkksDepth}
		e.Expectation.Atol = cfg.CkksTolerance
		e.Expectation.Rtol = 0
	case "nested":
		if !hasArg {
			arg = "cpu"
		}
		n, err := backend.NewNested(arg, cfg.Workers)
		if err != nil {
			return Entry{}, fmt.Errorf("backend %q: %w", spec, err)
		}
		e.Adapter = n
		e.Label = "nested\n" + n.Device.String()
	default:
		return Entry{}, fmt.Errorf("unknown backend %q", spec)
	}
	return e, nil
}
