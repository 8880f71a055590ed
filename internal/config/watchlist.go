package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

type watchlistFile struct {
	Tickers []string `yaml:"tickers"`
}

var readFile = os.ReadFile

// LoadWatchlist merges the inline list with the tickers of an optional YAML file
// (`tickers: [...]`). Entries are upper-cased and de-duplicated in first-seen order.
func LoadWatchlist(inline []string, path string) ([]string, error) {
	all := append([]string(nil), inline...)
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read watchlist file: %w", err)
		}
		var wf watchlistFile
		if err := yaml.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("parse watchlist file: %w", err)
		}
		all = append(all, wf.Tickers...)
	}

	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, t := range all {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
