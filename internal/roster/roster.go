// Package roster reads the agent roster from the external agent-runner
// config file. The dashboard only cares about the agent names; the rest
// of the config belongs to the runner.
package roster

import (
	"encoding/json"
	"os"
	"sort"
)

type Agent struct {
	Name string `json:"name"`
}

type runnerConfig struct {
	Agents map[string]json.RawMessage `json:"agents"`
}

// Load returns the named agents from the config file. A missing or
// malformed file yields an empty roster, not an error: the dashboard
// stays usable without the runner installed.
func Load(path string) []Agent {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cfg runnerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	var out []Agent
	for name := range cfg.Agents {
		if name == "defaults" {
			continue
		}
		out = append(out, Agent{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
