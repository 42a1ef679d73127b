// Package contestant models the contestant list of a virtual-DOM benchmark
// suite and the benchmarkConfig registration script that declares it.
package contestant

// Contestant is a virtual-DOM implementation entered into the benchmark.
type Contestant struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	BenchmarkURL string `json:"benchmarkUrl"`
}

// Config is the payload handed to benchmarkConfig: the shared tests
// locator and the contestants in display order.
type Config struct {
	Tests       string       `json:"tests"`
	Contestants []Contestant `json:"contestants"`
}

// Clone returns a deep copy of cfg. A nil cfg yields nil.
func (cfg *Config) Clone() *Config {
	if cfg == nil {
		return nil
	}

	out := &Config{Tests: cfg.Tests}
	if cfg.Contestants != nil {
		out.Contestants = make([]Contestant, len(cfg.Contestants))
		copy(out.Contestants, cfg.Contestants)
	}

	return out
}

// Names returns the contestant names in display order.
func Names(cfg *Config) []string {
	if cfg == nil {
		return nil
	}

	names := make([]string, 0, len(cfg.Contestants))
	for _, c := range cfg.Contestants {
		names = append(names, c.Name)
	}

	return names
}

// Lookup returns the first contestant called name.
func Lookup(cfg *Config, name string) (Contestant, bool) {
	if cfg == nil {
		return Contestant{}, false
	}

	for _, c := range cfg.Contestants {
		if c.Name == name {
			return c, true
		}
	}

	return Contestant{}, false
}

// Duplicates returns the names that occur more than once, each reported
// once, in the order their first repetition appears.
func Duplicates(cfg *Config) []string {
	if cfg == nil {
		return nil
	}

	seen := make(map[string]int, len(cfg.Contestants))

	var dups []string

	for _, c := range cfg.Contestants {
		seen[c.Name]++
		if seen[c.Name] == 2 {
			dups = append(dups, c.Name)
		}
	}

	return dups
}
