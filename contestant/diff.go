package contestant

import "fmt"

// Difference is one field whose value differs between two configurations.
// An empty Left or Right on a contestants[i] path means the entry is
// missing on that side.
type Difference struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Diff compares a and b field by field. Contestants are matched by
// position since display order is part of the configuration. A nil
// configuration compares as an empty one.
func Diff(a, b *Config) []Difference {
	if a == nil {
		a = &Config{}
	}
	if b == nil {
		b = &Config{}
	}

	var diffs []Difference

	if a.Tests != b.Tests {
		diffs = append(diffs, Difference{
			Path: "tests", Left: a.Tests, Right: b.Tests,
		})
	}

	n := max(len(a.Contestants), len(b.Contestants))
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("contestants[%d]", i)

		switch {
		case i >= len(b.Contestants):
			c := a.Contestants[i]
			diffs = append(diffs, Difference{
				Path: path, Name: c.Name, Left: c.Name,
			})

			continue
		case i >= len(a.Contestants):
			c := b.Contestants[i]
			diffs = append(diffs, Difference{
				Path: path, Name: c.Name, Right: c.Name,
			})

			continue
		}

		l, r := a.Contestants[i], b.Contestants[i]
		for _, f := range []struct{ field, left, right string }{
			{"name", l.Name, r.Name},
			{"url", l.URL, r.URL},
			{"benchmarkUrl", l.BenchmarkURL, r.BenchmarkURL},
		} {
			if f.left == f.right {
				continue
			}

			diffs = append(diffs, Difference{
				Path:  path + "." + f.field,
				Name:  l.Name,
				Left:  f.left,
				Right: f.right,
			})
		}
	}

	return diffs
}

// Equal reports whether a and b describe the same configuration.
func Equal(a, b *Config) bool {
	return len(Diff(a, b)) == 0
}
