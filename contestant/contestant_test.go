package contestant

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testsURL = "http://vdom-benchmark.github.io/vdom-benchmark/tests.js"

var wantNames = []string{
	"uix [Dart]", "VDom [Dart]", "React", "virtual-dom", "Bobril",
}

func loadBuiltins(t *testing.T) map[string]*Config {
	t.Helper()

	out := make(map[string]*Config, len(Variants()))
	for _, v := range Variants() {
		cfg, err := Builtin(v)
		if err != nil {
			t.Fatalf("Builtin(%q) failed: %v", v, err)
		}
		out[v] = cfg
	}

	return out
}

func TestBuiltinFieldsNonEmpty(t *testing.T) {
	for variant, cfg := range loadBuiltins(t) {
		for i, c := range cfg.Contestants {
			if c.Name == "" || c.URL == "" || c.BenchmarkURL == "" {
				t.Errorf("%s: contestants[%d] has empty field: %+v",
					variant, i, c)
			}
		}
	}
}

func TestBuiltinURLsAbsolute(t *testing.T) {
	for variant, cfg := range loadBuiltins(t) {
		if err := Validate(cfg); err != nil {
			t.Errorf("%s: Validate failed: %v", variant, err)
		}

		for _, c := range cfg.Contestants {
			if !IsAbsoluteURL(c.URL) {
				t.Errorf("%s: %s url %q not absolute", variant, c.Name, c.URL)
			}
			if !IsAbsoluteURL(c.BenchmarkURL) {
				t.Errorf("%s: %s benchmarkUrl %q not absolute",
					variant, c.Name, c.BenchmarkURL)
			}
		}
	}
}

func TestBuiltinNamesAndOrder(t *testing.T) {
	for variant, cfg := range loadBuiltins(t) {
		if got := Names(cfg); !reflect.DeepEqual(got, wantNames) {
			t.Errorf("%s: names = %v, want %v", variant, got, wantNames)
		}
	}
}

func TestBuiltinTests(t *testing.T) {
	for variant, cfg := range loadBuiltins(t) {
		if cfg.Tests != testsURL {
			t.Errorf("%s: tests = %q, want %q", variant, cfg.Tests, testsURL)
		}
	}
}

func TestBuiltinsDifferOnlyInUixBenchmarkURL(t *testing.T) {
	cfgs := loadBuiltins(t)

	diffs := Diff(cfgs[VariantRoot], cfgs[VariantWeb])
	if len(diffs) != 1 {
		t.Fatalf("expected 1 difference, got %d: %+v", len(diffs), diffs)
	}

	want := Difference{
		Path:  "contestants[0].benchmarkUrl",
		Name:  "uix [Dart]",
		Left:  "http://localhost:8080/",
		Right: "http://localvoid.github.io/vdom-benchmark-uix/",
	}
	if diffs[0] != want {
		t.Errorf("difference = %+v, want %+v", diffs[0], want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, variant := range Variants() {
		src, err := BuiltinSource(variant)
		if err != nil {
			t.Fatalf("BuiltinSource(%q) failed: %v", variant, err)
		}

		cfg, err := Parse(bytes.NewReader(src))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		var buf bytes.Buffer
		if err := Encode(&buf, cfg); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		if buf.String() != string(src) {
			t.Errorf("%s: encoded script differs from source:\n%s",
				variant, buf.String())
		}

		again, err := Parse(&buf)
		if err != nil {
			t.Fatalf("re-Parse failed: %v", err)
		}
		if !reflect.DeepEqual(cfg, again) {
			t.Errorf("%s: round trip changed config", variant)
		}
	}
}

func TestParseForms(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "bare JSON",
			input: `{"tests": "http://a/t.js", "contestants": []}`,
		},
		{
			name:  "script without semicolon",
			input: `benchmarkConfig({"tests": "http://a/t.js"})`,
		},
		{
			name:  "script with spacing",
			input: "\n  benchmarkConfig ( {\"tests\": \"http://a/t.js\"} ) ;\n",
		},
		{
			name:    "missing closing parenthesis",
			input:   `benchmarkConfig({"tests": "http://a/t.js"};`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			input:   `{"tests": "http://a/t.js", "extra": 1}`,
			wantErr: true,
		},
		{
			name:    "trailing data",
			input:   `{"tests": "http://a/t.js"} {}`,
			wantErr: true,
		},
		{
			name:    "bare null",
			input:   "null",
			wantErr: true,
		},
		{
			name:    "script with null",
			input:   "benchmarkConfig(null);",
			wantErr: true,
		},
		{
			name:    "script with array",
			input:   `benchmarkConfig([{"tests": "http://a/t.js"}]);`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `not json at all`,
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if cfg.Tests != "http://a/t.js" {
				t.Errorf("tests = %q, want http://a/t.js", cfg.Tests)
			}
		})
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, input := range []string{"null", " benchmarkConfig( null );", "42"} {
		cfg, err := Parse(strings.NewReader(input))
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("Parse(%q) err = %v, want ErrNotObject", input, err)
		}
		if cfg != nil {
			t.Errorf("Parse(%q) returned config %+v", input, cfg)
		}
	}
}

func TestNilConfigHelpers(t *testing.T) {
	if got := Names(nil); got != nil {
		t.Errorf("Names(nil) = %v, want nil", got)
	}
	if _, ok := Lookup(nil, "React"); ok {
		t.Error("Lookup(nil) reported a match")
	}
	if got := Duplicates(nil); got != nil {
		t.Errorf("Duplicates(nil) = %v, want nil", got)
	}
}

func TestParseMalformedScript(t *testing.T) {
	_, err := Parse(strings.NewReader(`benchmarkConfig{}`))
	if !errors.Is(err, ErrMalformedScript) {
		t.Errorf("err = %v, want ErrMalformedScript", err)
	}
}

func TestLoad(t *testing.T) {
	src, err := BuiltinSource(VariantWeb)
	if err != nil {
		t.Fatalf("BuiltinSource failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.js")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c, ok := Lookup(cfg, "uix [Dart]")
	if !ok {
		t.Fatal("uix [Dart] not found")
	}
	if c.BenchmarkURL != "http://localvoid.github.io/vdom-benchmark-uix/" {
		t.Errorf("benchmarkUrl = %q", c.BenchmarkURL)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEncodeJSON(t *testing.T) {
	cfg := &Config{
		Tests: "http://a/t.js?x=1&y=<2>",
		Contestants: []Contestant{
			{Name: "A", URL: "http://a", BenchmarkURL: "http://a/b"},
		},
	}

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, cfg); err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}

	if !strings.Contains(buf.String(), "&y=<2>") {
		t.Errorf("expected unescaped HTML characters, got %s", buf.String())
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestEncodeNil(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestUnknownVariant(t *testing.T) {
	_, err := Builtin("staging")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("err = %v, want ErrUnknownVariant", err)
	}
}

func TestDuplicates(t *testing.T) {
	cfg := &Config{Contestants: []Contestant{
		{Name: "a"}, {Name: "b"}, {Name: "a"}, {Name: "b"}, {Name: "a"},
	}}

	got := Duplicates(cfg)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Duplicates = %v, want [a b]", got)
	}

	builtin, err := Builtin(VariantRoot)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if d := Duplicates(builtin); len(d) != 0 {
		t.Errorf("unexpected duplicates in builtin: %v", d)
	}
}

func TestClone(t *testing.T) {
	cfg, err := Builtin(VariantRoot)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	cp := cfg.Clone()
	cp.Contestants[0].Name = "changed"

	if cfg.Contestants[0].Name != "uix [Dart]" {
		t.Error("Clone shares contestant storage with original")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
