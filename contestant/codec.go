package contestant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Callee is the name of the registration function the script form calls.
const Callee = "benchmarkConfig"

var (
	// ErrMalformedScript is returned when input starts like a registration
	// script but is not a single well-formed benchmarkConfig(...) call.
	ErrMalformedScript = errors.New("malformed " + Callee + " call")
	// ErrNotObject is returned when the payload is not a JSON object.
	ErrNotObject = errors.New("configuration is not a JSON object")
)

// Parse reads a configuration in either the registration script form,
// benchmarkConfig({...});, or as a bare JSON object.
func Parse(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	payload, err := unwrapScript(string(raw))
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.TrimSpace(payload), "{") {
		return nil, ErrNotObject
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode JSON: trailing data after object")
	}

	return &cfg, nil
}

// Load reads the configuration stored at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Encode writes cfg as a registration script. The output matches the
// layout of the hand-written config.js files.
func Encode(w io.Writer, cfg *Config) error {
	body, err := marshal(cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(Callee)
	buf.WriteByte('(')
	buf.Write(body)
	buf.WriteString(");\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	return nil
}

// EncodeJSON writes cfg as an indented JSON object.
func EncodeJSON(w io.Writer, cfg *Config) error {
	body, err := marshal(cfg)
	if err != nil {
		return err
	}

	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}

	return nil
}

func marshal(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("encode: nil config")
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func unwrapScript(src string) (string, error) {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, Callee) {
		return s, nil
	}

	s = strings.TrimSpace(strings.TrimPrefix(s, Callee))
	if !strings.HasPrefix(s, "(") {
		return "", fmt.Errorf("%w: missing opening parenthesis", ErrMalformedScript)
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("%w: missing closing parenthesis", ErrMalformedScript)
	}

	return s[1 : len(s)-1], nil
}
