package contestant

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
)

// Built-in variant names.
const (
	VariantRoot = "root"
	VariantWeb  = "web"
)

// ErrUnknownVariant is returned for a variant that is not built in.
var ErrUnknownVariant = errors.New("unknown variant")

//go:embed configs
var configsFS embed.FS

var variantFiles = map[string]string{
	VariantRoot: "configs/config.js",
	VariantWeb:  "configs/web/config.js",
}

// Variants returns the built-in variant names.
func Variants() []string {
	return []string{VariantRoot, VariantWeb}
}

// BuiltinSource returns the embedded registration script of a variant.
func BuiltinSource(variant string) ([]byte, error) {
	path, ok := variantFiles[variant]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, variant)
	}

	src, err := configsFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return src, nil
}

// Builtin parses the embedded configuration of a variant.
func Builtin(variant string) (*Config, error) {
	src, err := BuiltinSource(variant)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse variant %s: %w", variant, err)
	}

	return cfg, nil
}
