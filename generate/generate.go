// Package generate ties scanner and emitter together and implements program
// commands.
package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mixgen/catalog"
	"mixgen/config"
	"mixgen/emit"
)

// Options for a single generator run.
type Options struct {
	Scan catalog.Options
	Emit emit.Options
}

// OptionsFromConfig maps program configuration to generator options.
func OptionsFromConfig(cfg *config.Config) Options {
	g, d := cfg.Generator, cfg.Dispatcher
	return Options{
		Scan: catalog.Options{
			Extension:     g.Extension,
			OutputName:    g.Output,
			IndexName:     g.Index,
			Reserved:      g.Reserved,
			PartialPrefix: g.PartialPrefix,
			NaturalOrder:  g.Order == config.EntryOrderNatural,
			Exclude:       g.Exclude,
		},
		Emit: emit.Options{
			MixinName:    d.MixinName,
			ScopeWrapper: d.ScopeWrapper,
			Header:       d.Header,
		},
	}
}

// Result of a generator run.
type Result struct {
	Catalog *catalog.Catalog
	Output  []byte
}

// Generate scans root and renders dispatcher. Nothing is written, output is a
// pure function of the tree under root and options.
func Generate(ctx context.Context, root string, opts Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	em, err := emit.New(opts.Emit, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare emitter: %w", err)
	}

	cat, err := catalog.NewScanner(opts.Scan, log).Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	out, err := em.Render(cat)
	if err != nil {
		return nil, err
	}
	return &Result{Catalog: cat, Output: out}, nil
}
