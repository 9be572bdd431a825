// Package emit renders the SCSS dispatcher from a catalog.
package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mixgen/catalog"
	"mixgen/misc"
	"mixgen/token"
)

//go:embed apply.scss.tmpl
var applyTmpl string

// names are interpolated into generated source as is, both as SCSS
// identifiers and inside single quoted strings.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// CodegenError is returned when some part of the catalog cannot be safely
// put into generated source.
type CodegenError struct {
	Kind  string
	Value string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("unable to render %s '%s': unsafe characters", e.Kind, e.Value)
}

// Options controls the shape of generated dispatcher.
type Options struct {
	// MixinName is the name of generated composite mixin.
	MixinName string
	// ScopeWrapper is the mixin wrapping dispatch when token has scope suffix.
	ScopeWrapper string
	// Header adds "generated, do not edit" comment at the top.
	Header bool
}

type branch struct {
	Name          string
	Parameterized bool
}

type values struct {
	AppName      string
	Header       bool
	Files        []string
	MixinName    string
	ScopeWrapper string
	Separator    string
	Branches     []branch
}

// Emitter renders dispatcher source.
type Emitter struct {
	opts Options
	tmpl *template.Template
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) (*Emitter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.MixinName) == 0 {
		opts.MixinName = "apply"
	}
	if len(opts.ScopeWrapper) == 0 {
		opts.ScopeWrapper = "media-up"
	}

	var err error
	for _, o := range []string{opts.MixinName, opts.ScopeWrapper} {
		if !nameRe.MatchString(o) {
			err = multierr.Append(err, &CodegenError{Kind: "option", Value: o})
		}
	}
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("apply").Funcs(sprig.FuncMap()).Parse(applyTmpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse dispatcher template: %w", err)
	}
	return &Emitter{opts: opts, tmpl: tmpl, log: log.Named("emitter")}, nil
}

// Render returns generated source for the catalog. Output depends only on
// catalog content and options. Nothing is rendered if any name or file cannot
// be used safely: all offending values are reported together.
func (e *Emitter) Render(cat *catalog.Catalog) ([]byte, error) {
	if err := Validate(cat); err != nil {
		return nil, err
	}

	v := values{
		AppName:      misc.GetAppName(),
		Header:       e.opts.Header,
		Files:        cat.Files.Items(),
		MixinName:    e.opts.MixinName,
		ScopeWrapper: e.opts.ScopeWrapper,
		Separator:    string(token.ScopeSeparator),
		Branches:     make([]branch, 0, cat.Simple.Len()+cat.Parameterized.Len()),
	}
	// exact matches go first so "name(" prefix test never shadows a simple mixin
	for _, name := range cat.Simple.Items() {
		v.Branches = append(v.Branches, branch{Name: name})
	}
	for _, name := range cat.Parameterized.Items() {
		v.Branches = append(v.Branches, branch{Name: name, Parameterized: true})
	}

	buf := new(bytes.Buffer)
	if err := e.tmpl.Execute(buf, v); err != nil {
		return nil, fmt.Errorf("unable to render dispatcher: %w", err)
	}
	e.log.Debug("Dispatcher rendered", zap.Int("imports", len(v.Files)), zap.Int("branches", len(v.Branches)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Validate checks that every mixin name and import path can be interpolated
// into generated source.
func Validate(cat *catalog.Catalog) (err error) {
	for _, name := range cat.Simple.Items() {
		if !nameRe.MatchString(name) {
			err = multierr.Append(err, &CodegenError{Kind: "mixin", Value: name})
		}
	}
	for _, name := range cat.Parameterized.Items() {
		if !nameRe.MatchString(name) {
			err = multierr.Append(err, &CodegenError{Kind: "mixin", Value: name})
		}
	}
	for _, f := range cat.Files.Items() {
		if len(f) == 0 || strings.ContainsAny(f, "'\\\r\n") || strings.Contains(f, "#{") {
			err = multierr.Append(err, &CodegenError{Kind: "file", Value: f})
		}
	}
	return err
}
