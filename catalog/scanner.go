package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"mixgen/scss"
)

// Options controls which files are considered and how they are recorded.
type Options struct {
	// Extension of definition files, including dot.
	Extension string
	// OutputName and IndexName are base names never scanned for definitions.
	OutputName string
	IndexName  string
	// Reserved names are never put into catalog.
	Reserved []string
	// PartialPrefix is removed from every segment of import path.
	PartialPrefix string
	// NaturalOrder sorts directory entries so "col-2" goes before "col-10".
	NaturalOrder bool
	// Exclude holds glob patterns ("**" supported) matched against slash
	// separated paths relative to scan root, both files and directories.
	Exclude []string
}

// Scanner walks directory tree and builds Catalog.
type Scanner struct {
	opts   Options
	parser *scss.Parser
	log    *zap.Logger
}

func NewScanner(opts Options, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Extension) == 0 {
		opts.Extension = ".scss"
	}
	return &Scanner{
		opts:   opts,
		parser: scss.NewParser(log),
		log:    log.Named("scanner"),
	}
}

// Scan recursively processes root. Every run starts from scratch, nothing is
// cached between calls.
func (s *Scanner) Scan(ctx context.Context, root string) (*Catalog, error) {
	root = filepath.Clean(root)

	fi, err := os.Stat(root)
	if err != nil {
		return nil, &FilesystemError{Op: "access scan root", Path: root, Err: err}
	}
	if !fi.IsDir() {
		return nil, &FilesystemError{Op: "scan", Path: root, Err: errors.New("not a directory")}
	}

	cat, err := s.scanDir(ctx, root, root, nil)
	if err != nil {
		return nil, err
	}

	for _, c := range cat.Collisions() {
		s.log.Warn("Mixin defined with and without parameters, using parameterized",
			zap.String("mixin", c.Name),
			zap.String("simple", c.Simple.File), zap.Int("simple line", c.Simple.Line),
			zap.String("parameterized", c.Parameterized.File), zap.Int("parameterized line", c.Parameterized.Line))
	}
	s.log.Debug("Scan completed", zap.String("root", root),
		zap.Int("simple", cat.Simple.Len()), zap.Int("parameterized", cat.Parameterized.Len()), zap.Int("files", cat.Files.Len()))
	return cat, nil
}

// scanDir returns catalog of a single directory with all its subdirectories
// merged in. "stack" holds resolved directories of the current descent path
// and is used to detect symlink loops.
func (s *Scanner) scanDir(ctx context.Context, root, dir string, stack []string) (*Catalog, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "resolve directory", Path: dir, Err: err}
	}
	if slices.Contains(stack, resolved) {
		s.log.Warn("Skipping directory, symbolic link loop detected", zap.String("dir", dir), zap.String("target", resolved))
		return New(), nil
	}
	stack = append(stack, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "read directory", Path: dir, Err: err}
	}
	if s.opts.NaturalOrder {
		slices.SortStableFunc(entries, func(a, b os.DirEntry) int {
			switch {
			case natural.Less(a.Name(), b.Name()):
				return -1
			case natural.Less(b.Name(), a.Name()):
				return 1
			}
			return 0
		})
	}

	cat := New()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, e.Name())
		if s.excluded(root, path) {
			s.log.Debug("Skipping excluded path", zap.String("path", path))
			continue
		}
		// follow symbolic links
		info, err := os.Stat(path)
		if err != nil {
			return nil, &FilesystemError{Op: "access", Path: path, Err: err}
		}

		switch {
		case info.IsDir():
			sub, err := s.scanDir(ctx, root, path, stack)
			if err != nil {
				return nil, err
			}
			cat.Merge(sub)
		case info.Mode().IsRegular() && s.eligible(e.Name()):
			if err := s.scanFile(root, path, cat); err != nil {
				return nil, err
			}
		default:
			s.log.Debug("Skipping file", zap.String("file", path))
		}
	}
	return cat, nil
}

func (s *Scanner) excluded(root, path string) bool {
	if len(s.opts.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range s.opts.Exclude {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func (s *Scanner) eligible(name string) bool {
	return strings.HasSuffix(name, s.opts.Extension) && name != s.opts.OutputName && name != s.opts.IndexName
}

func (s *Scanner) scanFile(root, path string, cat *Catalog) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &FilesystemError{Op: "read file", Path: path, Err: err}
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return &FilesystemError{Op: "relate to scan root", Path: path, Err: err}
	}
	rel = filepath.ToSlash(rel)

	kept := 0
	for _, def := range s.parser.Definitions(data, rel) {
		if slices.Contains(s.opts.Reserved, def.Name) {
			s.log.Debug("Skipping reserved mixin", zap.String("mixin", def.Name), zap.String("file", rel))
			continue
		}
		if len(def.Params) > 1 {
			s.log.Debug("Mixin declares several parameters, dispatcher passes only one",
				zap.String("mixin", def.Name), zap.Strings("params", def.Params), zap.String("file", rel))
		}
		category := Simple
		if def.HasParams {
			category = Parameterized
		}
		cat.Add(def.Name, category, Origin{File: rel, Line: def.Line, Params: def.Params})
		kept++
	}
	if kept == 0 {
		s.log.Debug("No mixins found", zap.String("file", rel))
		return nil
	}
	cat.Files.Add(ImportPath(rel, s.opts.Extension, s.opts.PartialPrefix))
	return nil
}
