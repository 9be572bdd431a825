package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"go.uber.org/zap/zaptest"

	"mixgen/catalog"
)

func defaultOptions() catalog.Options {
	return catalog.Options{
		Extension:     ".scss",
		OutputName:    "mixins-map.scss",
		IndexName:     "index.scss",
		Reserved:      []string{"add-mixins"},
		PartialPrefix: "_",
		NaturalOrder:  true,
	}
}

// writeTree creates files under dir, keys are slash separated relative paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func scan(t *testing.T, root string) *catalog.Catalog {
	t.Helper()
	s := catalog.NewScanner(defaultOptions(), zaptest.NewLogger(t))
	cat, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return cat
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_buttons.scss": `
@mixin btn { padding: 1rem; }
@mixin btn-color($c) { color: $c; }
`,
		"layout/_flex.scss": `
@mixin flex { display: flex; }
@mixin gap($size) { gap: $size; }
`,
		"layout/grid/_grid.scss": `@mixin grid { display: grid; }`,
		"utils/_media.scss": `
@mixin media-up($bp) { @media (min-width: $bp) { @content; } }
@mixin add-mixins($list) { }
`,
		"comments.scss":   `// @mixin ghost { }`,
		"plain.scss":      `.a { color: red; }`,
		"index.scss":      `@mixin from-index { }`,
		"mixins-map.scss": `@mixin from-output { }`,
		"readme.md":       `@mixin not-scss { }`,
	})

	cat := scan(t, root)

	if got, want := cat.Simple.Items(), []string{"btn", "flex", "grid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Simple = %v, want %v", got, want)
	}
	if got, want := cat.Parameterized.Items(), []string{"btn-color", "gap", "media-up"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Parameterized = %v, want %v", got, want)
	}
	if got, want := cat.Files.Items(), []string{"buttons", "layout/flex", "layout/grid/grid", "utils/media"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}

	for _, name := range []string{"add-mixins", "ghost", "from-index", "from-output", "not-scss"} {
		if _, _, ok := cat.Lookup(name); ok {
			t.Errorf("%q must not be in catalog", name)
		}
	}

	_, origin, _ := cat.Lookup("gap")
	if origin.File != "layout/_flex.scss" || origin.Line != 3 {
		t.Errorf("gap origin = %+v", origin)
	}
}

func TestScanner_CommentOnlyFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ghost.scss": "// @mixin ghost { }\n"})

	cat := scan(t, root)
	if !cat.Empty() || cat.Files.Len() != 0 {
		t.Errorf("expected empty catalog, got simple=%v params=%v files=%v",
			cat.Simple.Items(), cat.Parameterized.Items(), cat.Files.Items())
	}
}

func TestScanner_Disjoint(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.scss": "@mixin size { width: 1px; }\n@mixin size($v) { width: $v; }\n",
		"b.scss": "@mixin pad { padding: 0; }\n",
		"c.scss": "@mixin pad($v) { padding: $v; }\n",
	})

	cat := scan(t, root)
	for _, name := range []string{"size", "pad"} {
		if cat.Simple.Has(name) {
			t.Errorf("%q must not be simple", name)
		}
		if !cat.Parameterized.Has(name) {
			t.Errorf("%q must be parameterized", name)
		}
	}
	if len(cat.Collisions()) != 2 {
		t.Errorf("expected 2 collisions, got %d", len(cat.Collisions()))
	}
}

func TestScanner_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"col-10.scss": "@mixin col-10 { }",
		"col-2.scss":  "@mixin col-2 { }",
		"col-1.scss":  "@mixin col-1 { }",
	})

	first := scan(t, root)
	second := scan(t, root)
	if !reflect.DeepEqual(first.Simple.Items(), second.Simple.Items()) ||
		!reflect.DeepEqual(first.Files.Items(), second.Files.Items()) {
		t.Fatal("two scans of the same tree differ")
	}
	if got, want := first.Files.Items(), []string{"col-1", "col-2", "col-10"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want natural order %v", got, want)
	}

	opts := defaultOptions()
	opts.NaturalOrder = false
	cat, err := catalog.NewScanner(opts, nil).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if got, want := cat.Files.Items(), []string{"col-1", "col-10", "col-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want lexical order %v", got, want)
	}
}

func TestScanner_Errors(t *testing.T) {
	s := catalog.NewScanner(defaultOptions(), zaptest.NewLogger(t))

	t.Run("missing root", func(t *testing.T) {
		_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
		var fsErr *catalog.FilesystemError
		if !errors.As(err, &fsErr) {
			t.Fatalf("expected FilesystemError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped ErrNotExist, got %v", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "a.scss")
		writeTree(t, filepath.Dir(f), map[string]string{"a.scss": ""})
		_, err := s.Scan(context.Background(), f)
		var fsErr *catalog.FilesystemError
		if !errors.As(err, &fsErr) {
			t.Fatalf("expected FilesystemError, got %v", err)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Getuid() == 0 {
			t.Skip("permissions are not enforced")
		}
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.scss": "@mixin a { }"})
		if err := os.Chmod(filepath.Join(root, "a.scss"), 0); err != nil {
			t.Fatal(err)
		}
		_, err := s.Scan(context.Background(), root)
		var fsErr *catalog.FilesystemError
		if !errors.As(err, &fsErr) || fsErr.Op != "read file" {
			t.Fatalf("expected read FilesystemError, got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.scss": "@mixin a { }"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.Scan(ctx, root); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestScanner_SymlinkLoop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links require privileges")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"sub/a.scss": "@mixin a { }"})
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	cat := scan(t, root)
	if got, want := cat.Files.Items(), []string{"sub/a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
}

func TestScanner_Exclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_buttons.scss":          "@mixin btn { }",
		"_draft-cards.scss":      "@mixin card { }",
		"layout/_draft-row.scss": "@mixin row { }",
		"vendor/lib/_x.scss":     "@mixin x { }",
		"vendorless/_y.scss":     "@mixin y { }",
	})

	opts := defaultOptions()
	opts.Exclude = []string{"vendor/**", "vendor", "**/_draft-*.scss"}
	cat, err := catalog.NewScanner(opts, zaptest.NewLogger(t)).Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if got, want := cat.Files.Items(), []string{"buttons", "vendorless/y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
	if got, want := cat.Simple.Items(), []string{"btn", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Simple = %v, want %v", got, want)
	}
}
