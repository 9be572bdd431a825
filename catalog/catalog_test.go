package catalog

import (
	"reflect"
	"testing"
)

func TestOrderedSet(t *testing.T) {
	var set OrderedSet

	for _, s := range []string{"b", "a", "b", "c", "a"} {
		set.Add(s)
	}
	if got, want := set.Items(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}

	if !set.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if set.Remove("b") {
		t.Error("second Remove(b) = true, want false")
	}
	if got, want := set.Items(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Items() after remove = %v, want %v", got, want)
	}

	// index must follow removal
	set.Add("d")
	set.Remove("c")
	if !set.Has("a") || !set.Has("d") || set.Has("c") {
		t.Errorf("unexpected membership: %v", set.Items())
	}
	if got, want := set.Items(), []string{"a", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}

func TestCatalog_ParameterizedWins(t *testing.T) {
	tests := []struct {
		name  string
		order []Category
	}{
		{"simple first", []Category{Simple, Parameterized}},
		{"parameterized first", []Category{Parameterized, Simple}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for i, cat := range tt.order {
				c.Add("btn", cat, Origin{File: "f.scss", Line: i + 1})
			}
			if c.Simple.Has("btn") {
				t.Error("btn must not be simple")
			}
			if !c.Parameterized.Has("btn") {
				t.Error("btn must be parameterized")
			}
			if len(c.Collisions()) != 1 {
				t.Errorf("expected 1 collision, got %d", len(c.Collisions()))
			}
			cat, _, ok := c.Lookup("btn")
			if !ok || cat != Parameterized {
				t.Errorf("Lookup(btn) = %v, %v", cat, ok)
			}
		})
	}
}

func TestCatalog_Merge(t *testing.T) {
	parent := New()
	parent.Add("flex", Simple, Origin{File: "a.scss"})
	parent.Add("gap", Simple, Origin{File: "a.scss"})
	parent.Files.Add("a")

	child := New()
	child.Add("gap", Parameterized, Origin{File: "sub/b.scss"})
	child.Add("grid", Simple, Origin{File: "sub/b.scss"})
	child.Add("flex", Simple, Origin{File: "sub/b.scss"})
	child.Files.Add("sub/b")
	child.Files.Add("a")

	parent.Merge(child)
	parent.Merge(nil)

	if got, want := parent.Simple.Items(), []string{"flex", "grid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Simple = %v, want %v", got, want)
	}
	if got, want := parent.Parameterized.Items(), []string{"gap"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Parameterized = %v, want %v", got, want)
	}
	if got, want := parent.Files.Items(), []string{"a", "sub/b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
	if _, o, _ := parent.Lookup("flex"); o.File != "a.scss" {
		t.Errorf("flex origin = %q, want first seen a.scss", o.File)
	}
	if _, o, _ := parent.Lookup("gap"); o.File != "sub/b.scss" {
		t.Errorf("gap origin = %q, want sub/b.scss", o.File)
	}
}

func TestImportPath(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"buttons.scss", "buttons"},
		{"_buttons.scss", "buttons"},
		{"base/_typography.scss", "base/typography"},
		{"_utils/_spacing.scss", "utils/spacing"},
		{`components\forms\_input.scss`, "components/forms/input"},
		{"my_file.scss", "my_file"},
	}
	for _, tt := range tests {
		if got := ImportPath(tt.rel, ".scss", "_"); got != tt.want {
			t.Errorf("ImportPath(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
	if got := ImportPath("_a/_b.scss", ".scss", ""); got != "_a/_b" {
		t.Errorf("ImportPath without prefix = %q", got)
	}
}

func TestCatalog_Tree(t *testing.T) {
	c := New()
	c.Add("btn", Simple, Origin{File: "_buttons.scss", Line: 1})
	c.Add("btn-color", Parameterized, Origin{File: "_buttons.scss", Line: 4, Params: []string{"$color"}})
	c.Add("gap", Simple, Origin{File: "layout/_flex.scss", Line: 2})
	c.Add("gap", Parameterized, Origin{File: "my grid/_grid.scss", Line: 7, Params: []string{"$size", "$dir"}})
	c.Files.Add("buttons")
	c.Files.Add("my grid/grid")

	want := `catalog: 1 simple, 2 parameterized, 2 files
  _buttons.scss
    btn line 1
    btn-color($color) line 4
  "my grid/_grid.scss"
    gap($size, $dir) line 7
  collisions:
    gap: simple layout/_flex.scss:2, parameterized "my grid/_grid.scss":7
`
	if got := c.Tree(); got != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, want)
	}
}
