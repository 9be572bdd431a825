package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type treeWriter struct {
	w *strings.Builder
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Tree returns human readable indented rendering of the catalog grouped by
// contributing file, with definition lines and declared parameters.
func (c *Catalog) Tree() string {
	tw := treeWriter{w: &strings.Builder{}}

	byFile := make(map[string][]string)
	for _, set := range []*OrderedSet{&c.Simple, &c.Parameterized} {
		for _, name := range set.items {
			f := c.origins[name].File
			byFile[f] = append(byFile[f], name)
		}
	}

	tw.line(0, "catalog: %d simple, %d parameterized, %d files", c.Simple.Len(), c.Parameterized.Len(), c.Files.Len())
	for _, f := range sortedKeys(byFile) {
		tw.line(1, "%s", quote(f))
		for _, name := range byFile[f] {
			cat, o, _ := c.Lookup(name)
			if cat == Parameterized {
				tw.line(2, "%s(%s) line %d", name, strings.Join(o.Params, ", "), o.Line)
				continue
			}
			tw.line(2, "%s line %d", name, o.Line)
		}
	}
	if len(c.collisions) > 0 {
		tw.line(1, "collisions:")
		for _, col := range c.collisions {
			tw.line(2, "%s: simple %s:%d, parameterized %s:%d", col.Name,
				quote(col.Simple.File), col.Simple.Line, quote(col.Parameterized.File), col.Parameterized.Line)
		}
	}
	return tw.w.String()
}

func quote(raw string) string {
	if raw == "" {
		return strconv.Quote(raw)
	}
	if strings.ContainsAny(raw, " \t\r\n\"'") {
		return strconv.Quote(raw)
	}
	return raw
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
