// file: internals/helpers/filterq/filterq.go
package filterq

import (
	"strings"

	"gorm.io/gorm"
)

/* ===============================
   Dynamic filter builder
=================================*/

// List pages show a row listing next to COUNT/SUM stat cards. Both queries
// must be built from the same predicate fragments or the numbers drift
// apart. A Builder collects the fragments once; Apply stamps them onto any
// query. Values always travel as placeholders, never interpolated.

type Fragment struct {
	Clause string
	Values []any
}

type Builder struct {
	frags []Fragment
}

func New() *Builder {
	return &Builder{}
}

// Eq adds "col = ?" when val is non-empty. An empty col (degraded schema
// capability) or empty val contributes nothing.
func (b *Builder) Eq(col, val string) *Builder {
	val = strings.TrimSpace(val)
	if col == "" || val == "" {
		return b
	}
	b.frags = append(b.frags, Fragment{Clause: col + " = ?", Values: []any{val}})
	return b
}

// EqID adds "col = ?" for non-string values (uuid, int) when val != nil.
func (b *Builder) EqID(col string, val any) *Builder {
	if col == "" || val == nil {
		return b
	}
	b.frags = append(b.frags, Fragment{Clause: col + " = ?", Values: []any{val}})
	return b
}

// DateFrom adds "DATE(col) >= ?" for a YYYY-MM-DD value.
func (b *Builder) DateFrom(col, val string) *Builder {
	val = strings.TrimSpace(val)
	if col == "" || val == "" {
		return b
	}
	b.frags = append(b.frags, Fragment{Clause: "DATE(" + col + ") >= ?", Values: []any{val}})
	return b
}

// DateTo adds "DATE(col) <= ?" for a YYYY-MM-DD value.
func (b *Builder) DateTo(col, val string) *Builder {
	val = strings.TrimSpace(val)
	if col == "" || val == "" {
		return b
	}
	b.frags = append(b.frags, Fragment{Clause: "DATE(" + col + ") <= ?", Values: []any{val}})
	return b
}

// Search adds one OR-group of case-insensitive contains matches over cols.
// Empty column names are skipped, so a degraded schema capability simply
// narrows the group instead of breaking the page.
func (b *Builder) Search(term string, cols ...string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	pattern := "%" + strings.ToLower(term) + "%"

	var parts []string
	var vals []any
	for _, col := range cols {
		if col == "" {
			continue
		}
		parts = append(parts, "LOWER("+col+") LIKE ?")
		vals = append(vals, pattern)
	}
	if len(parts) == 0 {
		return b
	}
	b.frags = append(b.frags, Fragment{
		Clause: "(" + strings.Join(parts, " OR ") + ")",
		Values: vals,
	})
	return b
}

func (b *Builder) IsEmpty() bool {
	return len(b.frags) == 0
}

func (b *Builder) Fragments() []Fragment {
	return b.frags
}

// Apply chains every fragment onto q with AND semantics. Call it on both the
// listing query and the aggregate query so the two stay consistent.
func (b *Builder) Apply(q *gorm.DB) *gorm.DB {
	for _, f := range b.frags {
		q = q.Where(f.Clause, f.Values...)
	}
	return q
}
