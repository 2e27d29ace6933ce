package sqlguard

import (
	"fmt"
	"sort"
	"strings"
)

// Policy is the immutable whitelist of tables and their columns.
type Policy struct {
	tables map[string][]string
}

// NewPolicy copies tables into a Policy. Names are lowercased.
func NewPolicy(tables map[string][]string) Policy {
	copied := make(map[string][]string, len(tables))
	for name, columns := range tables {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		cols := make([]string, 0, len(columns))
		for _, column := range columns {
			if column = strings.ToLower(strings.TrimSpace(column)); column != "" {
				cols = append(cols, column)
			}
		}
		copied[key] = cols
	}
	return Policy{tables: copied}
}

// DefaultPolicy whitelists the four catalog tables.
func DefaultPolicy() Policy {
	return NewPolicy(map[string][]string{
		"titles":         {"uid", "display_title", "clean_title"},
		"title_metadata": {"uid", "external_id", "release_year", "content_kind", "directors", "synopsis"},
		"popularity":     {"uid", "country_iso2", "period", "hits"},
		"availability":   {"uid", "country_iso2", "platform"},
	})
}

// Allows reports whether table is whitelisted.
func (p Policy) Allows(table string) bool {
	_, ok := p.tables[strings.ToLower(table)]
	return ok
}

// Tables returns the whitelisted table names in order.
func (p Policy) Tables() []string {
	names := make([]string, 0, len(p.tables))
	for name := range p.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the documented columns of table.
func (p Policy) Columns(table string) []string {
	return append([]string(nil), p.tables[strings.ToLower(table)]...)
}

// Describe renders the whitelist as "table(col, col)" lines for prompts.
func (p Policy) Describe() string {
	var b strings.Builder
	for _, name := range p.Tables() {
		fmt.Fprintf(&b, "%s(%s)\n", name, strings.Join(p.tables[name], ", "))
	}
	return b.String()
}
