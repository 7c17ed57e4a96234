// Package detect searches a schema snapshot for relations that are not
// declared as foreign keys.
//
// Every index of every table is treated as a candidate parent key. For a
// k-column index and each table in the snapshot (the parent included), every
// k-sized, order-preserving combination of that table's columns is checked
// position by position against the index columns under all configured rules.
// A combination that passes at every position becomes a Relation.
//
// With no options Detect reports everything the search finds: relations of a
// table to itself, one empty relation per table for each zero-width index and
// repeated relations when two indexes cover the same columns.
package detect

import (
	"strings"

	"github.com/tordrt/tblsrel/internal/logger"
	"github.com/tordrt/tblsrel/internal/rule"
	"github.com/tordrt/tblsrel/internal/schema"
)

// Option configures a Detector
type Option func(*Detector)

// WithMaxCombinations skips any (index, child table) pair whose number of
// candidate combinations exceeds max. Zero means no ceiling.
func WithMaxCombinations(max uint64) Option {
	return func(d *Detector) {
		d.maxCombinations = max
	}
}

// WithSkipEmptyIndexes ignores indexes that have no columns
func WithSkipEmptyIndexes() Option {
	return func(d *Detector) {
		d.skipEmptyIndexes = true
	}
}

// WithDeduplicate drops relations identical to one already found
func WithDeduplicate() Option {
	return func(d *Detector) {
		d.deduplicate = true
	}
}

// WithLogger sets the logger used for search diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// Stats counts what a Detect call did
type Stats struct {
	Indexes      int    // parent indexes considered
	Pairs        int    // (index, child table) pairs searched
	Candidates   uint64 // combinations evaluated
	Relations    int    // relations returned
	SkippedPairs int    // pairs over the combination ceiling
	Duplicates   int    // relations dropped by deduplication
}

// Detector runs the relation search with a fixed set of rules
type Detector struct {
	rules            []rule.Rule
	maxCombinations  uint64
	skipEmptyIndexes bool
	deduplicate      bool
	log              *logger.Logger
	stats            Stats
}

// New creates a Detector. The rules are copied.
func New(rules []rule.Rule, opts ...Option) *Detector {
	d := &Detector{
		rules: append([]rule.Rule(nil), rules...),
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect is New(rules, opts...).Detect(tables)
func Detect(tables []schema.Table, rules []rule.Rule, opts ...Option) []schema.Relation {
	return New(rules, opts...).Detect(tables)
}

// Stats returns the counters of the last Detect call
func (d *Detector) Stats() Stats {
	return d.stats
}

// Detect returns every relation found in tables. Nothing in the result
// shares memory with tables: each relation has its own Columns and
// ParentColumns, and Table and ParentTable point into one private copy of
// the snapshot made per call.
func (d *Detector) Detect(tables []schema.Table) []schema.Relation {
	d.stats = Stats{}
	relations := []schema.Relation{}
	seen := make(map[string]bool)
	owned := cloneTables(tables)

	for p := range tables {
		parent := &tables[p]
		for _, index := range parent.Indexes {
			k := len(index.Columns)
			if k == 0 && d.skipEmptyIndexes {
				d.log.Debugf("skipping empty index %s on %s", index.Name, parent.Key())
				continue
			}
			d.stats.Indexes++

			for c := range tables {
				child := &tables[c]
				if !d.withinCeiling(parent, index, child) {
					continue
				}
				d.stats.Pairs++

				for combo := range Combinations(len(child.Columns), k) {
					d.stats.Candidates++
					if !d.matches(parent, index, child, combo) {
						continue
					}

					rel := newRelation(&owned[p], index, &owned[c], combo)
					if d.deduplicate {
						key := relationKey(rel)
						if seen[key] {
							d.stats.Duplicates++
							continue
						}
						seen[key] = true
					}
					relations = append(relations, rel)
				}
			}
		}
	}

	d.stats.Relations = len(relations)
	d.log.Debugf("searched %d indexes, %d pairs, %d candidates: %d relations",
		d.stats.Indexes, d.stats.Pairs, d.stats.Candidates, d.stats.Relations)
	return relations
}

func (d *Detector) withinCeiling(parent *schema.Table, index schema.Index, child *schema.Table) bool {
	if d.maxCombinations == 0 {
		return true
	}
	n := Binomial(len(child.Columns), len(index.Columns))
	if n <= d.maxCombinations {
		return true
	}
	d.stats.SkippedPairs++
	d.log.Warnf("skipping %s index %s against %s: %d combinations exceed limit %d",
		parent.Key(), index.Name, child.Key(), n, d.maxCombinations)
	return false
}

// matches checks combo against the index columns position by position
func (d *Detector) matches(parent *schema.Table, index schema.Index, child *schema.Table, combo []int) bool {
	for i, col := range combo {
		pair := rule.Pair{
			ParentTable:  parent,
			ParentColumn: &index.Columns[i],
			ChildTable:   child,
			ChildColumn:  &child.Columns[col],
		}
		if !rule.All(d.rules, pair) {
			return false
		}
	}
	return true
}

func newRelation(parent *schema.Table, index schema.Index, child *schema.Table, combo []int) schema.Relation {
	columns := make([]schema.Column, len(combo))
	for i, col := range combo {
		columns[i] = child.Columns[col]
	}
	parentColumns := make([]schema.Column, len(index.Columns))
	copy(parentColumns, index.Columns)

	return schema.Relation{
		Table:         *child,
		Columns:       columns,
		ParentTable:   *parent,
		ParentColumns: parentColumns,
	}
}

func cloneTables(tables []schema.Table) []schema.Table {
	out := make([]schema.Table, len(tables))
	for i, t := range tables {
		out[i] = t
		out[i].Columns = append([]schema.Column(nil), t.Columns...)
		out[i].Indexes = make([]schema.Index, len(t.Indexes))
		for j, idx := range t.Indexes {
			out[i].Indexes[j] = idx
			out[i].Indexes[j].Columns = append([]schema.Column(nil), idx.Columns...)
		}
	}
	return out
}

// relationKey identifies a relation for deduplication. Parts are separated
// by NUL, which cannot occur in identifiers.
func relationKey(r schema.Relation) string {
	parts := []string{r.Table.Database, r.Table.Name, r.ParentTable.Database, r.ParentTable.Name}
	parts = append(parts, r.ColumnNames()...)
	parts = append(parts, "")
	parts = append(parts, r.ParentColumnNames()...)
	return strings.Join(parts, "\x00")
}
