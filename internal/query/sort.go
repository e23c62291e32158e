package query

import (
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reserved sort parameters.
const (
	SortByParam  = "sort_by"
	SortDirParam = "sort_dir"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// SortJoin resolves a sort key through a related table, e.g. sorting posts by
// category title: LEFT JOIN categories ON categories.id = posts.category_id.
type SortJoin struct {
	Table      string
	LocalKey   string
	ForeignKey string
	Column     string
}

// SortSpec is the sort allow-list of a resource.
type SortSpec struct {
	// Columns lists accepted sort_by values, including keys of Joins.
	Columns []string
	// Default is used when sort_by is missing or not allowed.
	Default string
	// Direction is used when sort_dir is missing or not asc/desc.
	Direction string
	Joins     map[string]SortJoin
}

func (s SortSpec) normalize() SortSpec {
	s.Direction = strings.ToLower(strings.TrimSpace(s.Direction))
	if s.Direction != Asc && s.Direction != Desc {
		s.Direction = Asc
	}
	if s.Default == "" {
		s.Default = "id"
	}
	return s
}

// Resolve returns the effective sort column and direction for p.
// Anything outside the allow-list falls back to the defaults.
func (f *Filter) Resolve(p Params) (column, direction string) {
	column = p.First(SortByParam)
	if !slices.Contains(f.sort.Columns, column) {
		column = f.sort.Default
	}
	direction = strings.ToLower(p.First(SortDirParam))
	if direction != Asc && direction != Desc {
		direction = f.sort.Direction
	}
	return column, direction
}

// Sort orders db by the requested column. Join-resolved columns left join the
// related table and re-select the base columns to avoid collisions. Ties are
// broken by the base primary key.
func (f *Filter) Sort(db *gorm.DB, p Params) *gorm.DB {
	column, direction := f.Resolve(p)
	desc := direction == Desc

	if join, ok := f.sort.Joins[column]; ok {
		on := "LEFT JOIN " + join.Table + " ON " + join.Table + "." + join.ForeignKey + " = " + f.Column(join.LocalKey)
		db = db.Joins(on).
			Select(f.table + ".*").
			Order(clause.OrderByColumn{Column: clause.Column{Table: join.Table, Name: join.Column}, Desc: desc})
	} else {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: f.table, Name: column}, Desc: desc})
	}

	if column != "id" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Table: f.table, Name: "id"}, Desc: desc})
	}
	return db
}
