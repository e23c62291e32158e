// Package query translates request parameter bags into gorm predicates, a
// single sort, and pagination. Each resource declares one Filter whose
// registered keys are the only parameters ever consulted.
package query

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Predicate narrows db using the non-blank values sent for one filter key.
type Predicate func(db *gorm.DB, values []string) *gorm.DB

// Relation describes a pivot table used by existence filters, e.g.
// rbac_user_roles(user_id, role_id) for filtering users by role.
type Relation struct {
	Table      string
	OwnerKey   string
	ForeignKey string
	// TextKeys marks pivots storing both keys as decimal strings.
	TextKeys bool
}

// Filter is the per-resource filter specification: an ordered list of
// recognized keys, the predicate bound to each, and the sort specification.
// A Filter is built once per resource and is safe for concurrent use.
type Filter struct {
	table      string
	keys       []string
	predicates map[string]Predicate
	sort       SortSpec
}

// NewFilter creates a Filter for the given base table.
func NewFilter(table string, sort SortSpec) *Filter {
	return &Filter{
		table:      table,
		predicates: make(map[string]Predicate),
		sort:       sort.normalize(),
	}
}

// Table returns the base table name.
func (f *Filter) Table() string {
	return f.table
}

// Keys returns the recognized filter keys in the order they are applied.
func (f *Filter) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Column qualifies a column of the base table.
func (f *Filter) Column(name string) string {
	return f.table + "." + name
}

// On registers a custom predicate for key. Re-registering a key replaces the
// predicate but keeps its original position.
func (f *Filter) On(key string, p Predicate) *Filter {
	if _, exists := f.predicates[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.predicates[key] = p
	return f
}

// Match filters column by equality, or by membership when several values are sent.
func (f *Filter) Match(key, column string) *Filter {
	col := f.Column(column)
	return f.On(key, func(db *gorm.DB, values []string) *gorm.DB {
		if len(values) == 1 {
			return db.Where(col+" = ?", values[0])
		}
		return db.Where(col+" IN ?", values)
	})
}

// Search registers a free-text key matched case-insensitively as a substring
// of any of columns. Multiple values are joined into one search string.
// Letters outside ASCII fold too: postgres uses ILIKE, SQLite the
// unicode_lower function registered by this package.
func (f *Filter) Search(key string, columns ...string) *Filter {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = f.Column(c)
	}

	return f.On(key, func(db *gorm.DB, values []string) *gorm.DB {
		term := strings.ToLower(strings.Join(values, " "))
		pattern := "%" + escapeLike(term) + "%"
		args := make([]any, len(cols))
		for i := range args {
			args[i] = pattern
		}
		return db.Where(searchCondition(dialectName(db), cols), args...)
	})
}

func searchCondition(dialect string, cols []string) string {
	conds := make([]string, len(cols))
	for i, c := range cols {
		if dialect == "postgres" {
			conds[i] = "CAST(" + c + " AS TEXT) ILIKE ? ESCAPE '\\'"
		} else {
			conds[i] = unicodeLowerFunc + "(CAST(" + c + " AS TEXT)) LIKE ? ESCAPE '\\'"
		}
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

func dialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return ""
	}
	return db.Dialector.Name()
}

// Bool filters a boolean column. Values without a boolean reading are dropped;
// if none remain no predicate is applied.
func (f *Filter) Bool(key, column string) *Filter {
	col := f.Column(column)
	return f.On(key, func(db *gorm.DB, values []string) *gorm.DB {
		seen := make(map[bool]struct{}, 2)
		for _, v := range values {
			if b, ok := ParseBool(v); ok {
				seen[b] = struct{}{}
			}
		}
		switch len(seen) {
		case 0:
			return db
		case 1:
			_, want := seen[true]
			return db.Where(col+" = ?", want)
		default:
			return db.Where(col+" IN ?", []bool{true, false})
		}
	})
}

// ForeignKey filters an id column. Blank, "null" and non-numeric values mean
// "no filter" rather than "filter by empty".
func (f *Filter) ForeignKey(key, column string) *Filter {
	col := f.Column(column)
	return f.On(key, func(db *gorm.DB, values []string) *gorm.DB {
		ids := parseIDs(values)
		switch len(ids) {
		case 0:
			return db
		case 1:
			return db.Where(col+" = ?", ids[0])
		default:
			return db.Where(col+" IN ?", ids)
		}
	})
}

// Exists keeps base rows related through rel to any of the sent ids. It uses
// a correlated sub-query so base rows are never duplicated.
func (f *Filter) Exists(key string, rel Relation) *Filter {
	owner := f.Column("id")
	if rel.TextKeys {
		owner = "CAST(" + owner + " AS TEXT)"
	}
	where := "EXISTS (SELECT 1 FROM " + rel.Table +
		" WHERE " + rel.Table + "." + rel.OwnerKey + " = " + owner +
		" AND " + rel.Table + "." + rel.ForeignKey + " IN ?)"
	return f.On(key, func(db *gorm.DB, values []string) *gorm.DB {
		ids := parseIDs(values)
		if len(ids) == 0 {
			return db
		}
		if rel.TextKeys {
			keys := make([]string, len(ids))
			for i, id := range ids {
				keys[i] = strconv.FormatUint(uint64(id), 10)
			}
			return db.Where(where, keys)
		}
		return db.Where(where, ids)
	})
}

// Where applies every recognized key that carries a value, in registration
// order. Unknown keys in p are ignored.
func (f *Filter) Where(db *gorm.DB, p Params) *gorm.DB {
	for _, key := range f.keys {
		values := p.Values(key)
		if len(values) == 0 {
			continue
		}
		db = f.predicates[key](db, values)
	}
	return db
}

// Apply applies the enabled predicates followed by exactly one sort.
func (f *Filter) Apply(db *gorm.DB, p Params) *gorm.DB {
	return f.Sort(f.Where(db, p), p)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
