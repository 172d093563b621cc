// Package listing turns raw query-string parameters into a composed GORM
// read query: search, field filters, vehicle-compatibility matching, sort,
// projection, and offset pagination. The builder never executes anything;
// callers run the page query once and the count query once so totals are
// computed before pagination is applied.
package listing

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/pagination"
)

// Reserved parameter names consumed by dedicated stages. Everything else in
// the query string becomes a column filter.
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
	"search": {},
	"make":   {},
	"model":  {},
	"year":   {},
}

var comparisonOps = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// operatorKey matches "price[gte]" style filter parameters.
var operatorKey = regexp.MustCompile(`^(.+)\[(gte|gt|lte|lt)\]$`)

var columnName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// columnAliases maps public JSON field names onto storage columns.
var columnAliases = map[string]string{
	"featured":    "is_featured",
	"stockstatus": "stock_status",
	"categoryid":  "category_id",
	"createdat":   "created_at",
	"updatedat":   "updated_at",
}

// Options scopes the builder to a table.
type Options struct {
	// SearchColumns are OR-matched, case-insensitively, by the search stage.
	SearchColumns []string
	// Table is the base table, used to anchor the compatibility subquery.
	Table string
	// CompatTable holds the vehicle ranges; empty disables the compat stage.
	CompatTable string
}

// ProductOptions returns the builder configuration for the products table.
func ProductOptions() Options {
	return Options{
		SearchColumns: []string{"name", "description", "sku"},
		Table:         "products",
		CompatTable:   "product_compatibilities",
	}
}

// Filter is one column comparison produced by the filter stage.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// SortField is one ordered column.
type SortField struct {
	Column string
	Desc   bool
}

// CompatFilter is the vehicle sub-match. All present conditions must hold on
// a single compatibility row.
type CompatFilter struct {
	Make  string
	Model string
	Year  *int
}

func (c CompatFilter) active() bool {
	return c.Make != "" || c.Model != "" || c.Year != nil
}

// Query is the parsed, inert form of a list request.
type Query struct {
	opts       Options
	Search     string
	Filters    []Filter
	Compat     CompatFilter
	Sort       []SortField
	Fields     []string
	Pagination pagination.Params
}

// Parse validates and stages the raw parameters. Unknown filter keys pass
// through as equality filters on the named column; comparison operator values
// must be numeric.
func Parse(values url.Values, opts Options) (*Query, error) {
	q := &Query{
		opts:       opts,
		Search:     strings.TrimSpace(values.Get("search")),
		Pagination: pagination.ParseParams(values.Get("page"), values.Get("limit")),
	}

	compat, err := parseCompat(values)
	if err != nil {
		return nil, err
	}
	q.Compat = compat

	filters, err := parseFilters(values)
	if err != nil {
		return nil, err
	}
	q.Filters = filters

	sortFields, err := parseSort(values.Get("sort"))
	if err != nil {
		return nil, err
	}
	q.Sort = sortFields

	fields, err := parseFields(values.Get("fields"))
	if err != nil {
		return nil, err
	}
	q.Fields = fields

	return q, nil
}

// Apply composes every stage onto tx, in pipeline order.
func (q *Query) Apply(tx *gorm.DB) *gorm.DB {
	tx = q.ApplyForCount(tx)

	if len(q.Sort) == 0 {
		tx = tx.Order("created_at DESC")
	} else {
		for _, field := range q.Sort {
			direction := "ASC"
			if field.Desc {
				direction = "DESC"
			}
			tx = tx.Order(field.Column + " " + direction)
		}
	}

	if len(q.Fields) > 0 {
		tx = tx.Select(q.Fields)
	}

	return tx.Offset(q.Pagination.Offset()).Limit(q.Pagination.Limit)
}

// ApplyForCount composes only the row-restricting stages (search, filters,
// compatibility). Sort, projection, and pagination are deliberately absent so
// the same Query can drive a correct total count.
func (q *Query) ApplyForCount(tx *gorm.DB) *gorm.DB {
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		clauses := make([]string, 0, len(q.opts.SearchColumns))
		args := make([]any, 0, len(q.opts.SearchColumns))
		for _, col := range q.opts.SearchColumns {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, pattern)
		}
		if len(clauses) > 0 {
			tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	for _, filter := range q.Filters {
		tx = tx.Where(filter.Column+" "+filter.Op+" ?", filter.Value)
	}

	if q.Compat.active() && q.opts.CompatTable != "" {
		conditions := []string{fmt.Sprintf("%s.product_id = %s.id", q.opts.CompatTable, q.opts.Table)}
		args := []any{}
		if q.Compat.Make != "" {
			conditions = append(conditions, q.opts.CompatTable+".make = ?")
			args = append(args, q.Compat.Make)
		}
		if q.Compat.Model != "" {
			conditions = append(conditions, q.opts.CompatTable+".model = ?")
			args = append(args, q.Compat.Model)
		}
		if q.Compat.Year != nil {
			conditions = append(conditions,
				q.opts.CompatTable+".year_start <= ?",
				q.opts.CompatTable+".year_end >= ?",
			)
			args = append(args, *q.Compat.Year, *q.Compat.Year)
		}
		sub := fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)",
			q.opts.CompatTable, strings.Join(conditions, " AND "))
		tx = tx.Where(sub, args...)
	}

	return tx
}

func parseCompat(values url.Values) (CompatFilter, error) {
	compat := CompatFilter{
		Make:  strings.TrimSpace(values.Get("make")),
		Model: strings.TrimSpace(values.Get("model")),
	}
	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return CompatFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "year must be numeric").
				WithDetails(map[string]any{"year": raw})
		}
		compat.Year = &year
	}
	return compat, nil
}

func parseFilters(values url.Values) ([]Filter, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filters := make([]Filter, 0, len(keys))
	for _, key := range keys {
		base := key
		op := "="
		if match := operatorKey.FindStringSubmatch(key); match != nil {
			base = match[1]
			op = comparisonOps[match[2]]
		}
		if _, reserved := reservedKeys[base]; reserved {
			continue
		}

		column, err := toColumn(base)
		if err != nil {
			return nil, err
		}

		raw := values.Get(key)
		value, err := coerceValue(column, op, raw)
		if err != nil {
			return nil, err
		}

		filters = append(filters, Filter{Column: column, Op: op, Value: value})
	}
	return filters, nil
}

// coerceValue types the bound parameter. Range operators only make sense on
// numeric columns, so those values must parse as numbers. Equality values
// stay strings: the database casts them against the column's type, and
// coercing here would bind a numeric parameter against text columns like sku.
func coerceValue(column, op, raw string) (any, error) {
	if op == "=" {
		return raw, nil
	}
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comparison filter value must be numeric").
			WithDetails(map[string]any{column: raw})
	}
	return number, nil
}

func parseSort(raw string) ([]SortField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		if desc {
			part = part[1:]
		}
		column, err := toColumn(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, SortField{Column: column, Desc: desc})
	}
	return fields, nil
}

func parseFields(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	fields := []string{"id"}
	seen := map[string]struct{}{"id": {}}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		column, err := toColumn(part)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[column]; dup {
			continue
		}
		seen[column] = struct{}{}
		fields = append(fields, column)
	}
	return fields, nil
}

// toColumn maps a public field name onto a storage column. CamelCase flattens
// to snake_case; anything that does not sanitize to an identifier is rejected
// so raw input never reaches the SQL text.
func toColumn(name string) (string, error) {
	name = strings.TrimSpace(name)
	if alias, ok := columnAliases[strings.ToLower(name)]; ok {
		return alias, nil
	}

	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	column := b.String()
	if !columnName.MatchString(column) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid filter field").
			WithDetails(map[string]any{"field": name})
	}
	return column, nil
}
