package employee

import (
	"strconv"
	"strings"
	"time"
)

// FilterCondition is one user-chosen attribute/operation/value triple.
// Values always arrive as strings and are coerced per attribute.
type FilterCondition struct {
	Attribute string `json:"attribute"`
	Operation string `json:"operation"`
	Value     string `json:"value"`
}

// Predicate is a parameterized SQL fragment. An empty Expr is the
// permissive no-op: it matches everything and is skipped by the query.
type Predicate struct {
	Expr string
	Args []interface{}
}

func (p Predicate) IsNoop() bool {
	return p.Expr == ""
}

const (
	OpEquals           = "equals"
	OpNotEquals        = "not_equals"
	OpContains         = "contains"
	OpNotContains      = "not_contains"
	OpStartsWith       = "starts_with"
	OpEndsWith         = "ends_with"
	OpGreaterThan      = "greater_than"
	OpGreaterThanEqual = "greater_than_equal"
	OpLessThan         = "less_than"
	OpLessThanEqual    = "less_than_equal"
	OpIsEmpty          = "is_empty"
	OpIsNotEmpty       = "is_not_empty"
)

type attributeKind int

const (
	kindColumn attributeKind = iota
	kindDate
	kindBool
	kindName
	kindSalary
	kindDepartmentName
	kindPositionTitle
)

type attributeRule struct {
	column string
	kind   attributeKind
}

// employeeAttributes is the filter allow-list. Anything outside it
// resolves to a no-op predicate rather than an error.
var employeeAttributes = map[string]attributeRule{
	"firstName":      {column: "employees.first_name", kind: kindColumn},
	"lastName":       {column: "employees.last_name", kind: kindColumn},
	"email":          {column: "employees.email", kind: kindColumn},
	"phone":          {column: "employees.phone", kind: kindColumn},
	"hireDate":       {column: "employees.hire_date", kind: kindDate},
	"isActive":       {column: "employees.is_active", kind: kindBool},
	"name":           {kind: kindName},
	"salary":         {kind: kindSalary},
	"departmentName": {kind: kindDepartmentName},
	"positionTitle":  {kind: kindPositionTitle},
}

// BuildPredicates translates the condition list into predicates combined
// with AND by the caller. No-op results are dropped.
func BuildPredicates(conditions []FilterCondition) []Predicate {
	preds := make([]Predicate, 0, len(conditions))
	for _, cond := range conditions {
		p := buildPredicate(cond)
		if !p.IsNoop() {
			preds = append(preds, p)
		}
	}
	return preds
}

func buildPredicate(cond FilterCondition) Predicate {
	rule, ok := employeeAttributes[cond.Attribute]
	if !ok {
		return Predicate{}
	}

	switch rule.kind {
	case kindColumn:
		return stringPredicate(rule.column, cond.Operation, cond.Value)
	case kindDate:
		return orderedPredicate(rule.column, cond.Operation, cond.Value, true)
	case kindBool:
		return boolPredicate(rule.column, cond.Operation, cond.Value)
	case kindName:
		return namePredicate(cond.Operation, cond.Value)
	case kindSalary:
		return salaryPredicate(cond.Operation, cond.Value)
	case kindDepartmentName:
		return relationPredicate(
			"departments", "departments.id = employees.department_id",
			"departments.name", cond.Operation, cond.Value,
		)
	case kindPositionTitle:
		return relationPredicate(
			"positions", "positions.id = employees.position_id",
			"positions.title", cond.Operation, cond.Value,
		)
	}
	return Predicate{}
}

// stringPredicate handles text columns. Pattern operations match
// case-insensitively; equality is exact.
func stringPredicate(column, op, value string) Predicate {
	switch op {
	case OpEquals:
		return Predicate{Expr: column + " = ?", Args: []interface{}{value}}
	case OpNotEquals:
		return Predicate{Expr: column + " <> ?", Args: []interface{}{value}}
	case OpContains:
		return likePredicate(column, "LIKE", "%"+value+"%")
	case OpNotContains:
		return likePredicate(column, "NOT LIKE", "%"+value+"%")
	case OpStartsWith:
		return likePredicate(column, "LIKE", value+"%")
	case OpEndsWith:
		return likePredicate(column, "LIKE", "%"+value)
	case OpIsEmpty:
		return Predicate{Expr: "(" + column + " IS NULL OR " + column + " = '')"}
	case OpIsNotEmpty:
		return Predicate{Expr: "(" + column + " IS NOT NULL AND " + column + " <> '')"}
	case OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual:
		return orderedPredicate(column, op, value, false)
	}
	return Predicate{}
}

func likePredicate(column, operator, pattern string) Predicate {
	return Predicate{
		Expr: "LOWER(" + column + ") " + operator + " LOWER(?)",
		Args: []interface{}{pattern},
	}
}

// orderedPredicate handles the comparison operations. The value parses as
// a date for date attributes and as a number otherwise; an unparseable
// value degrades to a no-op.
func orderedPredicate(column, op, value string, asDate bool) Predicate {
	operator, ok := comparisonOperator(op)
	if !ok {
		if asDate && (op == OpEquals || op == OpNotEquals) {
			if t, err := parseFilterDate(value); err == nil {
				expr := column + " = ?"
				if op == OpNotEquals {
					expr = column + " <> ?"
				}
				return Predicate{Expr: expr, Args: []interface{}{t}}
			}
		}
		return Predicate{}
	}

	if asDate {
		t, err := parseFilterDate(value)
		if err != nil {
			return Predicate{}
		}
		return Predicate{Expr: column + " " + operator + " ?", Args: []interface{}{t}}
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Predicate{}
	}
	return Predicate{Expr: column + " " + operator + " ?", Args: []interface{}{n}}
}

func comparisonOperator(op string) (string, bool) {
	switch op {
	case OpGreaterThan:
		return ">", true
	case OpGreaterThanEqual:
		return ">=", true
	case OpLessThan:
		return "<", true
	case OpLessThanEqual:
		return "<=", true
	}
	return "", false
}

// boolPredicate coerces the value case-insensitively; anything other
// than "true" counts as false. Only equality makes sense on a flag.
func boolPredicate(column, op, value string) Predicate {
	b := strings.EqualFold(strings.TrimSpace(value), "true")
	switch op {
	case OpEquals:
		return Predicate{Expr: column + " = ?", Args: []interface{}{b}}
	case OpNotEquals:
		return Predicate{Expr: column + " <> ?", Args: []interface{}{b}}
	}
	return Predicate{}
}

// namePredicate expands the virtual name attribute across the first and
// last name. Positive operations OR the two columns; negated operations
// AND them so the match is excluded from either column. Emptiness and
// comparison operations have no meaning on the combined name and
// degrade to a no-op.
func namePredicate(op, value string) Predicate {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith, OpEndsWith:
	default:
		return Predicate{}
	}

	first := stringPredicate("employees.first_name", op, value)
	last := stringPredicate("employees.last_name", op, value)
	if first.IsNoop() || last.IsNoop() {
		return Predicate{}
	}

	combinator := " OR "
	if op == OpNotEquals || op == OpNotContains {
		combinator = " AND "
	}
	return Predicate{
		Expr: "(" + first.Expr + combinator + last.Expr + ")",
		Args: append(first.Args, last.Args...),
	}
}

// salaryPredicate resolves against the currently active salary entry
// only. Emptiness operations test for the presence of an active entry.
func salaryPredicate(op, value string) Predicate {
	const activeSalary = "SELECT 1 FROM salaries WHERE salaries.employee_id = employees.id AND salaries.is_active = TRUE"

	switch op {
	case OpIsEmpty:
		return Predicate{Expr: "NOT EXISTS (" + activeSalary + ")"}
	case OpIsNotEmpty:
		return Predicate{Expr: "EXISTS (" + activeSalary + ")"}
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Predicate{}
	}

	var operator string
	switch op {
	case OpEquals:
		operator = "="
	case OpNotEquals:
		operator = "<>"
	default:
		var ok bool
		operator, ok = comparisonOperator(op)
		if !ok {
			return Predicate{}
		}
	}

	return Predicate{
		Expr: "EXISTS (" + activeSalary + " AND salaries.basic_salary " + operator + " ?)",
		Args: []interface{}{n},
	}
}

// relationPredicate resolves a virtual attribute through the linked
// entity's display field with an existence subquery.
func relationPredicate(table, joinCond, column, op, value string) Predicate {
	inner := stringPredicate(column, op, value)
	if inner.IsNoop() {
		return Predicate{}
	}
	return Predicate{
		Expr: "EXISTS (SELECT 1 FROM " + table + " WHERE " + joinCond + " AND " + inner.Expr + ")",
		Args: inner.Args,
	}
}

func parseFilterDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
