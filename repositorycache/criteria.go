package repositorycache

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Where filters column = value on the model table.
func Where(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

// WhereBetween filters low <= column <= high.
func WhereBetween(column string, low, high any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? >= ?", bun.Ident(column), low).
			Where("?TableAlias.? <= ?", bun.Ident(column), high)
	}
}

// WhereIn filters column IN (values).
func WhereIn(column string, values any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? IN (?)", bun.Ident(column), bun.In(values))
	}
}

// WhereExpr adds a raw condition. Use ?TableAlias to qualify columns.
func WhereExpr(expr string, args ...any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(expr, args...)
	}
}

// OrderBy sorts by column, newest first when desc is set.
func OrderBy(column string, desc bool) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if desc {
			return q.OrderExpr("?TableAlias.? DESC", bun.Ident(column))
		}
		return q.OrderExpr("?TableAlias.? ASC", bun.Ident(column))
	}
}

// Page applies skip/limit with a stable order.
func Page(skip, limit int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.OrderExpr("?TableAlias.fecha_creacion ASC").OrderExpr("?TableAlias.id ASC")
		if skip > 0 {
			q = q.Offset(skip)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}
}

// Limit caps the number of rows.
func Limit(n int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(n)
	}
}
