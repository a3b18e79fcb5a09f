package repo

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-orders/internal/domain"
)

// columns maps filter fields to the SQL expression they compare against.
// Date fields compare calendar days; created_at is truncated in UTC so the
// result does not depend on the session time zone.
var columns = map[domain.Field]string{
	domain.FieldUserID:        "user_id",
	domain.FieldStatus:        "status",
	domain.FieldDestination:   "destination",
	domain.FieldDepartureDate: "departure_date",
	domain.FieldReturnDate:    "return_date",
	domain.FieldCreatedDate:   "(created_at AT TIME ZONE 'UTC')::date",
}

var operators = map[domain.Op]string{
	domain.OpEq:       "=",
	domain.OpContains: "ILIKE",
	domain.OpGTE:      ">=",
	domain.OpLTE:      "<=",
}

// buildWhere renders a conjunction of conditions as a parameterised WHERE
// clause. An empty conjunction yields an empty clause. Values are never
// interpolated into the SQL text.
func buildWhere(conds []domain.Condition) (string, pgx.NamedArgs, error) {
	args := pgx.NamedArgs{}
	if len(conds) == 0 {
		return "", args, nil
	}

	parts := make([]string, 0, len(conds))
	for i, c := range conds {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("repo.buildWhere: unknown field %q", c.Field)
		}
		op, ok := operators[c.Op]
		if !ok {
			return "", nil, fmt.Errorf("repo.buildWhere: unknown operator %q", c.Op)
		}

		name := fmt.Sprintf("p%d", i)
		value := c.Value
		switch v := value.(type) {
		case domain.Status:
			value = string(v)
		case string:
			if c.Op == domain.OpContains {
				value = "%" + escapeLike(v) + "%"
			}
		}

		clause := fmt.Sprintf("%s %s @%s", col, op, name)
		if c.Op == domain.OpContains {
			clause += ` ESCAPE '\'`
		}
		parts = append(parts, clause)
		args[name] = value
	}

	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
