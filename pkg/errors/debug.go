package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Trace is a flattened view of an error chain for debug logging. Postgres
// driver errors get their diagnostic fields pulled out so constraint names
// and SQLSTATE codes land in the log as discrete fields.
type Trace struct {
	Message string   `json:"message"`
	Code    Code     `json:"code,omitempty"`
	Chain   []string `json:"chain,omitempty"`

	SQLState   string `json:"sql_state,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DriverMsg  string `json:"driver_message,omitempty"`
}

// Dump walks err's wrap chain into a Trace.
func Dump(err error) Trace {
	if err == nil {
		return Trace{}
	}

	trace := Trace{Message: err.Error()}
	if coded := As(err); coded != nil {
		trace.Code = coded.Code()
	}

	for link := err; link != nil; link = errors.Unwrap(link) {
		trace.Chain = append(trace.Chain, fmt.Sprintf("%T: %v", link, link))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		trace.SQLState = pgErr.Code
		trace.Constraint = pgErr.ConstraintName
		trace.Table = pgErr.TableName
		trace.Column = pgErr.ColumnName
		trace.Detail = pgErr.Detail
		trace.DriverMsg = pgErr.Message
	}

	return trace
}
