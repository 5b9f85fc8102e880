package errors

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the log-only view of an error. It never reaches clients.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	DB         *DBError `json:"db,omitempty"`
}

// DBError holds driver diagnostics pulled out of a wrapped database error.
type DBError struct {
	Engine     string `json:"engine"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Fields flattens the diagnostics into db_* log fields, skipping blanks.
func (d *DBError) Fields() map[string]any {
	if d == nil {
		return nil
	}
	fields := map[string]any{"db_engine": d.Engine}
	for k, v := range map[string]string{
		"db_code":       d.Code,
		"db_constraint": d.Constraint,
		"db_table":      d.Table,
		"db_column":     d.Column,
		"db_detail":     d.Detail,
		"db_message":    d.Message,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

// Dump walks err's chain for logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error(), DB: dbErrorFrom(err)}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

func dbErrorFrom(err error) *DBError {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBError{
			Engine:     "postgres",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBError{
			Engine:     "postgres",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return &DBError{
			Engine:  "sqlite",
			Code:    strconv.Itoa(int(liteErr.ExtendedCode)),
			Detail:  liteErr.Code.Error(),
			Message: liteErr.Error(),
		}
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint on
// either engine.
func IsUniqueViolation(err error) bool {
	db := dbErrorFrom(err)
	if db == nil {
		return false
	}
	switch db.Engine {
	case "postgres":
		return db.Code == "23505"
	case "sqlite":
		return db.Code == strconv.Itoa(int(sqlite3.ErrConstraintUnique)) ||
			db.Code == strconv.Itoa(int(sqlite3.ErrConstraintPrimaryKey))
	}
	return false
}
