package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PGInfo is the postgres diagnostic subset worth logging.
type PGInfo struct {
	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// ErrorDump flattens an error chain for structured logs.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	PGInfo
}

// maxChainDepth bounds Dump on pathological self-wrapping errors.
const maxChainDepth = 16

// Dump walks err's unwrap chain. Postgres details are taken from the first
// driver error found, pgx before lib/pq.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error(), PGInfo: pgInfo(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e, depth := err, 0; e != nil && depth < maxChainDepth; e, depth = stdErrors.Unwrap(e), depth+1 {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

func pgInfo(err error) PGInfo {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return PGInfo{
			PGCode:       pgxErr.Code,
			PGConstraint: pgxErr.ConstraintName,
			PGTable:      pgxErr.TableName,
			PGColumn:     pgxErr.ColumnName,
			PGDetail:     pgxErr.Detail,
			PGMessage:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return PGInfo{
			PGCode:       string(pqErr.Code),
			PGConstraint: pqErr.Constraint,
			PGTable:      pqErr.Table,
			PGColumn:     pqErr.Column,
			PGDetail:     pqErr.Detail,
			PGMessage:    pqErr.Message,
		}
	}
	return PGInfo{}
}
