package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "ux_orders_idempotency_key",
		TableName:      "orders",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("insert order: %w", pgErr), "create order")

	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "ux_orders_idempotency_key" || dump.PGTable != "orders" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 links in chain, got %d: %v", len(dump.Chain), dump.Chain)
	}
}

func TestDumpExtractsPqFields(t *testing.T) {
	err := fmt.Errorf("query: %w", &pq.Error{Code: "23503", Table: "order_lines", Constraint: "fk_order_lines_order"})

	dump := Dump(err)
	if dump.PGCode != "23503" || dump.PGTable != "order_lines" || dump.PGConstraint != "fk_order_lines_order" {
		t.Fatalf("unexpected pq fields %+v", dump)
	}
	if dump.Code != "" {
		t.Fatalf("untyped error should have no code, got %s", dump.Code)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
