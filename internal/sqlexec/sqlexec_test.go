package sqlexec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
	"github.com/volleyhq/volley/internal/loadtest/scenario"
)

func resolved(p scenario.Payload) *protocol.ResolvedRequest {
	return &protocol.ResolvedRequest{Name: "stmt", Payload: p}
}

func TestExecuteQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM users").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))

	exec := New(db)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.SQLRequest{
		Statement: "SELECT id, name FROM users WHERE status = $1",
		Params:    []string{"active"},
	}), 5*time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if resp.StatusCode != statusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, statusOK)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if got := string(resp.Body); got != `{"rows":2}` {
		t.Errorf("Body = %s, want {\"rows\":2}", got)
	}
	if resp.Elapsed <= 0 {
		t.Error("Elapsed not measured")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteQueryCTE(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("WITH recent AS").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	exec := New(db)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.SQLRequest{
		Statement: "WITH recent AS (SELECT id FROM orders) SELECT * FROM recent",
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if got := string(resp.Body); got != `{"rows":1}` {
		t.Errorf("Body = %s, want {\"rows\":1}", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteCommand(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET status").
		WithArgs("dormant", "30").
		WillReturnResult(sqlmock.NewResult(0, 3))

	exec := New(db)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.SQLRequest{
		Statement: "UPDATE users SET status = $1 WHERE last_seen < now() - interval '1 day' * $2",
		Params:    []string{"dormant", "30"},
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if got := string(resp.Body); got != `{"rowsAffected":3}` {
		t.Errorf("Body = %s, want {\"rowsAffected\":3}", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteStatementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WillReturnError(errors.New(`relation "ghosts" does not exist`))

	exec := New(db)
	resp, err := exec.Execute(context.Background(), resolved(&scenario.SQLRequest{
		Statement: "SELECT * FROM ghosts",
	}), time.Second)
	if err != nil {
		t.Fatalf("Execute() error = %v; statement failures are failed samples", err)
	}

	if resp.Err == nil {
		t.Fatal("Err = nil, want statement failure")
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", resp.StatusCode)
	}
}

func TestExecuteBadPayloadType(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	exec := New(db)
	_, err = exec.Execute(context.Background(), resolved(&scenario.HTTPRequest{
		URL: "http://svc.local/", Method: "GET",
	}), time.Second)
	if err == nil {
		t.Fatal("Execute() succeeded with an HTTP payload, want error")
	}
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"SELECT 1", true},
		{"  select id from users  ", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"with t as (select 1) select * from t", true},
		{"UPDATE users SET x = 1", false},
		{"INSERT INTO users VALUES (1)", false},
		{"DELETE FROM users", false},
		{"TRUNCATE users", false},
	}
	for _, tt := range tests {
		if got := returnsRows(tt.stmt); got != tt.want {
			t.Errorf("returnsRows(%q) = %t, want %t", tt.stmt, got, tt.want)
		}
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("Open() without DSN succeeded, want error")
	}
}
