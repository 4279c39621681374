package parser

import (
	"reflect"
	"testing"

	"legacy-modernizer/internal/model"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "Select into host variables",
			block: "\n  SELECT NAME, BAL\n  INTO :WS-NAME, :WS-BAL\n  FROM CUSTOMER WHERE ID = :WS-ID\n",
			want:  "SELECT NAME, BAL FROM CUSTOMER WHERE ID = ?",
		},
		{
			name:  "Declare cursor",
			block: " DECLARE C1 CURSOR FOR SELECT ID FROM ACCOUNTS WHERE OWNER = :WS-OWNER ",
			want:  "SELECT ID FROM ACCOUNTS WHERE OWNER = ?",
		},
		{
			name:  "Insert keeps INTO table",
			block: " INSERT INTO AUDIT_LOG (ID) VALUES (:WS-ID) ",
			want:  "INSERT INTO AUDIT_LOG (ID) VALUES (?)",
		},
		{
			name:  "Blank",
			block: "   \n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prepare(tt.block); got != tt.want {
				t.Errorf("Prepare() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSQLParser_Parse(t *testing.T) {
	parser := NewSQLParser()

	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{
			name:    "Valid SELECT INTO",
			sql:     " SELECT NAME INTO :WS-NAME FROM CUSTOMER WHERE ID = :WS-ID ",
			wantErr: false,
		},
		{
			name:    "Valid UPDATE",
			sql:     " UPDATE ACCOUNTS SET BAL = :WS-BAL WHERE ID = :WS-ID ",
			wantErr: false,
		},
		{
			name:    "Valid COMMIT",
			sql:     " COMMIT ",
			wantErr: false,
		},
		{
			name:    "Invalid SQL",
			sql:     "SELECT * FROM",
			wantErr: true,
		},
		{
			name:    "Empty SQL",
			sql:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && stmt == nil {
				t.Errorf("Parse() returned nil statement for valid SQL")
			}
		})
	}
}

func TestSQLParser_Profile(t *testing.T) {
	parser := NewSQLParser()

	tests := []struct {
		name       string
		sql        string
		wantKind   string
		wantTables []string
	}{
		{
			name:       "Join",
			sql:        "SELECT A.ID INTO :X FROM CUSTOMER A JOIN ORDERS B ON A.ID = B.CID",
			wantKind:   "SELECT",
			wantTables: []string{"CUSTOMER", "ORDERS"},
		},
		{
			name:       "Qualified delete",
			sql:        "DELETE FROM PROD.ORDERS WHERE ID = :WS-ID",
			wantKind:   "DELETE",
			wantTables: []string{"PROD.ORDERS"},
		},
		{
			name:       "Self join deduplicated",
			sql:        "SELECT a.id FROM emp a JOIN emp b ON a.mgr = b.id",
			wantKind:   "SELECT",
			wantTables: []string{"EMP"},
		},
		{
			name:       "Insert",
			sql:        "INSERT INTO AUDIT_LOG (ID) VALUES (:WS-ID)",
			wantKind:   "INSERT",
			wantTables: []string{"AUDIT_LOG"},
		},
		{
			name:     "Unparsable",
			sql:      "INCLUDE SQLCA",
			wantKind: "UNPARSED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, _, _ := parser.Profile(model.SQLBlock{SQL: tt.sql, Index: 3})
			if profile.Kind != tt.wantKind {
				t.Errorf("Kind got = %s, want %s", profile.Kind, tt.wantKind)
			}
			if profile.Index != 3 {
				t.Errorf("Index got = %d, want 3", profile.Index)
			}
			if len(profile.Tables) == 0 && len(tt.wantTables) == 0 {
				return
			}
			if !reflect.DeepEqual(profile.Tables, tt.wantTables) {
				t.Errorf("Tables got = %v, want %v", profile.Tables, tt.wantTables)
			}
		})
	}
}
