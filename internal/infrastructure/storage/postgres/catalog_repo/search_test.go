package catalog_repo

import (
	"strings"
	"testing"
)

func TestRankedSearchSQL(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		columns string
		wantSQL string
	}{
		{
			name:    "bins",
			table:   binsTable,
			columns: "id, code, note, created_at",
			wantSQL: "SELECT id, code, note, created_at FROM bins" +
				" WHERE code ILIKE '%' || $1 || '%'" +
				" ORDER BY CASE WHEN code ILIKE $1 || '%' THEN 0 ELSE 1 END, code" +
				" LIMIT $2",
		},
		{
			name:    "items",
			table:   itemsTable,
			columns: "id, code, description, created_at",
			wantSQL: "SELECT id, code, description, created_at FROM items" +
				" WHERE code ILIKE '%' || $1 || '%'" +
				" ORDER BY CASE WHEN code ILIKE $1 || '%' THEN 0 ELSE 1 END, code" +
				" LIMIT $2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := rankedSearchSQL(tt.table, tt.columns)
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
		})
	}
}

// The ORDER BY must rank prefix matches ahead of substring matches and fall
// back to code order, in that clause order: for term "A1" over codes
// A10, BA1, A12 the store returns A10, A12, BA1.
func TestRankedSearchSQLClauseOrder(t *testing.T) {
	sql := rankedSearchSQL(binsTable, "id, code, note, created_at")

	prefixRank := "CASE WHEN code ILIKE $1 || '%' THEN 0 ELSE 1 END"
	rankPos := strings.Index(sql, prefixRank)
	if rankPos < 0 {
		t.Fatalf("prefix ranking clause missing from query: %s", sql)
	}

	codeOrder := strings.Index(sql[rankPos:], ", code")
	if codeOrder < 0 {
		t.Errorf("alphabetical tie-break must follow the prefix rank: %s", sql)
	}

	if !strings.HasSuffix(sql, "LIMIT $2") {
		t.Errorf("result cap must be the final clause: %s", sql)
	}
}
