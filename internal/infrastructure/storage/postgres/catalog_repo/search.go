package catalog_repo

import "fmt"

// rankedSearchSQL builds the suggestion query for a catalog table: substring
// match on code, prefix matches ranked ahead of the rest, alphabetical within
// each rank. An empty term matches every row, so the query degrades to the
// first rows in code order.
func rankedSearchSQL(table, columns string) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s"+
			" WHERE code ILIKE '%%' || $1 || '%%'"+
			" ORDER BY CASE WHEN code ILIKE $1 || '%%' THEN 0 ELSE 1 END, code"+
			" LIMIT $2",
		columns, table,
	)
}
