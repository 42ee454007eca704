// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgInvalidSQL is returned when the question holds no query statement.
const MsgInvalidSQL = "Invalid SQL query."

// selectStatement matches from SELECT to the end of the line.
var selectStatement = regexp.MustCompile(`(?i)SELECT .* FROM .*`)

// seedStatements build the fixed table every query runs against.
var seedStatements = []string{
	`CREATE TABLE test (id INTEGER, name TEXT)`,
	`INSERT INTO test VALUES (1, 'Alice'), (2, 'Bob')`,
}

// SQLQuery runs the SELECT statement found in the question against a fresh,
// seeded in-memory SQLite database that is discarded after the call.
type SQLQuery struct{}

// Extract implements Extractor.
func (SQLQuery) Extract(ctx context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	stmt := selectStatement.FindString(string(q))
	if stmt == "" {
		return types.Failure(types.KindParseError, MsgInvalidSQL, fmt.Errorf("no SELECT statement in question"))
	}

	rows, err := RunSeededQuery(ctx, stmt)
	if err != nil {
		return types.Failure(types.KindExecutionError, "SQL execution failed: "+err.Error(), err)
	}
	return types.OK(FormatRows(rows))
}

// RunSeededQuery executes stmt against a new in-memory database holding the
// seed table and returns every row.
func RunSeededQuery(ctx context.Context, stmt string) ([][]any, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, s := range seedStatements {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return nil, fmt.Errorf("seeding database: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatRows renders rows as a list of tuples, e.g. [(1, 'Alice'), (2, 'Bob')].
func FormatRows(rows [][]any) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatValue(v))
		}
		if len(row) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return pyFloat(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return quoteString(x)
	case []byte:
		return "b" + quoteString(string(x))
	default:
		return fmt.Sprint(x)
	}
}

// pyFloat renders x the way Python's repr does: the shortest round-trip
// digits, positional between 1e-4 and 1e16 and scientific outside.
func pyFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(x, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if x != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quoteString quotes s with single quotes, switching to double quotes when s
// contains a single quote but no double quote.
func quoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
