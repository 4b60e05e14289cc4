package biomart

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
)

// Result is the tabular reply to a dataset query: a header row of
// column labels and the data rows beneath it.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the result holds no data rows.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

func decodeResult(body []byte) (*Result, error) {
	// The service reports query failures as a 200 with an error page.
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("Query ERROR")) {
		msg := strings.TrimSpace(strings.TrimPrefix(string(trimmed), "Query ERROR:"))
		return nil, &QueryError{Message: msg}
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = '\t'
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{What: "query", Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{What: "query", Err: errors.New("empty response body")}
	}

	return &Result{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
