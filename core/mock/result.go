package mock

import (
	"fmt"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ core.RemoteResult = (*Result)(nil)

// Result is a mocked remote result set. A nil field is NULL.
type Result struct {
	header []string
	rows   [][][]byte
	cursor int
	freed  int
	seeks  []int
}

func makeDefaultHeader(rows [][][]byte) []string {
	var header []string
	if len(rows) > 0 {
		for i := range rows[0] {
			header = append(header, fmt.Sprintf("field_%d", i))
		}
	}
	return header
}

// NewResult returns a mocked result with provided rows. Unless a header is
// given, it creates one that matches the number of fields in the first row
// in form of: <field_0>, <field_1>, etc.
func NewResult(rows [][][]byte, header ...string) *Result {
	if len(header) == 0 {
		header = makeDefaultHeader(rows)
	}
	return &Result{
		header: header,
		rows:   rows,
	}
}

// NewTextResult is NewResult for rows of strings, with nil entries as NULL.
func NewTextResult(header []string, rows ...[]*string) *Result {
	raw := make([][][]byte, len(rows))
	for i, row := range rows {
		raw[i] = make([][]byte, len(row))
		for j, field := range row {
			if field != nil {
				raw[i][j] = []byte(*field)
			}
		}
	}
	return NewResult(raw, header...)
}

// Str returns a pointer to s, for use with NewTextResult.
func Str(s string) *string {
	return &s
}

func (r *Result) Fields() []string {
	return r.header
}

func (r *Result) NumFields() int {
	return len(r.header)
}

func (r *Result) NumRows() int {
	return len(r.rows)
}

func (r *Result) FetchRow() *core.RemoteRow {
	if r.cursor >= len(r.rows) {
		return nil
	}
	row := core.NewRemoteRow(r.rows[r.cursor]...)
	r.cursor++
	return row
}

func (r *Result) Seek(offset int) {
	r.seeks = append(r.seeks, offset)
	r.cursor = offset
}

func (r *Result) Free() {
	r.freed++
}

// Freed returns the number of Free calls.
func (r *Result) Freed() int {
	return r.freed
}

// Seeks returns the offsets of all Seek calls.
func (r *Result) Seeks() []int {
	return r.seeks
}
