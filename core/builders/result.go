package builders

import (
	"sync"

	"github.com/kndndrj/mysql-fdw/core"
)

var _ core.RemoteResult = (*Result)(nil)

// Result is a stored result set with a read cursor.
type Result struct {
	header []string
	rows   [][][]byte
	cursor int
	free   func()
	once   sync.Once
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
	row := &core.RemoteRow{Fields: r.rows[r.cursor]}
	r.cursor++
	return row
}

func (r *Result) Seek(offset int) {
	r.cursor = max(0, min(offset, len(r.rows)))
}

func (r *Result) Free() {
	r.once.Do(func() {
		r.rows = nil
		r.cursor = 0
		if r.free != nil {
			r.free()
		}
	})
}

// ResultBuilder builds stored results.
type ResultBuilder struct {
	header []string
	rows   [][][]byte
	free   func()
}

func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		header: []string{},
		free:   func() {},
	}
}

func (b *ResultBuilder) WithHeader(header []string) *ResultBuilder {
	b.header = header
	return b
}

func (b *ResultBuilder) WithRows(rows [][][]byte) *ResultBuilder {
	b.rows = rows
	return b
}

func (b *ResultBuilder) WithFreeFunc(fn func()) *ResultBuilder {
	b.free = fn
	return b
}

func (b *ResultBuilder) Build() *Result {
	return &Result{
		header: b.header,
		rows:   b.rows,
		free:   b.free,
	}
}
