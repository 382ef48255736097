package core

import "context"

type (
	// Connector opens connections to a remote server. Errors are expected
	// to carry ErrClientInit or ErrConnect; anything else is reported as a
	// connection failure.
	Connector interface {
		Connect(ctx context.Context, opts *RemoteOptions, charset string) (RemoteConn, error)
	}

	// RemoteConn is a single blocking connection.
	RemoteConn interface {
		// Query runs the statement and stores its complete result set.
		Query(ctx context.Context, query string) (RemoteResult, error)
		Close() error
	}

	// RemoteResult is a stored result set with a read cursor.
	RemoteResult interface {
		Fields() []string
		NumFields() int
		NumRows() int
		// FetchRow returns the row under the cursor and advances it, or nil
		// at end of data.
		FetchRow() *RemoteRow
		// Seek moves the cursor to the given row offset.
		Seek(offset int)
		Free()
	}
)

// RemoteRow is one row of a remote result. A nil field is NULL; an empty
// non-nil field is an empty value.
type RemoteRow struct {
	Fields [][]byte
}

// NewRemoteRow builds a row; nil values are NULL.
func NewRemoteRow(fields ...[]byte) *RemoteRow {
	return &RemoteRow{Fields: fields}
}

// Len returns the number of fields.
func (r *RemoteRow) Len() int {
	return len(r.Fields)
}

// IsNull reports whether field i is NULL.
func (r *RemoteRow) IsNull(i int) bool {
	return r.Fields[i] == nil
}

// Lengths returns the byte length of every field.
func (r *RemoteRow) Lengths() []int {
	out := make([]int, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = len(f)
	}
	return out
}
