package core_test

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/mysql-fdw/core"
)

func testSchema(t *testing.T) *core.Schema {
	t.Helper()

	schema, err := core.NewSchema(
		core.ColumnDef{Name: "id", Type: "integer"},
		core.ColumnDef{Name: "legacy", Dropped: true},
		core.ColumnDef{Name: "name", Type: "text"},
		core.ColumnDef{Name: "code", Type: "varchar(4)"},
	)
	require.NoError(t, err)
	return schema
}

func TestNewSchema(t *testing.T) {
	r := require.New(t)

	schema := testSchema(t)
	r.Equal(4, schema.Len())
	r.Equal(3, schema.LiveLen())
	r.Equal(core.Header{"id", "legacy", "name", "code"}, schema.Header())
	r.Equal(4, schema.Attrs[3].Length)

	_, err := core.NewSchema(core.ColumnDef{Name: "geom", Type: "geometry"})
	r.ErrorIs(err, core.ErrConfig)
}

func TestMaterializer_Materialize(t *testing.T) {
	r := require.New(t)

	m := core.NewMaterializer(testSchema(t))

	tuple, err := m.Materialize(core.NewRemoteRow([]byte("7"), []byte("alice"), nil))
	r.NoError(err)

	r.Equal([]any{int32(7), nil, "alice", nil}, tuple.Values)
	r.Equal([]bool{false, true, false, true}, tuple.Nulls)
	r.True(tuple.IsNull(1))
	r.Equal(4, tuple.Len())
}

func TestMaterializer_EmptyIsNotNull(t *testing.T) {
	r := require.New(t)

	m := core.NewMaterializer(testSchema(t))

	tuple, err := m.Materialize(core.NewRemoteRow([]byte("1"), []byte{}, []byte("")))
	r.NoError(err)
	r.Equal([]any{int32(1), nil, "", ""}, tuple.Values)
	r.Equal([]bool{false, true, false, false}, tuple.Nulls)

	// an empty numeric value goes through the input function too
	_, err = m.Materialize(core.NewRemoteRow([]byte{}, []byte("x"), nil))
	r.ErrorIs(err, core.ErrConversion)
	r.EqualError(err, `invalid input value: column "id": invalid input syntax for type integer: ""`)
}

func TestMaterializer_InvalidEncoding(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Trace})

	m := core.NewMaterializer(testSchema(t), core.WithLogger(logger))

	tuple, err := m.Materialize(core.NewRemoteRow([]byte("1"), []byte{'b', 'a', 'd', 0xc3, 0x28}, []byte("ok")))
	r.NoError(err)
	r.Equal([]any{int32(1), nil, nil, "ok"}, tuple.Values)
	r.Equal([]bool{false, true, true, false}, tuple.Nulls)

	out := buf.String()
	r.Contains(out, "[WARN]")
	r.Contains(out, `invalid byte sequence for encoding "UTF8": 0xc3 0x28`)
	r.Contains(out, "[TRACE]")
	r.Contains(out, "attribute is dropped")
}

func TestMaterializer_StrictEncoding(t *testing.T) {
	m := core.NewMaterializer(testSchema(t), core.WithStrictEncoding())

	_, err := m.Materialize(core.NewRemoteRow([]byte("1"), []byte{0xff}, nil))
	assert.ErrorIs(t, err, core.ErrEncoding)
	assert.ErrorContains(t, err, `column "name"`)
}

func TestMaterializer_NonStringSkipsEncodingCheck(t *testing.T) {
	schema, err := core.NewSchema(core.ColumnDef{Name: "data", Type: "bytea"})
	require.NoError(t, err)

	m := core.NewMaterializer(schema, core.WithStrictEncoding())

	tuple, err := m.Materialize(core.NewRemoteRow([]byte{0xff, 0x00}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x00}, tuple.Values[0])
}

func TestMaterializer_Errors(t *testing.T) {
	m := core.NewMaterializer(testSchema(t))

	_, err := m.Materialize(core.NewRemoteRow([]byte("1"), []byte("x")))
	assert.ErrorIs(t, err, core.ErrSchemaMismatch)

	_, err = m.Materialize(core.NewRemoteRow([]byte("1"), []byte("x"), []byte("toolong")))
	assert.ErrorIs(t, err, core.ErrConversion)
	assert.ErrorContains(t, err, "value too long for type character varying(4)")
}

func TestMaterializer_OnlyDropped(t *testing.T) {
	schema, err := core.NewSchema(
		core.ColumnDef{Name: "a", Dropped: true},
		core.ColumnDef{Name: "b", Dropped: true},
	)
	require.NoError(t, err)

	tuple, err := core.NewMaterializer(schema).Materialize(core.NewRemoteRow())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, tuple.Nulls)
}

func TestRemoteRow(t *testing.T) {
	row := core.NewRemoteRow([]byte("abc"), nil, []byte{})

	assert.Equal(t, 3, row.Len())
	assert.Equal(t, []int{3, 0, 0}, row.Lengths())
	assert.False(t, row.IsNull(0))
	assert.True(t, row.IsNull(1))
	assert.False(t, row.IsNull(2))
}
