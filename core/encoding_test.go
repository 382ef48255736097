package core

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEncoding(t *testing.T) {
	testCases := []struct {
		name    string
		want    string
		charset string
	}{
		{"UTF8", "UTF8", "utf8mb4"},
		{"utf-8", "UTF8", "utf8mb4"},
		{"latin1", "LATIN1", "latin1"},
		{"SQL_ASCII", "SQL_ASCII", "binary"},
		{"euc_jp", "EUC_JP", "ujis"},
		{"win1251", "WIN1251", "cp1251"},
		{"iso-8859-7", "ISO_8859_7", "greek"},
	}

	for _, tc := range testCases {
		enc, err := LookupEncoding(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, enc.Name)
		assert.Equal(t, tc.charset, enc.Charset)
	}

	_, err := LookupEncoding("EBCDIC")
	assert.ErrorIs(t, err, ErrConfig)

	assert.Equal(t, "UTF8", DefaultEncoding().Name)
}

func TestEncoding_Verify(t *testing.T) {
	mustLookup := func(name string) *Encoding {
		enc, err := LookupEncoding(name)
		require.NoError(t, err)
		return enc
	}

	testCases := []struct {
		name     string
		encoding string
		input    []byte
		expected int
	}{
		{"utf8 ascii", "UTF8", []byte("hello"), -1},
		{"utf8 multibyte", "UTF8", []byte("héllo 日本"), -1},
		{"utf8 bad continuation", "UTF8", []byte{'a', 0xc3, 0x28}, 1},
		{"utf8 truncated", "UTF8", []byte{'a', 'b', 0xe6, 0x97}, 2},
		{"utf8 nul", "UTF8", []byte{'a', 0x00}, 1},
		{"latin1 high bytes", "LATIN1", []byte{0xe9, 0xff, 0x80}, -1},
		{"latin1 nul", "LATIN1", []byte{'x', 0x00}, 1},
		{"euc-jp valid", "EUC_JP", []byte{'a', 0xc6, 0xfc, 0xcb, 0xdc}, -1},
		{"euc-jp truncated", "EUC_JP", []byte{'a', 0xc6}, 1},
		{"sjis bad trail", "SJIS", []byte{0x81, 0x20}, 0},
		{"euc-cn valid", "EUC_CN", []byte{'a', 0xb0, 0xa1}, -1},
		{"euc-cn gbk-only", "EUC_CN", []byte{0x81, 0x40}, 0},
		{"euc-cn gbk-only trail", "EUC_CN", []byte{'a', 0xb0, 0x40}, 1},
		{"gbk accepts gbk-only", "GBK", []byte{0x81, 0x40}, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mustLookup(tc.encoding).Verify(tc.input))
		})
	}
}

func TestEncoding_Preview(t *testing.T) {
	enc := DefaultEncoding()

	assert.Equal(t, "0xc3 0x28", enc.Preview([]byte{'a', 0xc3, 0x28, 'b'}, 1))
	assert.Equal(t, "0xe6 0x97", enc.Preview([]byte{0xe6, 0x97}, 0))
	assert.Equal(t, "0x00", enc.Preview([]byte{0x00, 'a'}, 0))
	assert.Equal(t, "", enc.Preview([]byte{'a'}, 3))
}

func TestEncoding_Preview_MultiByteLead(t *testing.T) {
	testCases := []struct {
		name     string
		encoding string
		input    []byte
		offset   int
		expected string
	}{
		{"euc-jp two byte", "EUC_JP", []byte{'a', 0xc6, 0x28, 'x', 'y'}, 1, "0xc6 0x28"},
		{"euc-jp kana", "EUC_JP", []byte{0x8e, 0xff, 'x'}, 0, "0x8e 0xff"},
		{"euc-jp three byte", "EUC_JP", []byte{0x8f, 0xa1, 0x28, 'x'}, 0, "0x8f 0xa1 0x28"},
		{"sjis half-width kana", "SJIS", []byte{0xb1, 'x', 'y'}, 0, "0xb1"},
		{"sjis two byte", "SJIS", []byte{0x81, 0x20, 'x'}, 0, "0x81 0x20"},
		{"big5 two byte", "BIG5", []byte{0xa4, 0x20, 'x'}, 0, "0xa4 0x20"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := LookupEncoding(tc.encoding)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, enc.Preview(tc.input, tc.offset))
		})
	}
}

func TestEncodingGuard_Check(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})
	guard := NewEncodingGuard(DefaultEncoding(), logger)

	r.NoError(guard.Check("name", []byte("fine")))
	r.Empty(buf.String())

	err := guard.Check("name", []byte{'a', 0xc3, 0x28})
	r.ErrorIs(err, ErrEncoding)
	r.EqualError(err, `invalid byte sequence for encoding "UTF8": 0xc3 0x28`)

	r.Contains(buf.String(), "[WARN]")
	r.Contains(buf.String(), `invalid byte sequence for encoding "UTF8": 0xc3 0x28`)
	r.Contains(buf.String(), "column=name")
}
