package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// maxPreviewBytes bounds the byte sequence quoted in encoding warnings.
const maxPreviewBytes = 8

type verifierKind int

const (
	verifyNone verifierKind = iota
	verifySingleByte
	verifyUTF8
	verifyMultiByte
)

// Encoding is a local database encoding together with the MySQL character
// set requested for every connection made on its behalf.
type Encoding struct {
	Name    string
	Charset string

	kind    verifierKind
	decoder encoding.Encoding
	maxLen  int
	// mblen sizes a non-UTF8 multibyte character from its lead byte.
	mblen func(lead byte) int
	// bounds rejects sequences the decoder would accept but the character
	// set does not define.
	bounds func(b []byte) bool
}

var encodings = []*Encoding{
	{Name: "UTF8", Charset: "utf8mb4", kind: verifyUTF8, maxLen: utf8.UTFMax},
	{Name: "SQL_ASCII", Charset: "binary", kind: verifyNone, maxLen: 1},
	{Name: "LATIN1", Charset: "latin1", kind: verifySingleByte, maxLen: 1},
	{Name: "LATIN2", Charset: "latin2", kind: verifySingleByte, maxLen: 1},
	{Name: "LATIN5", Charset: "latin5", kind: verifySingleByte, maxLen: 1},
	{Name: "LATIN7", Charset: "latin7", kind: verifySingleByte, maxLen: 1},
	{Name: "WIN1250", Charset: "cp1250", kind: verifySingleByte, maxLen: 1},
	{Name: "WIN1251", Charset: "cp1251", kind: verifySingleByte, maxLen: 1},
	{Name: "WIN1252", Charset: "latin1", kind: verifySingleByte, maxLen: 1},
	{Name: "WIN1256", Charset: "cp1256", kind: verifySingleByte, maxLen: 1},
	{Name: "WIN1257", Charset: "cp1257", kind: verifySingleByte, maxLen: 1},
	{Name: "KOI8R", Charset: "koi8r", kind: verifySingleByte, maxLen: 1},
	{Name: "KOI8U", Charset: "koi8u", kind: verifySingleByte, maxLen: 1},
	{Name: "ISO_8859_7", Charset: "greek", kind: verifySingleByte, maxLen: 1},
	{Name: "ISO_8859_8", Charset: "hebrew", kind: verifySingleByte, maxLen: 1},
	{Name: "EUC_JP", Charset: "ujis", kind: verifyMultiByte, decoder: japanese.EUCJP, maxLen: 3, mblen: eucJPLen},
	{Name: "SJIS", Charset: "sjis", kind: verifyMultiByte, decoder: japanese.ShiftJIS, maxLen: 2, mblen: sjisLen},
	{Name: "EUC_KR", Charset: "euckr", kind: verifyMultiByte, decoder: korean.EUCKR, maxLen: 2, mblen: doubleByteLen},
	{Name: "EUC_CN", Charset: "gb2312", kind: verifyMultiByte, decoder: simplifiedchinese.GBK, maxLen: 2, mblen: doubleByteLen, bounds: eucCNBounds},
	{Name: "GBK", Charset: "gbk", kind: verifyMultiByte, decoder: simplifiedchinese.GBK, maxLen: 2, mblen: doubleByteLen},
	{Name: "BIG5", Charset: "big5", kind: verifyMultiByte, decoder: traditionalchinese.Big5, maxLen: 2, mblen: doubleByteLen},
}

// eucJPLen: SS3 (0x8f) introduces a three byte JIS X 0212 character, every
// other high byte a two byte one.
func eucJPLen(lead byte) int {
	if lead == 0x8f {
		return 3
	}
	return 2
}

// sjisLen treats 0xa1-0xdf as single byte half-width katakana.
func sjisLen(lead byte) int {
	if lead >= 0xa1 && lead <= 0xdf {
		return 1
	}
	return 2
}

func doubleByteLen(byte) int {
	return 2
}

func isEUCByte(c byte) bool {
	return c >= 0xa1 && c <= 0xfe
}

// eucCNBounds keeps GB2312 to its EUC form: both bytes in 0xa1-0xfe. The GBK
// decoder alone would let GBK-only characters through.
func eucCNBounds(b []byte) bool {
	return len(b) >= 2 && isEUCByte(b[0]) && isEUCByte(b[1])
}

func normalizeEncodingName(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToUpper(strings.TrimSpace(name)))
}

// LookupEncoding finds a supported encoding by its local name. Dashes,
// underscores and case are ignored, so "utf-8" finds UTF8.
func LookupEncoding(name string) (*Encoding, error) {
	key := normalizeEncodingName(name)
	for _, enc := range encodings {
		if normalizeEncodingName(enc.Name) == key {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported database encoding %q", ErrConfig, name)
}

// DefaultEncoding is used when no encoding is configured.
func DefaultEncoding() *Encoding {
	return encodings[0]
}

var replacementChar = []byte(string(utf8.RuneError))

// Verify returns the offset of the first invalid byte sequence in b, or -1
// when b is well formed. A NUL byte is never valid.
func (e *Encoding) Verify(b []byte) int {
	switch e.kind {
	case verifyUTF8:
		for pos := 0; pos < len(b); {
			if b[pos] == 0 {
				return pos
			}
			r, size := utf8.DecodeRune(b[pos:])
			if r == utf8.RuneError && size <= 1 {
				return pos
			}
			pos += size
		}
		return -1
	case verifyMultiByte:
		return e.verifyDecoded(b)
	default:
		return bytes.IndexByte(b, 0)
	}
}

func (e *Encoding) verifyDecoded(b []byte) int {
	dec := e.decoder.NewDecoder()
	var dst [2 * utf8.UTFMax]byte

	for pos := 0; pos < len(b); {
		if b[pos] == 0 {
			return pos
		}
		if b[pos] < utf8.RuneSelf {
			pos++
			continue
		}
		if e.bounds != nil && !e.bounds(b[pos:]) {
			return pos
		}

		consumed := 0
		for k := 1; k <= e.maxLen && pos+k <= len(b); k++ {
			dec.Reset()
			nDst, nSrc, err := dec.Transform(dst[:], b[pos:pos+k], false)
			if errors.Is(err, transform.ErrShortSrc) {
				continue
			}
			if err != nil || nSrc == 0 || bytes.Contains(dst[:nDst], replacementChar) {
				return pos
			}
			consumed = nSrc
			break
		}
		if consumed == 0 {
			// truncated multibyte character
			return pos
		}
		pos += consumed
	}

	return -1
}

// charLen guesses how long the character starting at b[0] claims to be.
func (e *Encoding) charLen(b []byte) int {
	if len(b) < 1 || b[0] < utf8.RuneSelf {
		return 1
	}
	if e.kind != verifyUTF8 {
		if e.mblen != nil {
			return e.mblen(b[0])
		}
		return e.maxLen
	}
	switch {
	case b[0]&0xe0 == 0xc0:
		return 2
	case b[0]&0xf0 == 0xe0:
		return 3
	case b[0]&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}

// Preview renders the bytes of the character at offset as hex, e.g.
// "0xc3 0x28", never quoting more than 8 bytes.
func (e *Encoding) Preview(b []byte, offset int) string {
	if offset < 0 || offset >= len(b) {
		return ""
	}
	rest := b[offset:]
	n := min(e.charLen(rest), len(rest), maxPreviewBytes)

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("0x%02x", rest[i])
	}
	return strings.Join(parts, " ")
}

// EncodingGuard validates text values against the local encoding before they
// reach an input function. Invalid values are reported as a warning and the
// caller is told to store NULL instead.
type EncodingGuard struct {
	enc     *Encoding
	log     hclog.Logger
	metrics *scanMetrics
}

func NewEncodingGuard(enc *Encoding, logger hclog.Logger) *EncodingGuard {
	if enc == nil {
		enc = DefaultEncoding()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &EncodingGuard{
		enc:     enc,
		log:     logger,
		metrics: newScanMetrics(),
	}
}

// Check returns nil when raw is valid in the guarded encoding. Otherwise it
// logs a warning naming the offending bytes and returns an ErrEncoding error.
func (g *EncodingGuard) Check(column string, raw []byte) error {
	bad := g.enc.Verify(raw)
	if bad < 0 {
		return nil
	}

	preview := g.enc.Preview(raw, bad)
	g.log.Warn(fmt.Sprintf("invalid byte sequence for encoding %q: %s", g.enc.Name, preview),
		"column", column, "encoding", g.enc.Name, "offset", bad)
	g.metrics.encodingErrors(g.enc.Name)

	return fmt.Errorf("%w for encoding %q: %s", ErrEncoding, g.enc.Name, preview)
}
