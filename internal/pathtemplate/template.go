// Package pathtemplate expands output file name patterns such as
// "[name].[chunkhash:8].js" for a chunk.
//
// A compiled Expr can be rendered two ways with identical results: as a
// JavaScript expression over a run-time chunk id (embedded in generated
// loaders, where the requested id is only known once the program runs) or
// resolved directly in Go for a known id (used when writing chunk files).
//
// Supported placeholders:
//
//	[hash] [hash:N]                build hash
//	[id]                           chunk id
//	[name]                         chunk name, or the id for unnamed chunks
//	[chunkhash] [chunkhash:N]      chunk hash from the index
//	[contenthash] [contenthash:N]  content hash of the configured category
//
// Any other bracketed text is copied literally.
package pathtemplate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/workerpack/internal/chunkmaps"
)

// Undefined is what a lookup of an absent table entry renders as, on both
// the Go and the JavaScript side.
const Undefined = "undefined"

// Context supplies the values placeholders resolve against.
type Context struct {
	BuildHash       string
	Index           *chunkmaps.Index
	ContentHashType string
}

var placeholderRe = regexp.MustCompile(`\[(hash|chunkhash|contenthash)(?::([^\]]*))?\]|\[(id|name)\]`)

type partKind int

const (
	partLiteral partKind = iota
	partChunkID
	partLookup
	partName
)

type part struct {
	kind  partKind
	text  string
	table chunkmaps.Table
}

// Expr is a compiled pattern.
type Expr struct {
	pattern string
	parts   []part
}

// Compile parses pattern against ctx.
func Compile(pattern string, ctx Context) (*Expr, error) {
	if ctx.Index == nil {
		return nil, fmt.Errorf("pathtemplate: no chunk index")
	}
	e := &Expr{pattern: pattern}

	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(pattern, -1) {
		e.literal(pattern[last:m[0]])
		last = m[1]

		if m[6] >= 0 {
			if pattern[m[6]:m[7]] == "id" {
				e.parts = append(e.parts, part{kind: partChunkID})
			} else {
				e.parts = append(e.parts, part{kind: partName, table: orEmpty(ctx.Index.Name)})
			}
			continue
		}

		name := pattern[m[2]:m[3]]
		length := -1
		if m[4] >= 0 {
			n, err := strconv.Atoi(pattern[m[4]:m[5]])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("pathtemplate: invalid length in %q of pattern %q", pattern[m[0]:m[1]], pattern)
			}
			length = n
		}

		switch name {
		case "hash":
			if ctx.BuildHash == "" {
				return nil, fmt.Errorf("pathtemplate: pattern %q uses [hash] but the build has no hash", pattern)
			}
			h := ctx.BuildHash
			if length >= 0 && len(h) > length {
				h = h[:length]
			}
			e.literal(h)
		case "chunkhash":
			e.lookup(ctx.Index.Hash, length)
		case "contenthash":
			e.lookup(ctx.Index.ContentHashes(ctx.ContentHashType), length)
		}
	}
	e.literal(pattern[last:])

	return e, nil
}

func (e *Expr) literal(s string) {
	if s == "" {
		return
	}
	if n := len(e.parts); n > 0 && e.parts[n-1].kind == partLiteral {
		e.parts[n-1].text += s
		return
	}
	e.parts = append(e.parts, part{kind: partLiteral, text: s})
}

func (e *Expr) lookup(t chunkmaps.Table, length int) {
	if length >= 0 {
		t = t.Truncate(length)
	}
	e.parts = append(e.parts, part{kind: partLookup, table: orEmpty(t)})
}

func orEmpty(t chunkmaps.Table) chunkmaps.Table {
	if t == nil {
		return chunkmaps.Table{}
	}
	return t
}

// Pattern returns the source pattern.
func (e *Expr) Pattern() string {
	return e.pattern
}

// Static reports whether the expression does not depend on the chunk id.
func (e *Expr) Static() bool {
	for _, p := range e.parts {
		if p.kind != partLiteral {
			return false
		}
	}
	return true
}

// Resolve evaluates the expression for chunk id. ok is false when a table
// lookup found no entry; that position then reads "undefined", exactly as
// the generated JavaScript would produce.
func (e *Expr) Resolve(id string) (path string, ok bool) {
	ok = true
	var sb strings.Builder
	for _, p := range e.parts {
		switch p.kind {
		case partLiteral:
			sb.WriteString(p.text)
		case partChunkID:
			sb.WriteString(id)
		case partLookup:
			v, found := p.table[id]
			if !found {
				v, ok = Undefined, false
			}
			sb.WriteString(v)
		case partName:
			if v, found := p.table[id]; found {
				sb.WriteString(v)
			} else {
				sb.WriteString(id)
			}
		}
	}
	return sb.String(), ok
}

// JS renders the expression as JavaScript source. idExpr is the
// JavaScript expression that yields the chunk id at run time.
func (e *Expr) JS(idExpr string) string {
	if len(e.parts) == 0 {
		return `""`
	}
	terms := make([]string, 0, len(e.parts)+1)
	if e.parts[0].kind != partLiteral {
		// Force string concatenation even when the first term is a number.
		terms = append(terms, `""`)
	}
	for _, p := range e.parts {
		switch p.kind {
		case partLiteral:
			terms = append(terms, jsValue(p.text))
		case partChunkID:
			terms = append(terms, idExpr)
		case partLookup:
			terms = append(terms, jsValue(p.table)+"["+idExpr+"]")
		case partName:
			terms = append(terms, "("+jsValue(p.table)+"["+idExpr+"]||"+idExpr+")")
		}
	}
	return strings.Join(terms, " + ")
}

// jsValue encodes v as a JSON literal, which is valid JavaScript. Map keys
// come out sorted, so output is reproducible.
func jsValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("pathtemplate: encoding %T: %v", v, err))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
