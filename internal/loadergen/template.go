package loadergen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// asString joins source fragments with newlines. A fragment is a string or
// a []string.
func asString(fragments ...any) string {
	var lines []string
	for _, f := range fragments {
		switch v := f.(type) {
		case string:
			lines = append(lines, v)
		case []string:
			lines = append(lines, v...)
		default:
			panic(fmt.Sprintf("loadergen: unsupported fragment %T", f))
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every non-empty line of the joined fragments with a tab.
func indent(fragments ...any) string {
	lines := strings.Split(asString(fragments...), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "\t" + l
		}
	}
	return strings.Join(lines, "\n")
}

// jsString encodes v as JSON, which is valid JavaScript.
func jsString(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("loadergen: encoding %T: %v", v, err))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
