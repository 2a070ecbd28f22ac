package bundler

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// minify rewrites every collected file with esbuild. Identifiers are kept:
// the loader and the bundles reference each other by name.
func (o *output) minify() error {
	for _, p := range o.paths() {
		code, err := minifyJS(p, o.files[p])
		if err != nil {
			return err
		}
		o.files[p] = code
	}
	return nil
}

func minifyJS(name, code string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:           api.LoaderJS,
		Sourcefile:       name,
		MinifyWhitespace: true,
		MinifySyntax:     true,
	})
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
			Kind: api.ErrorMessage,
		})
		return "", fmt.Errorf("failed to minify %s:\n%s", name, strings.Join(msgs, ""))
	}
	return string(result.Code), nil
}
