package hcl_adapter

import (
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// pathJoinFunc joins path elements with forward slashes.
var pathJoinFunc = function.New(&function.Spec{
	VarParam: &function.Parameter{
		Name: "elem",
		Type: cty.String,
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.AsString()
		}
		return cty.StringVal(filepath.ToSlash(filepath.Join(parts...))), nil
	},
})

// evalContext builds the evaluation context every config file is decoded
// with. vars become top-level variables.
func evalContext(vars map[string]string) *hcl.EvalContext {
	variables := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		variables[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: variables,
		Functions: map[string]function.Function{
			"lower":     stdlib.LowerFunc,
			"upper":     stdlib.UpperFunc,
			"format":    stdlib.FormatFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"path_join": pathJoinFunc,
		},
	}
}
