package derive

import "github.com/broady/zerogen/ir"

// Propagate returns a copy of params in which every type parameter gains
// bound as its last bound. Lifetime and const parameters pass through.
// Defaults are dropped: they are not permitted on impl generics.
func Propagate(params []ir.GenericParam, bound string) []ir.GenericParam {
	out := make([]ir.GenericParam, len(params))
	for i, p := range params {
		p = p.Clone()
		p.Default = ""
		if p.Kind == ir.ParamType {
			p.Bounds = append(p.Bounds, bound)
		}
		out[i] = p
	}
	return out
}

// typeParamNames returns the names of the type parameters in params.
func typeParamNames(params []ir.GenericParam) map[string]bool {
	names := make(map[string]bool)
	for _, p := range params {
		if p.Kind == ir.ParamType {
			names[p.Name] = true
		}
	}
	return names
}

// typeArgs returns the parameter names as written after the type name,
// e.g. <'a, T, N>.
func typeArgs(params []ir.GenericParam) []string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = p.Name
	}
	return args
}
