package ir

// Schema is the set of type definitions handed to one generation run.
type Schema struct {
	// Types in input order. Output follows this order.
	Types []Descriptor

	// Extern lists types outside the schema declared to implement the
	// zero-value capability, e.g. `Wrapping<T>`. Type arguments mark
	// generic parameters that must themselves be zero-capable.
	Extern []*PathType
}

// AddType adds a descriptor to the schema.
func (s *Schema) AddType(d Descriptor) {
	s.Types = append(s.Types, d)
}

// Merge appends another schema's types and externs.
func (s *Schema) Merge(other *Schema) {
	s.Types = append(s.Types, other.Types...)
	s.Extern = append(s.Extern, other.Extern...)
}

// FindType looks up a type by use-site path. Returns nil if not found.
func (s *Schema) FindType(path string) Descriptor {
	for _, t := range s.Types {
		if t.TypeName().Path() == path {
			return t
		}
	}
	return nil
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errs []error
	seen := make(map[string]bool)

	for _, t := range s.Types {
		if t == nil {
			errs = append(errs, &ValidationError{Code: "nil_type", Message: "schema contains a nil descriptor"})
			continue
		}
		name := t.TypeName()
		if name.Name == "" {
			errs = append(errs, &ValidationError{Code: "missing_name", Message: "type definition has no name", Source: t.Src()})
			continue
		}
		if seen[name.Path()] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name.Path(),
				Source:  t.Src(),
			})
		}
		seen[name.Path()] = true

		errs = append(errs, validateGenerics(name.Path(), t.Params(), t.Src())...)

		switch d := t.(type) {
		case *StructDescriptor:
			errs = append(errs, validateFields(name.Path(), d.Fields)...)
		case *UnionDescriptor:
			errs = append(errs, validateFields(name.Path(), d.Fields)...)
		case *EnumDescriptor:
			variants := make(map[string]bool)
			for _, v := range d.Variants {
				if v.Name == "" {
					errs = append(errs, &ValidationError{Code: "missing_variant_name", Message: "enum " + name.Path() + " has a variant without a name", Source: v.Source})
					continue
				}
				if variants[v.Name] {
					errs = append(errs, &ValidationError{
						Code:    "duplicate_variant",
						Message: "duplicate variant in enum " + name.Path() + ": " + v.Name,
						Source:  v.Source,
					})
				}
				variants[v.Name] = true
				errs = append(errs, validateFields(name.Path()+"::"+v.Name, v.Fields)...)
			}
		}
	}

	return errs
}

func validateGenerics(owner string, params []GenericParam, src Source) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, p := range params {
		if p.Name == "" {
			errs = append(errs, &ValidationError{Code: "missing_param_name", Message: owner + " has an unnamed generic parameter", Source: src})
			continue
		}
		if seen[p.Name] {
			errs = append(errs, &ValidationError{Code: "duplicate_param", Message: "duplicate generic parameter in " + owner + ": " + p.Name, Source: src})
		}
		seen[p.Name] = true
		if p.Kind == ParamConst && p.ConstType == "" {
			errs = append(errs, &ValidationError{Code: "missing_const_type", Message: "const parameter " + p.Name + " of " + owner + " has no type", Source: src})
		}
	}
	return errs
}

func validateFields(owner string, fields FieldList) []error {
	var errs []error
	if fields.Style == FieldsUnit && len(fields.Fields) > 0 {
		return []error{&ValidationError{Code: "unit_with_fields", Message: owner + " is unit-shaped but lists fields"}}
	}

	names := make(map[string]bool)
	for i, f := range fields.Fields {
		if f.Type == nil {
			errs = append(errs, &ValidationError{Code: "missing_field_type", Message: "field " + owner + "." + f.Label(i) + " has no type", Source: f.Source})
		}
		switch fields.Style {
		case FieldsNamed:
			if f.Name == "" {
				errs = append(errs, &ValidationError{Code: "missing_field_name", Message: "named field list of " + owner + " has an unnamed field", Source: f.Source})
				continue
			}
			if names[f.Name] {
				errs = append(errs, &ValidationError{Code: "duplicate_field", Message: "duplicate field in " + owner + ": " + f.Name, Source: f.Source})
			}
			names[f.Name] = true
		case FieldsUnnamed:
			if f.Name != "" {
				errs = append(errs, &ValidationError{Code: "unexpected_field_name", Message: "tuple field list of " + owner + " has named field " + f.Name, Source: f.Source})
			}
		}
	}
	return errs
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
	Source  Source
}

func (e *ValidationError) Error() string {
	if e.Source.IsZero() {
		return e.Message
	}
	return e.Source.String() + ": " + e.Message
}
