package ir

// Kind identifies the category of a type descriptor.
type Kind int

const (
	KindStruct Kind = iota // Product type with positional or named fields
	KindUnion              // Untagged union; every field overlaps at offset zero
	KindEnum               // Tagged enumeration of variants
)

// String returns the string representation of the descriptor kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "Struct"
	case KindUnion:
		return "Union"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Descriptor is the base interface for all type definitions handed to the
// generator. The set of implementations is closed: StructDescriptor,
// UnionDescriptor and EnumDescriptor.
type Descriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() Kind

	// TypeName returns the identifier of the defined type.
	TypeName() Identifier

	// Params returns the declared generic parameters in declaration order.
	Params() []GenericParam

	// WherePredicates returns the declared where-clause predicates verbatim.
	WherePredicates() []string

	// Attrs returns the attributes attached to the definition.
	Attrs() []Attribute

	// Src returns the location of the definition.
	Src() Source

	// Ensure only types in this package can implement Descriptor.
	sealed()
}

// StructDescriptor represents a struct definition.
type StructDescriptor struct {
	Name       Identifier
	Generics   []GenericParam
	Where      []string
	Attributes []Attribute

	// Fields are the struct's fields; Style distinguishes `struct S;`,
	// `struct S(..);` and `struct S {..}`.
	Fields FieldList

	Source Source
}

// Kind returns KindStruct.
func (d *StructDescriptor) Kind() Kind { return KindStruct }

// TypeName returns the struct's name.
func (d *StructDescriptor) TypeName() Identifier { return d.Name }

// Params returns the struct's generic parameters.
func (d *StructDescriptor) Params() []GenericParam { return d.Generics }

// WherePredicates returns the struct's where clause.
func (d *StructDescriptor) WherePredicates() []string { return d.Where }

// Attrs returns the struct's attributes.
func (d *StructDescriptor) Attrs() []Attribute { return d.Attributes }

// Src returns the struct's source location.
func (d *StructDescriptor) Src() Source { return d.Source }

func (*StructDescriptor) sealed() {}

// UnionDescriptor represents an untagged union definition.
// Unions carry no variants and no discriminant.
type UnionDescriptor struct {
	Name       Identifier
	Generics   []GenericParam
	Where      []string
	Attributes []Attribute

	// Fields are the union members.
	Fields FieldList

	Source Source
}

// Kind returns KindUnion.
func (d *UnionDescriptor) Kind() Kind { return KindUnion }

// TypeName returns the union's name.
func (d *UnionDescriptor) TypeName() Identifier { return d.Name }

// Params returns the union's generic parameters.
func (d *UnionDescriptor) Params() []GenericParam { return d.Generics }

// WherePredicates returns the union's where clause.
func (d *UnionDescriptor) WherePredicates() []string { return d.Where }

// Attrs returns the union's attributes.
func (d *UnionDescriptor) Attrs() []Attribute { return d.Attributes }

// Src returns the union's source location.
func (d *UnionDescriptor) Src() Source { return d.Source }

func (*UnionDescriptor) sealed() {}

// EnumDescriptor represents a tagged enumeration.
type EnumDescriptor struct {
	Name       Identifier
	Generics   []GenericParam
	Where      []string
	Attributes []Attribute

	// Variants in declaration order. Order is significant: the first
	// variant carries the implicit discriminant zero.
	Variants []Variant

	Source Source
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() Kind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() Identifier { return d.Name }

// Params returns the enum's generic parameters.
func (d *EnumDescriptor) Params() []GenericParam { return d.Generics }

// WherePredicates returns the enum's where clause.
func (d *EnumDescriptor) WherePredicates() []string { return d.Where }

// Attrs returns the enum's attributes.
func (d *EnumDescriptor) Attrs() []Attribute { return d.Attributes }

// Src returns the enum's source location.
func (d *EnumDescriptor) Src() Source { return d.Source }

func (*EnumDescriptor) sealed() {}

// Variant represents a single enum case.
type Variant struct {
	Name string

	// Discriminant is the explicit `= expr`, or nil when none was written.
	Discriminant *Discriminant

	Fields FieldList

	Source Source
}
