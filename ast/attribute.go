package ast

// Attribute is the tagged union of per-node payloads that don't fit the
// kind+span+children shape: names, modifier flags, literal text. Each
// concrete type below implements Attribute as a marker.
type Attribute interface {
	isAttribute()
}

// TypeDeclAttr carries the declared name of a class/interface/enum/record/
// annotation declaration.
type TypeDeclAttr struct {
	Name string
}

func (TypeDeclAttr) isAttribute() {}

// ParameterAttr carries the name and qualifiers of a formal parameter.
type ParameterAttr struct {
	Name     string
	Final    bool
	Varargs  bool
	Receiver bool
}

func (ParameterAttr) isAttribute() {}

// ModifierFlag is a single bit in ModifiersAttr.Flags.
type ModifierFlag uint32

const (
	ModPublic ModifierFlag = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModSynchronized
	ModNative
	ModTransient
	ModVolatile
	ModStrictfp
	ModDefault
	ModSealed
	ModNonSealed
)

// ModifiersAttr carries the modifier keyword set of a declaration as a
// bitset. Annotations are not stored here; they are child nodes of the
// KindModifiers node.
type ModifiersAttr struct {
	Flags ModifierFlag
}

func (ModifiersAttr) isAttribute() {}

func (m ModifiersAttr) Has(flag ModifierFlag) bool {
	return m.Flags&flag != 0
}

// LiteralAttr carries the raw source text of a literal (number, string,
// char, boolean, null), unescaped interpretation is left to rules that
// need it.
type LiteralAttr struct {
	Text string
}

func (LiteralAttr) isAttribute() {}

// IdentifierAttr carries the name of an identifier or qualified name
// segment.
type IdentifierAttr struct {
	Name string
}

func (IdentifierAttr) isAttribute() {}

// ImportAttr carries an import declaration's dotted path and qualifiers.
type ImportAttr struct {
	Path     string
	Static   bool
	OnDemand bool // import ends in ".*"
}

func (ImportAttr) isAttribute() {}

// ErrorAttr carries the diagnostic for a KindError node.
type ErrorAttr struct {
	Message     string
	Recoverable bool
}

func (ErrorAttr) isAttribute() {}
