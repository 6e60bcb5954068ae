// Package platform describes what each supported database can do and how
// its native types map onto the type codes of the schema model.
package platform

import (
	"strings"

	"github.com/koba/ddlkit/internal/schema"
)

// Info holds the capabilities of a database. Values are assembled once in
// the dialect constructors and must not be modified afterwards.
type Info struct {
	// Name is the canonical dialect name, e.g. "postgresql".
	Name string
	// MaxIdentifierLength limits table, column and constraint names.
	// Zero means unlimited.
	MaxIdentifierLength int

	PrimaryKeyEmbedded  bool
	ForeignKeysEmbedded bool
	IndexesEmbedded     bool

	// SystemIndexesReturned is set for databases that report the indexes
	// they create for primary and foreign keys along with user indexes.
	SystemIndexesReturned bool

	// NotNullRequired is set when required columns must be declared
	// NOT NULL explicitly. NullRequired is set when nullable columns must
	// be declared NULL explicitly.
	NotNullRequired bool
	NullRequired    bool

	// ColumnKeywordInAdd is set when ALTER TABLE ADD needs the COLUMN keyword.
	ColumnKeywordInAdd bool

	// AlterColumnSupported is unset for databases that cannot change
	// the definition of an existing column.
	AlterColumnSupported bool

	Delimiter  string
	QuoteStart string
	QuoteEnd   string

	nativeTypes  map[int]string
	targetCodes  map[int]int
	defaultSizes map[int]string
	nativeCodes  map[string]int
}

// New returns an Info with ANSI defaults.
func New(name string) *Info {
	return &Info{
		Name:                 name,
		PrimaryKeyEmbedded:   true,
		ForeignKeysEmbedded:  false,
		IndexesEmbedded:      false,
		NotNullRequired:      true,
		ColumnKeywordInAdd:   true,
		AlterColumnSupported: true,
		Delimiter:            ";",
		QuoteStart:           `"`,
		QuoteEnd:             `"`,
		nativeTypes:          make(map[int]string),
		targetCodes:          make(map[int]int),
		defaultSizes:         make(map[int]string),
		nativeCodes:          make(map[string]int),
	}
}

// AddNativeTypeMapping registers the native type used for the given type
// code. The optional target is the type code the reader reports when it
// reads the native type back. Codes unknown to the model are accepted.
func (i *Info) AddNativeTypeMapping(code int, native string, target ...int) {
	i.nativeTypes[code] = native
	back := code
	if len(target) > 0 {
		back = target[0]
		i.targetCodes[code] = back
	}
	i.addBackMapping(native, back)
}

// AddNativeTypeMappingByName is like AddNativeTypeMapping but takes type
// names. Unknown names are ignored.
func (i *Info) AddNativeTypeMappingByName(name, native, target string) {
	code, ok := schema.TypeCode(name)
	if !ok {
		return
	}
	if tc, ok := schema.TypeCode(target); ok {
		i.AddNativeTypeMapping(code, native, tc)
		return
	}
	i.AddNativeTypeMapping(code, native)
}

// AddNativeAlias makes the reader map an additional native type name to
// the given type code.
func (i *Info) AddNativeAlias(native string, code int) {
	i.nativeCodes[normalizeNative(native)] = code
}

func (i *Info) addBackMapping(native string, code int) {
	key := strings.Join(strings.Fields(strings.ToUpper(native)), " ")
	if strings.Contains(native, "{0}") {
		key = normalizeNative(native)
	}
	if _, ok := i.nativeCodes[key]; !ok {
		i.nativeCodes[key] = code
	}
}

// normalizeNative upper-cases a native type name and strips its size,
// whether it trails the name or sits in a {0} placeholder.
func normalizeNative(native string) string {
	native = strings.ToUpper(native)
	if p := strings.IndexByte(native, '('); p > 0 {
		if q := strings.IndexByte(native[p:], ')'); q > 0 {
			native = native[:p] + native[p+q+1:]
		} else {
			native = native[:p]
		}
	}
	native = strings.ReplaceAll(native, "{0}", "")
	return strings.Join(strings.Fields(native), " ")
}

// NativeType returns the native type for the given code, falling back
// to the generic type name.
func (i *Info) NativeType(code int) string {
	if native, ok := i.nativeTypes[code]; ok {
		return native
	}
	name, _ := schema.TypeName(code)
	return name
}

// HasNativeType reports if a native type was registered for the code.
func (i *Info) HasNativeType(code int) bool {
	_, ok := i.nativeTypes[code]
	return ok
}

// TargetTypeCode returns the code the database reports back for
// columns created with the given code.
func (i *Info) TargetTypeCode(code int) int {
	if target, ok := i.targetCodes[code]; ok {
		return target
	}
	return code
}

// TypeCodeFor resolves a native type name, as reported by the database
// metadata, into a type code.
func (i *Info) TypeCodeFor(native string) (int, bool) {
	full := strings.Join(strings.Fields(strings.ToUpper(native)), " ")
	if code, ok := i.nativeCodes[full]; ok {
		return code, true
	}
	base := normalizeNative(native)
	if code, ok := i.nativeCodes[base]; ok {
		return code, true
	}
	return schema.TypeCode(base)
}

// SetDefaultSize sets the size used when a column of the given type
// has none.
func (i *Info) SetDefaultSize(code int, size string) {
	i.defaultSizes[code] = size
}

// DefaultSize returns the default size for the given type code.
func (i *Info) DefaultSize(code int) (string, bool) {
	size, ok := i.defaultSizes[code]
	return size, ok
}

// HasSize reports if the native type for the code takes a size.
func (i *Info) HasSize(code int) bool {
	return schema.HasSize(code)
}

// HasPrecisionAndScale reports if the native type for the code takes
// a precision and a scale.
func (i *Info) HasPrecisionAndScale(code int) bool {
	return schema.HasPrecisionAndScale(code)
}

// ShortenName truncates name to the maximum identifier length, keeping
// its head and tail joined with an underscore.
func (i *Info) ShortenName(name string) string {
	max := i.MaxIdentifierLength
	if max <= 0 || len(name) <= max {
		return name
	}
	head := max / 2
	tail := max - head - 1
	return name[:head] + "_" + name[len(name)-tail:]
}
