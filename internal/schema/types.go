package schema

import "strings"

// Type codes as used by JDBC metadata (java.sql.Types). The model keeps
// them so that definitions and introspected schemas share one vocabulary
// regardless of the dialect they came from.
const (
	TypeArray         = 2003
	TypeBigInt        = -5
	TypeBinary        = -2
	TypeBit           = -7
	TypeBlob          = 2004
	TypeBoolean       = 16
	TypeChar          = 1
	TypeClob          = 2005
	TypeDatalink      = 70
	TypeDate          = 91
	TypeDecimal       = 3
	TypeDistinct      = 2001
	TypeDouble        = 8
	TypeFloat         = 6
	TypeInteger       = 4
	TypeJavaObject    = 2000
	TypeLongVarBinary = -4
	TypeLongVarChar   = -1
	TypeNull          = 0
	TypeNumeric       = 2
	TypeOther         = 1111
	TypeReal          = 7
	TypeRef           = 2006
	TypeSmallInt      = 5
	TypeStruct        = 2002
	TypeTime          = 92
	TypeTimestamp     = 93
	TypeTinyInt       = -6
	TypeVarBinary     = -3
	TypeVarChar       = 12
)

type typeCategory int

const (
	categoryOther typeCategory = iota
	categoryNumeric
	categoryText
	categoryBinary
	categoryDateTime
	categorySpecial
)

var (
	typeNames = map[int]string{
		TypeArray:         "ARRAY",
		TypeBigInt:        "BIGINT",
		TypeBinary:        "BINARY",
		TypeBit:           "BIT",
		TypeBlob:          "BLOB",
		TypeBoolean:       "BOOLEAN",
		TypeChar:          "CHAR",
		TypeClob:          "CLOB",
		TypeDatalink:      "DATALINK",
		TypeDate:          "DATE",
		TypeDecimal:       "DECIMAL",
		TypeDistinct:      "DISTINCT",
		TypeDouble:        "DOUBLE",
		TypeFloat:         "FLOAT",
		TypeInteger:       "INTEGER",
		TypeJavaObject:    "JAVA_OBJECT",
		TypeLongVarBinary: "LONGVARBINARY",
		TypeLongVarChar:   "LONGVARCHAR",
		TypeNull:          "NULL",
		TypeNumeric:       "NUMERIC",
		TypeOther:         "OTHER",
		TypeReal:          "REAL",
		TypeRef:           "REF",
		TypeSmallInt:      "SMALLINT",
		TypeStruct:        "STRUCT",
		TypeTime:          "TIME",
		TypeTimestamp:     "TIMESTAMP",
		TypeTinyInt:       "TINYINT",
		TypeVarBinary:     "VARBINARY",
		TypeVarChar:       "VARCHAR",
	}
	typeCodes = func() map[string]int {
		m := make(map[string]int, len(typeNames))
		for code, name := range typeNames {
			m[name] = code
		}
		return m
	}()
	categories = map[int]typeCategory{
		TypeBigInt:        categoryNumeric,
		TypeBit:           categoryNumeric,
		TypeDecimal:       categoryNumeric,
		TypeDouble:        categoryNumeric,
		TypeFloat:         categoryNumeric,
		TypeInteger:       categoryNumeric,
		TypeNumeric:       categoryNumeric,
		TypeReal:          categoryNumeric,
		TypeSmallInt:      categoryNumeric,
		TypeTinyInt:       categoryNumeric,
		TypeChar:          categoryText,
		TypeLongVarChar:   categoryText,
		TypeVarChar:       categoryText,
		TypeBinary:        categoryBinary,
		TypeLongVarBinary: categoryBinary,
		TypeVarBinary:     categoryBinary,
		TypeDate:          categoryDateTime,
		TypeTime:          categoryDateTime,
		TypeTimestamp:     categoryDateTime,
		TypeArray:         categorySpecial,
		TypeBlob:          categorySpecial,
		TypeClob:          categorySpecial,
		TypeDatalink:      categorySpecial,
		TypeDistinct:      categorySpecial,
		TypeJavaObject:    categorySpecial,
		TypeNull:          categorySpecial,
		TypeOther:         categorySpecial,
		TypeRef:           categorySpecial,
		TypeStruct:        categorySpecial,
	}
)

// TypeName returns the name registered for the given type code.
func TypeName(code int) (string, bool) {
	name, ok := typeNames[code]
	return name, ok
}

// TypeCode returns the code registered for the given type name.
// The lookup ignores case.
func TypeCode(name string) (int, bool) {
	code, ok := typeCodes[strings.ToUpper(strings.TrimSpace(name))]
	return code, ok
}

// TypeCodes returns all known type codes.
func TypeCodes() []int {
	codes := make([]int, 0, len(typeNames))
	for code := range typeNames {
		codes = append(codes, code)
	}
	return codes
}

// IsNumericType reports if the code denotes a numeric type.
func IsNumericType(code int) bool { return categories[code] == categoryNumeric }

// IsTextType reports if the code denotes a character type.
func IsTextType(code int) bool { return categories[code] == categoryText }

// IsBinaryType reports if the code denotes a binary type.
func IsBinaryType(code int) bool { return categories[code] == categoryBinary }

// IsDateTimeType reports if the code denotes a date or time type.
func IsDateTimeType(code int) bool { return categories[code] == categoryDateTime }

// IsSpecialType reports if the code denotes a LOB or a structured type.
func IsSpecialType(code int) bool { return categories[code] == categorySpecial }

// HasSize reports if columns of the given type carry a length.
func HasSize(code int) bool {
	switch code {
	case TypeChar, TypeVarChar, TypeBinary, TypeVarBinary:
		return true
	}
	return HasPrecisionAndScale(code)
}

// HasPrecisionAndScale reports if columns of the given type carry
// a precision and a scale.
func HasPrecisionAndScale(code int) bool {
	return code == TypeDecimal || code == TypeNumeric
}
