package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Column represents a table column.
//
// The type code and the type name are kept together: setting one of them
// through SetTypeCode or SetType recomputes the other from the type table.
// The size may encode a precision and a scale ("10,2"), in which case
// SetSize splits it and overrides the scale.
type Column struct {
	Name string
	// FieldName is an optional secondary name used when mapping rows
	// to records. Empty means "derive from Name".
	FieldName       string
	Description     string
	PrimaryKey      bool
	Required        bool
	AutoIncrement   bool
	PrecisionRadix  int
	OrdinalPosition int
	// DefaultValue holds the literal default text, nil if the column
	// has no default.
	DefaultValue *string

	typeCode int
	typeName string
	size     string
	scale    int
}

// NewColumn creates a column of the given type name.
func NewColumn(name, typeName string) (*Column, error) {
	c := &Column{Name: name, PrecisionRadix: 10}
	if err := c.SetType(typeName); err != nil {
		return nil, err
	}
	return c, nil
}

// TypeCode returns the type code of the column.
func (c *Column) TypeCode() int { return c.typeCode }

// Type returns the type name of the column.
func (c *Column) Type() string { return c.typeName }

// SetTypeCode sets the type code and the matching type name.
func (c *Column) SetTypeCode(code int) error {
	name, ok := TypeName(code)
	if !ok {
		return &UnknownTypeError{Column: c.Name, Code: code}
	}
	c.typeCode, c.typeName = code, name
	return nil
}

// SetType sets the type name and the matching type code.
func (c *Column) SetType(name string) error {
	code, ok := TypeCode(name)
	if !ok {
		return &UnknownTypeError{Column: c.Name, Name: name}
	}
	c.typeCode, c.typeName = code, typeNames[code]
	return nil
}

// Size returns the size of the column, without the scale.
func (c *Column) Size() string { return c.size }

// SizeAsInt returns the size as an integer, or 0 if no size was set.
func (c *Column) SizeAsInt() (int, error) {
	if c.size == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(c.size)
	if err != nil {
		return 0, fmt.Errorf("schema: column %q has a non-numeric size %q", c.Name, c.size)
	}
	return n, nil
}

// SetSize sets the size. A size of the form "precision,scale" sets
// the scale as well.
func (c *Column) SetSize(size string) error {
	size = strings.TrimSpace(size)
	pos := strings.IndexByte(size, ',')
	if pos < 0 {
		c.size = size
		return nil
	}
	scale, err := strconv.Atoi(strings.TrimSpace(size[pos+1:]))
	if err != nil {
		return fmt.Errorf("schema: column %q has an invalid scale in size %q", c.Name, size)
	}
	c.size, c.scale = strings.TrimSpace(size[:pos]), scale
	return nil
}

// Scale returns the scale of the column.
func (c *Column) Scale() int { return c.scale }

// SetScale sets the scale of the column.
func (c *Column) SetScale(scale int) { c.scale = scale }

// IsNumeric reports if the column is of a numeric type.
func (c *Column) IsNumeric() bool { return IsNumericType(c.typeCode) }

// IsText reports if the column is of a character type.
func (c *Column) IsText() bool { return IsTextType(c.typeCode) }

// IsBinary reports if the column is of a binary type.
func (c *Column) IsBinary() bool { return IsBinaryType(c.typeCode) }

// IsDateTime reports if the column is of a date or time type.
func (c *Column) IsDateTime() bool { return IsDateTimeType(c.typeCode) }

// IsSpecial reports if the column is of a LOB or structured type.
func (c *Column) IsSpecial() bool { return IsSpecialType(c.typeCode) }

// HasDefault reports if the column has a default value.
func (c *Column) HasDefault() bool { return c.DefaultValue != nil }

// Default returns the default value text, or the empty string.
func (c *Column) Default() string {
	if c.DefaultValue == nil {
		return ""
	}
	return *c.DefaultValue
}

// SetDefault sets the literal default value of the column.
func (c *Column) SetDefault(v string) { c.DefaultValue = &v }

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	nc := *c
	if c.DefaultValue != nil {
		v := *c.DefaultValue
		nc.DefaultValue = &v
	}
	return &nc
}

// SameDefinition reports if both columns have the same definition:
// type, size where the type carries one, nullability, key and identity
// flags and default value. Names are not compared.
func (c *Column) SameDefinition(o *Column) bool {
	return c.typeCode == o.typeCode &&
		SameSize(c, o) &&
		c.Required == o.Required &&
		c.PrimaryKey == o.PrimaryKey &&
		c.AutoIncrement == o.AutoIncrement &&
		SameDefault(c, o)
}

// SameSize reports if both columns have the same size and scale. Only
// types that carry a size are compared, the others always match.
func SameSize(from, to *Column) bool {
	switch {
	case HasPrecisionAndScale(to.typeCode):
		return from.size == to.size && from.scale == to.scale
	case HasSize(to.typeCode):
		return from.size == to.size
	default:
		return true
	}
}

// SameDefault reports if both columns have the same default value.
func SameDefault(from, to *Column) bool {
	if (from.DefaultValue == nil) != (to.DefaultValue == nil) {
		return false
	}
	return from.DefaultValue == nil || *from.DefaultValue == *to.DefaultValue
}

func (c *Column) String() string {
	return fmt.Sprintf("Column [name=%s; type=%s]", c.Name, c.typeName)
}

type columnJSON struct {
	Name            string  `json:"name"`
	FieldName       string  `json:"field_name,omitempty"`
	Description     string  `json:"description,omitempty"`
	Type            string  `json:"type"`
	Size            string  `json:"size,omitempty"`
	Scale           int     `json:"scale,omitempty"`
	PrecisionRadix  int     `json:"precision_radix,omitempty"`
	OrdinalPosition int     `json:"ordinal_position,omitempty"`
	PrimaryKey      bool    `json:"primary_key,omitempty"`
	Required        bool    `json:"required,omitempty"`
	AutoIncrement   bool    `json:"auto_increment,omitempty"`
	DefaultValue    *string `json:"default_value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c *Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnJSON{
		Name:            c.Name,
		FieldName:       c.FieldName,
		Description:     c.Description,
		Type:            c.typeName,
		Size:            c.size,
		Scale:           c.scale,
		PrecisionRadix:  c.PrecisionRadix,
		OrdinalPosition: c.OrdinalPosition,
		PrimaryKey:      c.PrimaryKey,
		Required:        c.Required,
		AutoIncrement:   c.AutoIncrement,
		DefaultValue:    c.DefaultValue,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Column) UnmarshalJSON(data []byte) error {
	var v columnJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Column{
		Name:            v.Name,
		FieldName:       v.FieldName,
		Description:     v.Description,
		PrecisionRadix:  v.PrecisionRadix,
		OrdinalPosition: v.OrdinalPosition,
		PrimaryKey:      v.PrimaryKey,
		Required:        v.Required,
		AutoIncrement:   v.AutoIncrement,
		DefaultValue:    v.DefaultValue,
	}
	if err := c.SetType(v.Type); err != nil {
		return err
	}
	c.size, c.scale = v.Size, v.Scale
	return nil
}
