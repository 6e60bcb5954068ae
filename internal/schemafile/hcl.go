package schemafile

import (
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/koba/ddlkit/internal/schema"
)

type (
	fileHCL struct {
		Name    string      `hcl:"name,optional"`
		Catalog string      `hcl:"catalog,optional"`
		Schema  string      `hcl:"schema,optional"`
		Tables  []*tableHCL `hcl:"table,block"`
	}

	tableHCL struct {
		Name        string           `hcl:",label"`
		Description string           `hcl:"description,optional"`
		Columns     []*columnHCL     `hcl:"column,block"`
		Indexes     []*indexHCL      `hcl:"index,block"`
		ForeignKeys []*foreignKeyHCL `hcl:"foreign_key,block"`
	}

	columnHCL struct {
		Name          string  `hcl:",label"`
		Type          string  `hcl:"type"`
		Size          *string `hcl:"size,optional"`
		PrimaryKey    bool    `hcl:"primary_key,optional"`
		Required      bool    `hcl:"required,optional"`
		AutoIncrement bool    `hcl:"auto_increment,optional"`
		Default       *string `hcl:"default,optional"`
		Description   string  `hcl:"description,optional"`
		Field         string  `hcl:"field,optional"`
	}

	indexHCL struct {
		Name    string   `hcl:",label"`
		Unique  bool     `hcl:"unique,optional"`
		Columns []string `hcl:"columns"`
	}

	foreignKeyHCL struct {
		Name       string   `hcl:",label"`
		Table      string   `hcl:"table"`
		Columns    []string `hcl:"columns"`
		RefColumns []string `hcl:"ref_columns"`
	}
)

// ParseHCL reads a model from an HCL document.
func ParseHCL(data []byte, filename string) (*schema.Database, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, &ParseError{File: filename, Err: diags}
	}
	var doc fileHCL
	if diags := gohcl.DecodeBody(f.Body, &hcl.EvalContext{}, &doc); diags.HasErrors() {
		return nil, &ParseError{File: filename, Err: diags}
	}

	db := &schema.Database{Name: doc.Name, Catalog: doc.Catalog, Schema: doc.Schema}
	for _, th := range doc.Tables {
		t, err := th.table()
		if err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
		if err := db.AddTable(t); err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
	}
	return db, nil
}

func (th *tableHCL) table() (*schema.Table, error) {
	t := &schema.Table{Name: th.Name, Type: "TABLE", Description: th.Description}
	for _, ch := range th.Columns {
		c, err := schema.NewColumn(ch.Name, ch.Type)
		if err != nil {
			return nil, err
		}
		if ch.Size != nil {
			if err := c.SetSize(*ch.Size); err != nil {
				return nil, err
			}
		}
		if ch.Default != nil {
			c.SetDefault(*ch.Default)
		}
		c.PrimaryKey = ch.PrimaryKey
		c.Required = ch.Required
		c.AutoIncrement = ch.AutoIncrement
		c.Description = ch.Description
		c.FieldName = ch.Field
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	for _, ih := range th.Indexes {
		idx := &schema.Index{Name: ih.Name, Unique: ih.Unique}
		for i, name := range ih.Columns {
			idx.Columns = append(idx.Columns, &schema.IndexColumn{Name: name, OrdinalPosition: i + 1})
		}
		if err := t.AddIndex(idx); err != nil {
			return nil, err
		}
	}
	for _, fh := range th.ForeignKeys {
		if len(fh.Columns) != len(fh.RefColumns) {
			return nil, &InvalidError{Table: t.Name, Reason: "foreign key " + strconv.Quote(fh.Name) + " has mismatched column lists"}
		}
		fk := &schema.ForeignKey{Name: fh.Name, ForeignTable: fh.Table}
		for i := range fh.Columns {
			fk.References = append(fk.References, &schema.Reference{Local: fh.Columns[i], Foreign: fh.RefColumns[i], Sequence: i + 1})
		}
		if err := t.AddForeignKey(fk); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MarshalHCL renders a model as an HCL document ParseHCL reads back.
func MarshalHCL(db *schema.Database) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	setString(body, "name", db.Name)
	setString(body, "catalog", db.Catalog)
	setString(body, "schema", db.Schema)

	for _, t := range db.Tables {
		body.AppendNewline()
		tb := body.AppendNewBlock("table", []string{t.Name}).Body()
		setString(tb, "description", t.Description)
		for _, c := range t.Columns {
			cb := tb.AppendNewBlock("column", []string{c.Name}).Body()
			cb.SetAttributeValue("type", cty.StringVal(c.Type()))
			setString(cb, "size", sizeOf(c))
			setBool(cb, "primary_key", c.PrimaryKey)
			setBool(cb, "required", c.Required)
			setBool(cb, "auto_increment", c.AutoIncrement)
			if c.HasDefault() {
				cb.SetAttributeValue("default", cty.StringVal(c.Default()))
			}
			setString(cb, "description", c.Description)
			setString(cb, "field", c.FieldName)
		}
		for _, idx := range t.Indexes {
			ib := tb.AppendNewBlock("index", []string{idx.Name}).Body()
			setBool(ib, "unique", idx.Unique)
			ib.SetAttributeValue("columns", stringList(idx.ColumnNames()))
		}
		for _, fk := range t.ForeignKeys {
			fb := tb.AppendNewBlock("foreign_key", []string{fk.Name}).Body()
			fb.SetAttributeValue("table", cty.StringVal(fk.ForeignTable))
			fb.SetAttributeValue("columns", stringList(fk.LocalColumns()))
			fb.SetAttributeValue("ref_columns", stringList(fk.ForeignColumns()))
		}
	}
	return hclwrite.Format(f.Bytes())
}

func sizeOf(c *schema.Column) string {
	if c.Size() != "" && schema.HasPrecisionAndScale(c.TypeCode()) && c.Scale() != 0 {
		return c.Size() + "," + strconv.Itoa(c.Scale())
	}
	return c.Size()
}

func setString(b *hclwrite.Body, name, v string) {
	if v != "" {
		b.SetAttributeValue(name, cty.StringVal(v))
	}
}

func setBool(b *hclwrite.Body, name string, v bool) {
	if v {
		b.SetAttributeValue(name, cty.True)
	}
}

func stringList(names []string) cty.Value {
	if len(names) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(names))
	for i, n := range names {
		vals[i] = cty.StringVal(n)
	}
	return cty.ListVal(vals)
}
