package schemafile

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/koba/ddlkit/internal/schema"
)

var (
	databaseExpr    = xpath.MustCompile("/database")
	tableExpr       = xpath.MustCompile("table")
	columnExpr      = xpath.MustCompile("column")
	foreignKeyExpr  = xpath.MustCompile("foreign-key")
	referenceExpr   = xpath.MustCompile("reference")
	indexExpr       = xpath.MustCompile("index|unique")
	indexColumnExpr = xpath.MustCompile("index-column|unique-column")
)

// ParseXML reads a model from a database definition in the XML format:
// a database element holding table elements with column, foreign-key,
// index and unique children.
func ParseXML(data []byte, filename string) (*schema.Database, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{File: filename, Err: err}
	}
	root := xmlquery.QuerySelector(doc, databaseExpr)
	if root == nil {
		return nil, &ParseError{File: filename, Err: fmt.Errorf("no database element")}
	}

	db := &schema.Database{Name: root.SelectAttr("name")}
	for _, tn := range xmlquery.QuerySelectorAll(root, tableExpr) {
		t, err := xmlTable(tn)
		if err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
		if err := db.AddTable(t); err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
	}
	return db, nil
}

func xmlTable(n *xmlquery.Node) (*schema.Table, error) {
	t := &schema.Table{Name: n.SelectAttr("name"), Type: "TABLE", Description: n.SelectAttr("description")}
	if t.Name == "" {
		return nil, fmt.Errorf("table without a name")
	}

	for _, cn := range xmlquery.QuerySelectorAll(n, columnExpr) {
		c, err := schema.NewColumn(cn.SelectAttr("name"), cn.SelectAttr("type"))
		if err != nil {
			return nil, err
		}
		if err := c.SetSize(cn.SelectAttr("size")); err != nil {
			return nil, err
		}
		if s := cn.SelectAttr("scale"); s != "" {
			scale, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("column %q of table %q: invalid scale %q", c.Name, t.Name, s)
			}
			c.SetScale(scale)
		}
		if def, ok := attr(cn, "default"); ok {
			c.SetDefault(def)
		}
		flags := map[string]*bool{"primaryKey": &c.PrimaryKey, "required": &c.Required, "autoIncrement": &c.AutoIncrement}
		for name, dst := range flags {
			s := cn.SelectAttr(name)
			if s == "" {
				continue
			}
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("column %q of table %q: invalid %s %q", c.Name, t.Name, name, s)
			}
			*dst = v
		}
		c.Description = cn.SelectAttr("description")
		c.FieldName = cn.SelectAttr("javaName")
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}

	for _, fn := range xmlquery.QuerySelectorAll(n, foreignKeyExpr) {
		fk := &schema.ForeignKey{Name: fn.SelectAttr("name"), ForeignTable: fn.SelectAttr("foreignTable")}
		for i, rn := range xmlquery.QuerySelectorAll(fn, referenceExpr) {
			fk.References = append(fk.References, &schema.Reference{
				Local:    rn.SelectAttr("local"),
				Foreign:  rn.SelectAttr("foreign"),
				Sequence: i + 1,
			})
		}
		if err := t.AddForeignKey(fk); err != nil {
			return nil, err
		}
	}

	for _, in := range xmlquery.QuerySelectorAll(n, indexExpr) {
		idx := &schema.Index{Name: in.SelectAttr("name"), Unique: in.Data == "unique"}
		for i, icn := range xmlquery.QuerySelectorAll(in, indexColumnExpr) {
			idx.Columns = append(idx.Columns, &schema.IndexColumn{Name: icn.SelectAttr("name"), OrdinalPosition: i + 1})
		}
		if err := t.AddIndex(idx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// attr distinguishes an empty attribute from a missing one.
func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
