// Package schemafile reads and writes database models as files. Models are
// written as HCL; HCL and the XML database definition format are read.
package schemafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/koba/ddlkit/internal/schema"
)

// ParseError reports a file that could not be read into a model.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("schemafile: %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidError reports a model element referring to something that does
// not exist.
type InvalidError struct {
	Table  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("table %q: %s", e.Table, e.Reason)
}

// Parse reads a model, choosing the format by the file extension.
func Parse(data []byte, filename string) (*schema.Database, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xml") {
		return ParseXML(data, filename)
	}
	return ParseHCL(data, filename)
}

// ReadFiles reads and merges the model files. The first file names the
// model. The merged model is validated.
func ReadFiles(paths ...string) (*schema.Database, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("schemafile: no files given")
	}
	var model *schema.Database
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		db, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		if model == nil {
			model = db
			continue
		}
		if err := model.MergeWith(db); err != nil {
			return nil, &ParseError{File: path, Err: err}
		}
	}
	if err := Validate(model); err != nil {
		return nil, &ParseError{File: strings.Join(paths, ", "), Err: err}
	}
	return model, nil
}

// WriteFile writes the model as HCL.
func WriteFile(path string, db *schema.Database) error {
	if err := os.WriteFile(path, MarshalHCL(db), 0644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}

// Validate checks that indexes and foreign keys refer to existing tables
// and columns.
func Validate(db *schema.Database) error {
	for _, t := range db.Tables {
		if len(t.Columns) == 0 {
			return &InvalidError{Table: t.Name, Reason: "no columns"}
		}
		for _, idx := range t.Indexes {
			if len(idx.Columns) == 0 {
				return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("index %q has no columns", idx.Name)}
			}
			for _, ic := range idx.Columns {
				if t.Column(ic.Name, false) == nil {
					return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("index %q refers to unknown column %q", idx.Name, ic.Name)}
				}
			}
		}
		for _, fk := range t.ForeignKeys {
			ft := db.Table(fk.ForeignTable, false)
			if ft == nil {
				return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("foreign key %q refers to unknown table %q", fk.Name, fk.ForeignTable)}
			}
			if len(fk.References) == 0 {
				return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("foreign key %q has no references", fk.Name)}
			}
			for _, ref := range fk.References {
				if t.Column(ref.Local, false) == nil {
					return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("foreign key %q refers to unknown column %q", fk.Name, ref.Local)}
				}
				if ft.Column(ref.Foreign, false) == nil {
					return &InvalidError{Table: t.Name, Reason: fmt.Sprintf("foreign key %q refers to unknown column %q of %q", fk.Name, ref.Foreign, ft.Name)}
				}
			}
		}
	}
	return nil
}
