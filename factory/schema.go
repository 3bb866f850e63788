/*
Package factory provides JSON to Go schema conversion.

PURPOSE:
  Converts JSON header-mapping definitions into tabular.Schema values for
  the sales and cost normalizers. When the point-of-sale platform renames a
  column, operators add the new spelling to a JSON file instead of waiting
  for a release.

JSON SCHEMA:
  {
    "name": "sales",
    "fields": [
      {"name": "product_name", "aliases": ["PRODUTO DE VENDA"], "required": true},
      {"name": "store_sales_count", "aliases": ["VENDA DE FRENTE DE LOJA"], "required": true}
    ],
    "ignore": ["UNIDADE"]
  }

KEY FEATURES:
  - Validates structure (names, non-empty aliases, no duplicate fields)
  - Checks the canonical fields the normalizer needs are declared
  - Merge mode: user files may only ADD aliases to the built-in schemas

USAGE:
  f := factory.NewSchemaFactory()
  schema, err := f.ParseSchema("sales", jsonBytes)

  // Built-in definitions, e.g. for GET /api/schemas
  doc := factory.ToJSON(menu.SalesSchema())

SEE ALSO:
  - tabular/schema.go: Schema and binding rules
  - menu/schema.go:    Built-in schemas and canonical field names
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/tabular"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SchemaJSON is the JSON representation of a schema.
type SchemaJSON struct {
	Name   string      `json:"name"`
	Fields []FieldJSON `json:"fields"`
	Ignore []string    `json:"ignore,omitempty"`
}

// FieldJSON is one canonical field and its accepted header spellings.
type FieldJSON struct {
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases"`
	Required bool     `json:"required,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// SchemaFactory builds schemas for the known export kinds.
type SchemaFactory struct {
	builtin map[string]tabular.Schema
}

// NewSchemaFactory creates a factory seeded with the built-in schemas.
func NewSchemaFactory() *SchemaFactory {
	return &SchemaFactory{
		builtin: map[string]tabular.Schema{
			"sales": menu.SalesSchema(),
			"costs": menu.CostSchema(),
		},
	}
}

// Builtin returns the built-in schema for kind ("sales" or "costs").
func (f *SchemaFactory) Builtin(kind string) (tabular.Schema, error) {
	s, ok := f.builtin[kind]
	if !ok {
		return tabular.Schema{}, fmt.Errorf("unknown schema kind %q", kind)
	}
	return s, nil
}

// ParseSchema converts a JSON document into a schema for kind.
func (f *SchemaFactory) ParseSchema(kind string, data []byte) (tabular.Schema, error) {
	if _, err := f.Builtin(kind); err != nil {
		return tabular.Schema{}, err
	}

	var doc SchemaJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return tabular.Schema{}, fmt.Errorf("invalid schema JSON: %w", err)
	}
	if doc.Name == "" {
		doc.Name = kind
	}
	if err := validate(kind, doc); err != nil {
		return tabular.Schema{}, err
	}
	return fromJSON(doc), nil
}

// LoadSchemaFile reads a schema file and merges it onto the built-in schema:
// aliases are appended, required flags and ignored headers are unioned.
func (f *SchemaFactory) LoadSchemaFile(kind, path string) (tabular.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tabular.Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	extra, err := f.parsePartial(kind, data)
	if err != nil {
		return tabular.Schema{}, fmt.Errorf("%s: %w", path, err)
	}
	base, _ := f.Builtin(kind)
	return Merge(base, extra), nil
}

// parsePartial accepts documents that only mention some fields.
func (f *SchemaFactory) parsePartial(kind string, data []byte) (tabular.Schema, error) {
	if _, err := f.Builtin(kind); err != nil {
		return tabular.Schema{}, err
	}
	var doc SchemaJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return tabular.Schema{}, fmt.Errorf("invalid schema JSON: %w", err)
	}
	if err := validateFields(doc.Fields); err != nil {
		return tabular.Schema{}, err
	}
	return fromJSON(doc), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func validate(kind string, doc SchemaJSON) error {
	if err := validateFields(doc.Fields); err != nil {
		return err
	}
	declared := make(map[string]bool, len(doc.Fields))
	for _, fd := range doc.Fields {
		declared[fd.Name] = true
	}
	var missing []string
	for _, name := range menu.RequiredFields(kind) {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s schema must declare fields: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

func validateFields(fields []FieldJSON) error {
	if len(fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	seen := make(map[string]bool, len(fields))
	for i, fd := range fields {
		if strings.TrimSpace(fd.Name) == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if seen[fd.Name] {
			return fmt.Errorf("field %q declared twice", fd.Name)
		}
		seen[fd.Name] = true
		if len(fd.Aliases) == 0 {
			return fmt.Errorf("field %q: at least one alias is required", fd.Name)
		}
		for _, a := range fd.Aliases {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("field %q: empty alias", fd.Name)
			}
		}
	}
	return nil
}

// =============================================================================
// CONVERSION
// =============================================================================

func fromJSON(doc SchemaJSON) tabular.Schema {
	s := tabular.Schema{Name: doc.Name, Ignore: append([]string(nil), doc.Ignore...)}
	for _, fd := range doc.Fields {
		s.Fields = append(s.Fields, tabular.Field{
			Name:     fd.Name,
			Aliases:  append([]string(nil), fd.Aliases...),
			Required: fd.Required,
		})
	}
	return s
}

// ToJSON converts a schema to its JSON representation.
func ToJSON(s tabular.Schema) SchemaJSON {
	doc := SchemaJSON{Name: s.Name, Ignore: append([]string(nil), s.Ignore...)}
	for _, fd := range s.Fields {
		doc.Fields = append(doc.Fields, FieldJSON{
			Name:     fd.Name,
			Aliases:  append([]string(nil), fd.Aliases...),
			Required: fd.Required,
		})
	}
	return doc
}

// Merge adds extra's aliases and ignored headers to base. Fields unknown to
// base are appended as-is. base is not modified.
func Merge(base, extra tabular.Schema) tabular.Schema {
	out := fromJSON(ToJSON(base))
	for _, ef := range extra.Fields {
		idx := -1
		for i := range out.Fields {
			if out.Fields[i].Name == ef.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Fields = append(out.Fields, tabular.Field{
				Name:     ef.Name,
				Aliases:  append([]string(nil), ef.Aliases...),
				Required: ef.Required,
			})
			continue
		}
		out.Fields[idx].Aliases = appendMissing(out.Fields[idx].Aliases, ef.Aliases...)
		out.Fields[idx].Required = out.Fields[idx].Required || ef.Required
	}
	out.Ignore = appendMissing(out.Ignore, extra.Ignore...)
	return out
}

func appendMissing(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if strings.EqualFold(d, v) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
