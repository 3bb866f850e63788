/*
schema.go - Declarative header binding

PURPOSE:
  Exports from different versions of the platform spell the same column in
  different ways ("valor_custo" vs "valor custo", upper vs lower case). A
  Schema lists, per canonical field, every accepted spelling. Supporting a new
  spelling is a data change, not a code change.

MATCHING RULES:
  - Headers are cleaned (quotes, whitespace) then upper-cased
  - Aliases are upper-cased the same way, so "PRODUTO DE VENDA" and
    "produto de venda" bind to the same field
  - The first matching header wins when an export repeats a column
  - Headers listed in Ignore are reported in Binding.Ignored and never bound

EXAMPLE:
  schema := tabular.Schema{
      Name: "cost",
      Fields: []tabular.Field{
          {Name: "component_cost", Aliases: []string{"valor_custo", "valor custo"}, Required: true},
      },
  }
  binding, err := schema.Bind(table)
*/
package tabular

import "strings"

// Field maps accepted header spellings to one canonical name.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
}

// Schema is the set of fields a source must or may provide.
type Schema struct {
	Name   string
	Fields []Field
	Ignore []string
}

// Field returns the field with the given canonical name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Binding is a schema resolved against a concrete header row.
type Binding struct {
	Schema  string
	Ignored []string
	columns map[string]int
}

// Bind resolves every field against t's headers. A missing required field is
// a *MissingColumnError; missing optional fields are simply unbound.
func (s Schema) Bind(t *Table) (*Binding, error) {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		key := headerKey(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	b := &Binding{Schema: s.Name, columns: make(map[string]int, len(s.Fields))}

	for _, ig := range s.Ignore {
		if _, ok := index[headerKey(ig)]; ok {
			b.Ignored = append(b.Ignored, ig)
			delete(index, headerKey(ig))
		}
	}

	for _, f := range s.Fields {
		col, ok := lookup(index, f)
		if !ok {
			if f.Required {
				return nil, &MissingColumnError{Schema: s.Name, Field: f.Name, Accepted: f.Aliases}
			}
			continue
		}
		b.columns[f.Name] = col
	}
	return b, nil
}

func lookup(index map[string]int, f Field) (int, bool) {
	for _, alias := range f.Aliases {
		if col, ok := index[headerKey(alias)]; ok {
			return col, true
		}
	}
	return 0, false
}

func headerKey(h string) string {
	return strings.ToUpper(CleanHeader(h))
}

// Has reports whether field was bound to a column.
func (b *Binding) Has(field string) bool {
	_, ok := b.columns[field]
	return ok
}

// Value returns the raw cell for field in row. The second result is false
// when the field is unbound.
func (b *Binding) Value(row []string, field string) (string, bool) {
	col, ok := b.columns[field]
	if !ok {
		return "", false
	}
	return Cell(row, col), true
}
