package tabular_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/menu-engine/tabular"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := tabular.EncodeLatin1(s)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var costSchema = tabular.Schema{
	Name: "cost",
	Fields: []tabular.Field{
		{Name: "product_name", Aliases: []string{"produto_principal"}, Required: true},
		{Name: "component_cost", Aliases: []string{"valor_custo", "valor custo"}, Required: true},
		{Name: "note", Aliases: []string{"observacao"}},
	},
	Ignore: []string{"unidade"},
}

// =============================================================================
// READ
// =============================================================================

func TestRead_DecodesLatin1AndCleansHeaders(t *testing.T) {
	// GIVEN: A Latin-1 export with quoted, padded headers and accented cells
	data := latin1(t, "\" produto_principal \";\"valor_custo\"\nPÃO DE QUEIJO;1.25\nAÇAÍ;3\n")

	// WHEN: Reading with the default options
	table, err := tabular.Read(data, tabular.DefaultReadOptions())

	// THEN: Headers are cleaned and cells come back as UTF-8
	require.NoError(t, err)
	assert.Equal(t, []string{"produto_principal", "valor_custo"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "PÃO DE QUEIJO", table.Rows[0][0])
	assert.Equal(t, "AÇAÍ", table.Rows[1][0])
}

func TestRead_ShortRowsReadAsEmptyCells(t *testing.T) {
	table, err := tabular.Read([]byte("a;b;c\n1;2\n"), tabular.ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "2", tabular.Cell(table.Rows[0], 1))
	assert.Equal(t, "", tabular.Cell(table.Rows[0], 2))
	assert.Equal(t, "", tabular.Cell(table.Rows[0], -1))
}

func TestRead_EmptySourceIsStructural(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("  \n ")} {
		_, err := tabular.Read(data, tabular.DefaultReadOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, tabular.ErrEmptySource))
		assert.True(t, tabular.IsStructural(err))
	}
}

func TestRead_Workbook(t *testing.T) {
	// GIVEN: The same export saved as an XLSX workbook
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"produto_principal", "valor_custo"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"PIZZA A", "3.00"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	// WHEN: Reading it through the same entry point
	table, err := tabular.Read(buf.Bytes(), tabular.DefaultReadOptions())

	// THEN: The first sheet is used and the header row is split off
	require.NoError(t, err)
	assert.Equal(t, []string{"produto_principal", "valor_custo"}, table.Headers)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "PIZZA A", table.Rows[0][0])
}

func TestRead_WorkbookNumericCellsKeepStoredValue(t *testing.T) {
	// GIVEN: A workbook whose measures are numeric cells with a display format
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"PRODUTO DE VENDA", "RECEITA DELIVERY"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"PIZZA A", 150.5}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", style))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	// WHEN: Reading it
	table, err := tabular.Read(buf.Bytes(), tabular.DefaultReadOptions())

	// THEN: The cell reads as stored and parses with '.' as the decimal point
	require.NoError(t, err)
	assert.Equal(t, tabular.SourceWorkbook, table.Source)
	assert.Equal(t, "150.5", table.Rows[0][1])
	got, ok := table.LocaleDecimal(table.Rows[0][1])
	require.True(t, ok)
	assert.True(t, got.Equal(dec("150.5")), got.String())
}

func TestTable_LocaleDecimalFollowsSource(t *testing.T) {
	delimited := &tabular.Table{Source: tabular.SourceDelimited}
	workbook := &tabular.Table{Source: tabular.SourceWorkbook}

	tests := []struct {
		table *tabular.Table
		in    string
		want  string
	}{
		{delimited, "150,50", "150.5"},
		{delimited, "1.200", "1200"},
		{workbook, "150.5", "150.5"},
		{workbook, "75.25", "75.25"},
		{workbook, "150,50", "150.5"},
		{workbook, "1.234,50", "1234.5"},
	}
	for _, tt := range tests {
		got, ok := tt.table.LocaleDecimal(tt.in)
		require.True(t, ok, tt.in)
		assert.True(t, got.Equal(dec(tt.want)), "%s %q -> %s", tt.table.Source, tt.in, got)
	}

	_, ok := workbook.LocaleDecimal("n/d")
	assert.False(t, ok)
}

func TestRead_DelimitedSource(t *testing.T) {
	table, err := tabular.Read(latin1(t, "a;b\n1;2\n"), tabular.DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, tabular.SourceDelimited, table.Source)
}

func TestRead_CorruptWorkbookIsUnreadable(t *testing.T) {
	_, err := tabular.Read([]byte("PK\x03\x04garbage"), tabular.DefaultReadOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrUnreadable))
}

// =============================================================================
// SCHEMA BINDING
// =============================================================================

func TestBind_AcceptsEitherSpellingAndCase(t *testing.T) {
	for _, header := range []string{"produto_principal;valor_custo", "PRODUTO_PRINCIPAL;Valor Custo"} {
		table, err := tabular.Read([]byte(header+"\nX;1\n"), tabular.DefaultReadOptions())
		require.NoError(t, err)

		b, err := costSchema.Bind(table)
		require.NoError(t, err, header)

		v, ok := b.Value(table.Rows[0], "component_cost")
		assert.True(t, ok)
		assert.Equal(t, "1", v)
		assert.False(t, b.Has("note"))
	}
}

func TestBind_MissingRequiredColumn(t *testing.T) {
	table, err := tabular.Read([]byte("produto_principal;preco\nX;1\n"), tabular.DefaultReadOptions())
	require.NoError(t, err)

	_, err = costSchema.Bind(table)

	var missing *tabular.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "component_cost", missing.Field)
	assert.True(t, errors.Is(err, tabular.ErrMissingColumn))
	assert.True(t, tabular.IsStructural(err))
}

func TestBind_IgnoredHeadersAreReported(t *testing.T) {
	table, err := tabular.Read([]byte("UNIDADE;produto_principal;valor_custo\nLoja 1;X;1\n"), tabular.DefaultReadOptions())
	require.NoError(t, err)

	b, err := costSchema.Bind(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"unidade"}, b.Ignored)

	v, _ := b.Value(table.Rows[0], "product_name")
	assert.Equal(t, "X", v)
}

// =============================================================================
// NUMERIC COERCION
// =============================================================================

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"3.00", "3", true},
		{" 1.5 ", "1.5", true},
		{"-2", "-2", true},
		{"", "0", false},
		{"abc", "0", false},
		{"3,00", "0", false},
	}
	for _, tt := range tests {
		got, ok := tabular.ParseDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.True(t, got.Equal(dec(tt.want)), "%q: got %s", tt.in, got)
	}
}

func TestParseLocaleDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"150,00", "150", true},
		{"1.234,56", "1234.56", true},
		{"10", "10", true},
		{"", "0", false},
		{"n/a", "0", false},
	}
	for _, tt := range tests {
		got, ok := tabular.ParseLocaleDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.True(t, got.Equal(dec(tt.want)), "%q: got %s", tt.in, got)
	}
}

func TestFormatLocaleDecimal(t *testing.T) {
	assert.Equal(t, "10,5", tabular.FormatLocaleDecimal(dec("10.50")))
	assert.Equal(t, "15", tabular.FormatLocaleDecimal(dec("15")))
}
