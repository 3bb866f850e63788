package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/report"
	"github.com/warp/menu-engine/tabular"
	"github.com/xuri/excelize/v2"
)

const salesCSV = "UNIDADE;PRODUTO DE VENDA;VENDA DE FRENTE DE LOJA;VENDA DELIVERY;RECEITA FRENTE DE LOJA;RECEITA DELIVERY\n" +
	"Loja Centro;PIZZA A;10;5;150,00;75,00\n" +
	"Loja Centro;PIZZA B;5;0;50,00;0,00\n" +
	"Loja Centro;PÃO DE QUEIJO;30;10;240,00;80,00\n"

const costsCSV = "\"produto_principal\";\"componente\";\"valor_custo\"\n" +
	"pizza a;massa;3.00\n" +
	"pizza a;queijo;1.50\n" +
	"pizza b;massa;3.00\n" +
	"pão de queijo;polvilho;1.00\n"

func writeExport(t *testing.T, dir, name, text string) string {
	t.Helper()
	data, err := tabular.EncodeLatin1(text)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_Table(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	out, _, err := execute(t, "analyze", "--sales", sales, "--costs", costs)

	require.NoError(t, err)
	assert.Contains(t, out, "PIZZA A")
	assert.Contains(t, out, "PÃO DE QUEIJO")
	assert.Contains(t, out, "3 products")
}

func TestAnalyze_JSON(t *testing.T) {
	// GIVEN: PIZZA A (15 sold, profit 10.50), PIZZA B (5 sold, profit 7),
	// PÃO DE QUEIJO (40 sold, profit 7). Means: popularity 20, profit 8.17
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	// WHEN: Rendering as JSON
	out, _, err := execute(t, "analyze", "--sales", sales, "--costs", costs, "--format", "json")
	require.NoError(t, err)

	// THEN: Each product lands in its quadrant
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, menu.StatusOK, doc.Status)
	byName := map[string]string{}
	for _, it := range doc.Items {
		byName[it.ProductName] = it.Classification
	}
	assert.Equal(t, map[string]string{
		"PIZZA A":       "puzzle",
		"PIZZA B":       "dog",
		"PÃO DE QUEIJO": "workhorse",
	}, byName)
}

func TestAnalyze_XLSXNeedsOut(t *testing.T) {
	_, _, err := execute(t, "analyze", "--sales", "x", "--costs", "y", "--format", "xlsx")
	assert.Error(t, err)
}

func TestAnalyze_XLSXFile(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)
	outPath := filepath.Join(dir, "matriz.xlsx")

	_, stderr, err := execute(t, "analyze", "--sales", sales, "--costs", costs, "--format", "xlsx", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 3 products")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Matriz")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestAnalyze_MissingInputFails(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", "PRODUTO DE VENDA;VENDA DELIVERY\nPIZZA A;1\n")
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	_, _, err := execute(t, "analyze", "--sales", sales, "--costs", costs)

	require.Error(t, err)
	assert.True(t, errors.Is(err, menu.ErrMissingInput))
}

func TestAnalyze_NoOverlapSucceedsWithMessage(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", "\"produto_principal\";\"componente\";\"valor_custo\"\nhot roll;arroz;2.00\n")

	out, stderr, err := execute(t, "analyze", "--sales", sales, "--costs", costs)

	require.NoError(t, err)
	assert.Contains(t, stderr, "No product appears in both exports")
	assert.Contains(t, out, "(0 products)")
}

func TestAnalyze_OptionFlags(t *testing.T) {
	// GIVEN: A cost name with a trailing dot
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", strings.Replace(costsCSV, "pizza b;", "pizza b.;", 1))

	// WHEN: Matching exactly, PIZZA B drops out
	out, _, err := execute(t, "analyze", "--sales", sales, "--costs", costs, "--format", "csv")
	require.NoError(t, err)
	assert.NotContains(t, out, "PIZZA B;")

	// WHEN: Stripping trailing dots, it matches again
	out, _, err = execute(t, "analyze", "--sales", sales, "--costs", costs, "--format", "csv", "--strip-trailing-dots")
	require.NoError(t, err)
	assert.Contains(t, out, "PIZZA B;")
}

func TestExcerpt(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	out, _, err := execute(t, "excerpt", "--sales", sales, "--costs", costs, "-n", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "product_name;"))
	assert.True(t, strings.HasPrefix(lines[1], "PIZZA A;"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "PÃO DE QUEIJO;"), lines[2])
}

func TestExcerpt_SizeFromEnvironment(t *testing.T) {
	// GIVEN: The excerpt size configured through the environment only
	t.Setenv("MENU_PIPELINE__EXCERPT_SIZE", "1")
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	// WHEN: Running excerpt without -n
	out, _, err := execute(t, "excerpt", "--sales", sales, "--costs", costs)
	require.NoError(t, err)

	// THEN: One product per ranking, header included
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}

func TestExcerpt_SizeFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)
	cfgPath := filepath.Join(dir, "menu-engine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("pipeline:\n  excerpt_size: 1\n"), 0o644))

	out, _, err := execute(t, "excerpt", "--config", cfgPath, "--sales", sales, "--costs", costs)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}

func TestExcerpt_TopFlagBeatsConfig(t *testing.T) {
	t.Setenv("MENU_PIPELINE__EXCERPT_SIZE", "1")
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)

	out, _, err := execute(t, "excerpt", "--sales", sales, "--costs", costs, "-n", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
}

func TestAnalyze_OutputFileErrorIsReported(t *testing.T) {
	// GIVEN: An output path that cannot be created
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)
	outPath := filepath.Join(dir, "missing", "matriz.csv")

	// WHEN: Writing the report there
	_, stderr, err := execute(t, "analyze", "--sales", sales, "--costs", costs, "--format", "csv", "--out", outPath)

	// THEN: The command fails and does not claim success
	require.Error(t, err)
	assert.NotContains(t, stderr, "Wrote")
}

func TestAnalyze_CSVFile(t *testing.T) {
	dir := t.TempDir()
	sales := writeExport(t, dir, "vendas.csv", salesCSV)
	costs := writeExport(t, dir, "custos.csv", costsCSV)
	outPath := filepath.Join(dir, "matriz.csv")

	_, stderr, err := execute(t, "analyze", "--sales", sales, "--costs", costs, "-f", "csv", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote 3 products")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PIZZA A;")
}
