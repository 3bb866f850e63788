package menu_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/tabular"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// latin1 encodes text the way the point-of-sale platform writes it.
func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := tabular.EncodeLatin1(s)
	require.NoError(t, err)
	return b
}

type costLine struct {
	product string
	cost    string
}

func costExport(t *testing.T, lines ...costLine) []byte {
	t.Helper()
	var b strings.Builder
	b.WriteString("\"produto_principal\";\"componente\";\"valor_custo\"\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "%s;item %d;%s\n", l.product, i, l.cost)
	}
	return latin1(t, b.String())
}

type salesLine struct {
	product                       string
	store, delivery               string
	storeRevenue, deliveryRevenue string
}

func salesExport(t *testing.T, lines ...salesLine) []byte {
	t.Helper()
	var b strings.Builder
	b.WriteString("UNIDADE;PRODUTO DE VENDA;VENDA DE FRENTE DE LOJA;VENDA DELIVERY;RECEITA FRENTE DE LOJA;RECEITA DELIVERY\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "Loja Centro;%s;%s;%s;%s;%s\n", l.product, l.store, l.delivery, l.storeRevenue, l.deliveryRevenue)
	}
	return latin1(t, b.String())
}

func sale(name string, popularity, price string) menu.SalesRow {
	pop := dec(popularity)
	return menu.NewSalesRow(name, pop, decimal.Zero, pop.Mul(dec(price)), decimal.Zero)
}

func cost(name, amount string) menu.CostRow {
	return menu.CostRow{ProductName: name, ProductionCost: dec(amount)}
}

func itemByName(t *testing.T, items []menu.MenuItem, name string) menu.MenuItem {
	t.Helper()
	for _, it := range items {
		if it.ProductName == name {
			return it
		}
	}
	t.Fatalf("item %q not found", name)
	return menu.MenuItem{}
}
