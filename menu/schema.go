package menu

import "github.com/warp/menu-engine/tabular"

// Canonical field names. Header spellings live in the schemas below; the
// normalizers only ever refer to these.
const (
	FieldProductName = "product_name"

	FieldComponentCost = "component_cost"

	FieldStoreSalesCount    = "store_sales_count"
	FieldDeliverySalesCount = "delivery_sales_count"
	FieldStoreRevenue       = "store_revenue"
	FieldDeliveryRevenue    = "delivery_revenue"
)

// CostSchema is the bill-of-materials export layout.
func CostSchema() tabular.Schema {
	return tabular.Schema{
		Name: "costs",
		Fields: []tabular.Field{
			{Name: FieldProductName, Aliases: []string{"produto_principal", "produto principal", "produto_nome"}, Required: true},
			{Name: FieldComponentCost, Aliases: []string{"valor_custo", "valor custo"}, Required: true},
		},
	}
}

// SalesSchema is the sales-by-product export layout. Multi-location exports
// carry a UNIDADE column; all locations collapse into one logical unit.
func SalesSchema() tabular.Schema {
	return tabular.Schema{
		Name: "sales",
		Fields: []tabular.Field{
			{Name: FieldProductName, Aliases: []string{"PRODUTO DE VENDA"}, Required: true},
			{Name: FieldStoreSalesCount, Aliases: []string{"VENDA DE FRENTE DE LOJA"}, Required: true},
			{Name: FieldDeliverySalesCount, Aliases: []string{"VENDA DELIVERY"}, Required: true},
			{Name: FieldStoreRevenue, Aliases: []string{"RECEITA FRENTE DE LOJA"}, Required: true},
			{Name: FieldDeliveryRevenue, Aliases: []string{"RECEITA DELIVERY"}, Required: true},
		},
		Ignore: []string{"UNIDADE"},
	}
}

// RequiredFields lists the canonical fields a schema of the given kind must
// declare for the normalizer to work.
func RequiredFields(kind string) []string {
	switch kind {
	case "costs":
		return []string{FieldProductName, FieldComponentCost}
	case "sales":
		return []string{FieldProductName, FieldStoreSalesCount, FieldDeliverySalesCount, FieldStoreRevenue, FieldDeliveryRevenue}
	default:
		return nil
	}
}
