package menu_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/menu-engine/menu"
)

// =============================================================================
// JOIN
// =============================================================================

func TestClassify_SingleProductIsStar(t *testing.T) {
	// GIVEN: PIZZA A sold 15 at 15.00 and costs 4.50 to make
	sales := []menu.SalesRow{sale("PIZZA A", "15", "15.00")}
	costs := []menu.CostRow{cost("PIZZA A", "4.50")}

	// WHEN: Classifying
	m := menu.Classify(sales, costs, menu.DefaultOptions())

	// THEN: It equals both means and the high side is inclusive
	require.Equal(t, menu.StatusOK, m.Status)
	require.Len(t, m.Items, 1)
	it := m.Items[0]
	assert.True(t, it.Profitability.Equal(dec("10.50")))
	assert.True(t, m.PopularityMean.Equal(dec("15")))
	assert.True(t, m.ProfitabilityMean.Equal(dec("10.50")))
	assert.Equal(t, menu.Star, it.Classification)
}

func TestClassify_InnerJoinDropsUnmatched(t *testing.T) {
	sales := []menu.SalesRow{
		sale("PIZZA A", "10", "20"),
		sale("ONLY SOLD", "10", "20"),
	}
	costs := []menu.CostRow{
		cost("PIZZA A", "5"),
		cost("ONLY COSTED", "5"),
	}

	m := menu.Classify(sales, costs, menu.DefaultOptions())

	require.Len(t, m.Items, 1)
	assert.Equal(t, "PIZZA A", m.Items[0].ProductName)
	assert.Equal(t, 1, m.Joined)
}

func TestClassify_NoOverlap(t *testing.T) {
	m := menu.Classify(
		[]menu.SalesRow{sale("A", "1", "1")},
		[]menu.CostRow{cost("B", "1")},
		menu.DefaultOptions(),
	)

	assert.Equal(t, menu.StatusNoOverlap, m.Status)
	assert.Empty(t, m.Items)
	assert.True(t, errors.Is(m.Err(), menu.ErrNoOverlap))
}

func TestClassify_ZeroPopularityIsUnclassifiable(t *testing.T) {
	m := menu.Classify(
		[]menu.SalesRow{sale("A", "0", "0")},
		[]menu.CostRow{cost("A", "1")},
		menu.DefaultOptions(),
	)

	assert.Equal(t, menu.StatusUnclassifiable, m.Status)
	assert.Equal(t, 1, m.Joined)
	assert.True(t, errors.Is(m.Err(), menu.ErrUnclassifiable))
}

// =============================================================================
// QUADRANTS
// =============================================================================

func quadrantFixture() ([]menu.SalesRow, []menu.CostRow) {
	// popularity mean = (30+30+10+10)/4 = 20
	// profitability mean = (15+5+15+5)/4 = 10
	sales := []menu.SalesRow{
		sale("STAR", "30", "20"),
		sale("WORKHORSE", "30", "10"),
		sale("PUZZLE", "10", "20"),
		sale("DOG", "10", "10"),
	}
	costs := []menu.CostRow{
		cost("STAR", "5"),
		cost("WORKHORSE", "5"),
		cost("PUZZLE", "5"),
		cost("DOG", "5"),
	}
	return sales, costs
}

func TestClassify_FourQuadrants(t *testing.T) {
	sales, costs := quadrantFixture()

	m := menu.Classify(sales, costs, menu.DefaultOptions())

	require.Equal(t, menu.StatusOK, m.Status)
	assert.True(t, m.PopularityMean.Equal(dec("20")))
	assert.True(t, m.ProfitabilityMean.Equal(dec("10")))
	for _, it := range m.Items {
		assert.Equal(t, menu.Classification(strings.ToLower(it.ProductName)), it.Classification, it.ProductName)
	}
	assert.Equal(t, map[menu.Classification]int{
		menu.Star: 1, menu.Workhorse: 1, menu.Puzzle: 1, menu.Dog: 1,
	}, m.Counts())
}

func TestClassify_PreservesSalesOrder(t *testing.T) {
	sales, costs := quadrantFixture()

	m := menu.Classify(sales, costs, menu.DefaultOptions())

	var names []string
	for _, it := range m.Items {
		names = append(names, it.ProductName)
	}
	assert.Equal(t, []string{"STAR", "WORKHORSE", "PUZZLE", "DOG"}, names)
}

func TestClassify_FilteredRowsDoNotMoveMeans(t *testing.T) {
	// GIVEN: Two classifiable items plus one with zero sales
	base := []menu.SalesRow{sale("A", "10", "10"), sale("B", "20", "20")}
	costs := []menu.CostRow{cost("A", "1"), cost("B", "1"), cost("Z", "1")}

	withZero := append(append([]menu.SalesRow{}, base...), sale("Z", "0", "0"))
	withZeroRevenue := append(append([]menu.SalesRow{}, base...),
		menu.NewSalesRow("Z", dec("0"), dec("0"), dec("999"), dec("999")))

	// WHEN: The filtered-out row's values change
	m1 := menu.Classify(withZero, costs, menu.DefaultOptions())
	m2 := menu.Classify(withZeroRevenue, costs, menu.DefaultOptions())

	// THEN: Means are identical and only computed over A and B
	assert.True(t, m1.PopularityMean.Equal(m2.PopularityMean))
	assert.True(t, m1.ProfitabilityMean.Equal(m2.ProfitabilityMean))
	assert.True(t, m1.PopularityMean.Equal(dec("15")))
	assert.Len(t, m1.Items, 2)
}

func TestClassify_NegativeProfitabilityOption(t *testing.T) {
	sales := []menu.SalesRow{
		sale("GOOD", "10", "20"),
		sale("LOSS", "30", "4"),
	}
	costs := []menu.CostRow{cost("GOOD", "5"), cost("LOSS", "5")}

	t.Run("kept by default", func(t *testing.T) {
		m := menu.Classify(sales, costs, menu.DefaultOptions())

		require.Len(t, m.Items, 2)
		loss := itemByName(t, m.Items, "LOSS")
		assert.True(t, loss.Profitability.Equal(dec("-1")))
		assert.Equal(t, menu.Workhorse, loss.Classification)
		// (15 + -1) / 2
		assert.True(t, m.ProfitabilityMean.Equal(dec("7")))
	})

	t.Run("excluded before means", func(t *testing.T) {
		opts := menu.DefaultOptions()
		opts.ExcludeNegativeProfitability = true

		m := menu.Classify(sales, costs, opts)

		require.Len(t, m.Items, 1)
		assert.Equal(t, "GOOD", m.Items[0].ProductName)
		assert.True(t, m.ProfitabilityMean.Equal(dec("15")))
		assert.True(t, m.PopularityMean.Equal(dec("10")))
	})

	t.Run("everything negative is unclassifiable", func(t *testing.T) {
		opts := menu.Options{ExcludeNegativeProfitability: true}

		m := menu.Classify(sales[1:], costs, opts)

		assert.Equal(t, menu.StatusUnclassifiable, m.Status)
	})
}

func TestClassify_EveryItemGetsExactlyOneQuadrant(t *testing.T) {
	sales := []menu.SalesRow{
		sale("A", "1", "3"), sale("B", "7", "9"), sale("C", "4", "4"),
		sale("D", "4", "12"), sale("E", "9", "2"),
	}
	costs := []menu.CostRow{
		cost("A", "1"), cost("B", "2"), cost("C", "3"), cost("D", "4"), cost("E", "5"),
	}

	m := menu.Classify(sales, costs, menu.DefaultOptions())

	total := 0
	for _, n := range m.Counts() {
		total += n
	}
	assert.Equal(t, len(m.Items), total)
	for _, it := range m.Items {
		assert.Contains(t, menu.Classifications(), it.Classification)
	}
}

// =============================================================================
// ORDERING AND EXCERPT
// =============================================================================

func TestSortBy(t *testing.T) {
	sales, costs := quadrantFixture()
	m := menu.Classify(sales, costs, menu.DefaultOptions())

	byPop := menu.SortBy(m.Items, menu.ByPopularity)
	assert.Equal(t, "STAR", byPop[0].ProductName)
	assert.Equal(t, "WORKHORSE", byPop[1].ProductName)

	byName := menu.SortBy(m.Items, menu.ByName)
	assert.Equal(t, "DOG", byName[0].ProductName)

	assert.Equal(t, "STAR", m.Items[0].ProductName, "input slice must not be reordered")
}

func TestExcerpt_TopNByBothRankingsDeduplicated(t *testing.T) {
	sales, costs := quadrantFixture()
	m := menu.Classify(sales, costs, menu.DefaultOptions())

	got := menu.Excerpt(m.Items, 1)

	// top profitability: STAR (first of the 15-margin tie); top popularity: STAR again
	require.Len(t, got, 1)
	assert.Equal(t, "STAR", got[0].ProductName)

	got = menu.Excerpt(m.Items, 2)
	var names []string
	for _, it := range got {
		names = append(names, it.ProductName)
	}
	assert.Equal(t, []string{"STAR", "PUZZLE", "WORKHORSE"}, names)
}

func TestWriteDelimited(t *testing.T) {
	m := menu.Classify(
		[]menu.SalesRow{sale("PIZZA A", "15", "15.00")},
		[]menu.CostRow{cost("PIZZA A", "4.50")},
		menu.DefaultOptions(),
	)

	var b strings.Builder
	require.NoError(t, menu.WriteDelimited(&b, m.Items))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "product_name;popularity;sale_price;production_cost;revenue_total;profitability;classification", lines[0])
	assert.Equal(t, "PIZZA A;15;15;4,5;225;10,5;Estrela", lines[1])
}
