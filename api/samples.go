/*
samples.go - Built-in demo exports for trying the API without real data

PURPOSE:

	Provides small sales and cost exports, written the way the point-of-sale
	platform writes them (Latin-1, ';' separated, quoted cost headers,
	"1.234,56" sales numbers), so the dashboard and the advisor can be
	exercised end to end.

AVAILABLE SAMPLES:

	pizzaria:    Six matched products covering all four quadrants, plus
	             rows that the join and the filters must drop
	no-overlap:  Two valid exports with no product in common
	multi-store: The same products sold in two stores, merged before the join

HOW SAMPLES WORK:
 1. Text is kept here as UTF-8 for readability
 2. On request it is encoded to Latin-1 like a real export
 3. Both exports go through the same Analyzer as uploads

USAGE VIA API:

	GET  /api/samples
	POST /api/samples/pizzaria/analyze

ADDING NEW SAMPLES:
 1. Add an entry to 'samples' with ID, name, description and expected status
 2. Write both exports as raw strings

SEE ALSO:
  - handlers.go: Shared analysis response
  - menu/schema.go: Column names the exports must carry
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/tabular"
)

// =============================================================================
// SAMPLE DEFINITIONS
// =============================================================================

type sample struct {
	SampleDTO
	sales string
	costs string
}

const salesHeader = "UNIDADE;PRODUTO DE VENDA;VENDA DE FRENTE DE LOJA;VENDA DELIVERY;RECEITA FRENTE DE LOJA;RECEITA DELIVERY\n"

const costHeader = "\"produto_principal\";\"componente\";\"valor_custo\"\n"

var samples = []sample{
	{
		SampleDTO: SampleDTO{
			ID:          "pizzaria",
			Name:        "Pizzaria",
			Description: "Six matched products across all four quadrants; unmatched and unsold rows are dropped",
			Expect:      string(menu.StatusOK),
		},
		sales: salesHeader +
			"Loja Centro;PIZZA CALABRESA;40;20;1.800,00;960,00\n" +
			"Loja Centro;PIZZA MARGUERITA;30;25;1.200,00;1.050,00\n" +
			"Loja Centro;ESFIHA DE CARNE;80;40;480,00;260,00\n" +
			"Loja Centro;SUCO DE MARACUJÁ;10;5;120,00;65,00\n" +
			"Loja Centro;PÃO DE ALHO;8;2;96,00;26,00\n" +
			"Loja Centro;PIZZA PORTUGUESA;12;6;660,00;342,00\n" +
			"Loja Centro;PIZZA DOCE;0;0;0,00;0,00\n" +
			"Loja Centro;REFRIGERANTE LATA;50;30;300,00;180,00\n",
		costs: costHeader +
			"pizza calabresa;massa;12.50\n" +
			"pizza calabresa;calabresa;3.20\n" +
			"pizza  marguerita;massa;11.00\n" +
			"pizza  marguerita;manjericão;2.00\n" +
			"esfiha + de carne;carne moída;2.10\n" +
			"suco de maracujá;polpa;3.50\n" +
			"pão de alho;pão;4.00\n" +
			"pizza portuguesa;massa;14.00\n" +
			"pizza portuguesa;presunto;4.50\n" +
			"pizza doce;chocolate;6.00\n" +
			"molho extra;tomate;0.80\n" +
			"pizza calabresa;embalagem;n/d\n",
	},
	{
		SampleDTO: SampleDTO{
			ID:          "no-overlap",
			Name:        "No overlap",
			Description: "Sales from one menu, costs from another",
			Expect:      string(menu.StatusNoOverlap),
		},
		sales: salesHeader +
			"Loja Centro;X-BURGER;20;10;400,00;220,00\n" +
			"Loja Centro;BATATA FRITA;30;15;270,00;150,00\n",
		costs: costHeader +
			"temaki salmão;salmão;9.00\n" +
			"hot roll;arroz;2.50\n",
	},
	{
		SampleDTO: SampleDTO{
			ID:          "multi-store",
			Name:        "Multi-store",
			Description: "Two stores report the same products; lines are merged before classification",
			Expect:      string(menu.StatusOK),
		},
		sales: salesHeader +
			"Loja Centro;BISNAGA GARLIC;10;4;150,00;64,00\n" +
			"Loja Norte;BISNAGA GARLIC;6;0;90,00;0,00\n" +
			"Loja Centro;CHOPP 300ML;25;0;250,00;0,00\n" +
			"Loja Norte;CHOPP 300ML;15;0;150,00;0,00\n",
		costs: costHeader +
			"bisnaga garlic;pão;3.00\n" +
			"bisnaga garlic;manteiga de alho;1.50\n" +
			"chopp 300ml;chopp;3.20\n",
	},
}

func findSample(id string) (sample, bool) {
	for _, s := range samples {
		if s.ID == id {
			return s, true
		}
	}
	return sample{}, false
}

// exports returns both exports encoded as the platform writes them.
func (s sample) exports() (sales, costs []byte, err error) {
	sales, err = tabular.EncodeLatin1(s.sales)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %s sales: %w", s.ID, err)
	}
	costs, err = tabular.EncodeLatin1(s.costs)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %s costs: %w", s.ID, err)
	}
	return sales, costs, nil
}

// =============================================================================
// SAMPLE HANDLERS
// =============================================================================

// ListSamples returns the available samples.
// GET /api/samples
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	dtos := make([]SampleDTO, len(samples))
	for i, s := range samples {
		dtos[i] = s.SampleDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AnalyzeSample classifies a built-in sample.
// POST /api/samples/{id}/analyze
func (h *Handler) AnalyzeSample(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := findSample(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Sample not found", fmt.Errorf("unknown sample %q", id))
		return
	}

	sales, costs, err := s.exports()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load sample", err)
		return
	}

	h.logger.Info("analyzing sample", "sample", s.ID)
	writeAnalysis(w, h.Analyzer.Analyze(sales, costs))
}
