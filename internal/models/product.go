package models

// Product is the client-side copy of a catalog entry. The canonical record
// lives server-side; the JSON tags follow the store API's wire names.
type Product struct {
	ID            int     `json:"id_produto"`
	Name          string  `json:"nome"`
	Description   string  `json:"descricao"`
	Price         float64 `json:"preco"`
	StockQuantity int     `json:"quantidade_estoque"`
	Category      string  `json:"categoria"`
	MadeInMari    bool    `json:"fabricado_em_mari"`
	ImageURL      string  `json:"imagem"`
}

// StockReport mirrors GET /api/produtos/relatorio.
type StockReport struct {
	DistinctProducts int     `json:"total_de_produtos_distintos"`
	TotalStockValue  float64 `json:"valor_total_do_estoque"`
}

// ProductDraft is the scratch copy edited in the product form. It is never
// the cached Product itself; saving dispatches create (ID zero) or update.
type ProductDraft struct {
	Product

	// ImageFile is a local file selected for upload. When set, the upload
	// step runs before create/update and its returned path replaces ImageURL.
	ImageFile string
}

func (d *ProductDraft) IsNew() bool {
	return d.ID == 0
}
