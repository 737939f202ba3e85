package catalog

type Product struct {
	ID       int64   `json:"id_prod"`
	Name     string  `json:"nombre_prod"`
	Price    int64   `json:"precio_prod"`
	Stock    int     `json:"stock_prod"`
	TypeID   int64   `json:"id_tipoprod"`
	TypeName *string `json:"tipo_producto,omitempty"`
	ImageURL *string `json:"imagen_url"`
	Featured bool    `json:"destacado_prod"`
}

type ProductType struct {
	ID   int64  `json:"id_tipoprod"`
	Name string `json:"nombre_tipoprod"`
}

// ProductInput is the create/update body for producto rows.
type ProductInput struct {
	Name     string  `json:"nombre_prod"`
	Price    int64   `json:"precio_prod"`
	Stock    int     `json:"stock_prod"`
	TypeID   int64   `json:"id_tipoprod"`
	ImageURL *string `json:"imagen_url"`
	Featured bool    `json:"destacado_prod"`
}
