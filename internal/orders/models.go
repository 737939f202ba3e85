package orders

import "time"

// Order is the pedido header. Status transitions happen through
// Repo.UpdateStatus, never by editing the row directly.
type Order struct {
	ID         int64     `json:"pedido_id"`
	CustomerID int64     `json:"cliente_id"`
	Status     Status    `json:"estado"`
	CreatedAt  time.Time `json:"fecha_pedido"`
}

// Line is one product entry of an order. UnitPrice is the price agreed
// at placement time, kept verbatim even if the catalog price changes later.
type Line struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int   `json:"cantidad"`
	UnitPrice int64 `json:"precio_unitario"`
}
