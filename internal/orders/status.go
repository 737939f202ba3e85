package orders

// Status mirrors estado_pedido.nombre_estadoped.
type Status string

const (
	StatusPending   Status = "PENDIENTE"
	StatusPaid      Status = "PAGADO"
	StatusShipped   Status = "ENVIADO"
	StatusDelivered Status = "ENTREGADO"
	StatusFailed    Status = "FALLIDO"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusFailed: true},
	StatusPaid:      {StatusShipped: true, StatusFailed: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusFailed:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
