package domain

import "time"

// OrderStatus é o estado do ciclo de vida de um pedido.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// StatusAll é o valor sentinela de filtro que significa "sem filtro de status".
const StatusAll OrderStatus = "all"

// OrderStatuses lista os estados válidos, na ordem do fluxo.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// StatusLabels são os rótulos exibidos pelo painel (locale fixo tr-TR).
var StatusLabels = map[OrderStatus]string{
	StatusPending:    "Beklemede",
	StatusProcessing: "Hazırlanıyor",
	StatusShipped:    "Kargoda",
	StatusDelivered:  "Teslim Edildi",
	StatusCancelled:  "İptal Edildi",
}

// Valid informa se o status é um dos cinco estados reais (o sentinela "all" não é).
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Active informa se o pedido ainda está em andamento.
func (s OrderStatus) Active() bool {
	return s == StatusPending || s == StatusProcessing || s == StatusShipped
}

// OrderItem é um snapshot do produto no momento do pedido, não uma referência viva.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order representa um pedido de cliente.
// TotalAmount deve ser a soma de Price*Quantity dos itens; quem cria o pedido garante isso.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	OrderDate       time.Time   `json:"orderDate"`
	ShippingAddress string      `json:"shippingAddress"`
	Notes           string      `json:"notes,omitempty"`
}

// Units soma as quantidades de todos os itens do pedido.
func (o Order) Units() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ItemsTotal calcula a soma de Price*Quantity dos itens.
func (o Order) ItemsTotal() float64 {
	total := 0.0
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// OrderStatusUpdate é o payload de troca de status.
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}
