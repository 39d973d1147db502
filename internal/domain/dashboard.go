package domain

import "time"

// DashboardStats agrega os contadores do painel.
type DashboardStats struct {
	TotalProducts    int     `json:"totalProducts"`
	ActiveOrders     int     `json:"activeOrders"`
	DailySales       float64 `json:"dailySales"`
	TotalRevenue     float64 `json:"totalRevenue"`
	LowStockProducts int     `json:"lowStockProducts"`
	PendingOrders    int     `json:"pendingOrders"`
}

// SalesData é um ponto da série diária de vendas.
type SalesData struct {
	Date    string  `json:"date"` // 2006-01-02, dia local
	Sales   int     `json:"sales"` // unidades vendidas
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopProduct é um produto ranqueado por unidades vendidas.
type TopProduct struct {
	Product   Product `json:"product"`
	UnitsSold int     `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// DashboardData é tudo que a página inicial do painel precisa.
type DashboardData struct {
	Stats        DashboardStats `json:"stats"`
	SalesChart   []SalesData    `json:"salesChart"`
	RecentOrders []Order        `json:"recentOrders"`
	TopProducts  []TopProduct   `json:"topProducts"`
}

// SalesRange é a janela nomeada da série de vendas.
type SalesRange string

const (
	RangeDaily   SalesRange = "daily"
	RangeWeekly  SalesRange = "weekly"
	RangeMonthly SalesRange = "monthly"
)

// Days traduz a janela em número de dias; valores desconhecidos valem uma semana.
func (r SalesRange) Days() int {
	switch r {
	case RangeDaily:
		return 1
	case RangeMonthly:
		return 30
	default:
		return 7
	}
}

// Backup é o documento de exportação do estado persistido.
type Backup struct {
	Products   []Product `json:"products"`
	Orders     []Order   `json:"orders"`
	ExportDate time.Time `json:"exportDate"`
}

// ImportSummary informa o que um import substituiu.
type ImportSummary struct {
	ProductsImported *int `json:"productsImported,omitempty"`
	OrdersImported   *int `json:"ordersImported,omitempty"`
}
