package models

type DashboardStats struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	TotalProducts     int     `json:"totalProducts"`
	TotalCustomers    int     `json:"totalCustomers"`
	RevenueChange     float64 `json:"revenueChange"`
	OrdersChange      float64 `json:"ordersChange"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	ConversionRate    float64 `json:"conversionRate"`
}

type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CategoryShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type TopProduct struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
