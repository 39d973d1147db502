package seedservice

import (
	"time"

	"godash/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleProducts devolve os produtos de demonstração gravados numa coleção vazia.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "iPhone 14 Pro",
			Description: "Apple iPhone 14 Pro 128GB Space Black - En son teknoloji ile donatılmış premium akıllı telefon",
			Price:       34999,
			Stock:       25,
			Category:    "Elektronik",
			ImageURL:    "/images/iphone14pro.jpg",
			CreatedAt:   date("2024-01-15"),
			UpdatedAt:   date("2024-01-15"),
			IsActive:    true,
		},
		{
			ID:          "2",
			Name:        "Samsung Galaxy S23",
			Description: "Samsung Galaxy S23 256GB Phantom Black - Güçlü performans ve harika kamera",
			Price:       28999,
			Stock:       18,
			Category:    "Elektronik",
			ImageURL:    "/images/galaxys23.jpg",
			CreatedAt:   date("2024-01-16"),
			UpdatedAt:   date("2024-01-16"),
			IsActive:    true,
		},
		{
			ID:          "3",
			Name:        "MacBook Air M2",
			Description: "Apple MacBook Air 13\" M2 Chip 256GB - Ultra hafif ve güçlü laptop",
			Price:       42999,
			Stock:       12,
			Category:    "Bilgisayar",
			ImageURL:    "/images/macbook-air.jpg",
			CreatedAt:   date("2024-01-17"),
			UpdatedAt:   date("2024-01-17"),
			IsActive:    true,
		},
		{
			ID:          "4",
			Name:        "Sony WH-1000XM4",
			Description: "Sony WH-1000XM4 Kablosuz Gürültü Önleyici Kulaklık - Premium ses kalitesi",
			Price:       8999,
			Stock:       35,
			Category:    "Ses & Görüntü",
			ImageURL:    "/images/sony-headphones.jpg",
			CreatedAt:   date("2024-01-18"),
			UpdatedAt:   date("2024-01-18"),
			IsActive:    true,
		},
		{
			ID:          "5",
			Name:        "iPad Pro 11\"",
			Description: "Apple iPad Pro 11\" M2 Chip 128GB - Profesyonel tablet deneyimi",
			Price:       26999,
			Stock:       8,
			Category:    "Tablet",
			ImageURL:    "/images/ipad-pro.jpg",
			CreatedAt:   date("2024-01-19"),
			UpdatedAt:   date("2024-01-19"),
			IsActive:    true,
		},
	}
}

// SampleOrders devolve os pedidos de demonstração; os itens referenciam SampleProducts.
func SampleOrders() []domain.Order {
	return []domain.Order{
		{
			ID:            "1",
			OrderNumber:   "ORD-2024-001",
			CustomerName:  "Ahmet Yılmaz",
			CustomerEmail: "ahmet@example.com",
			Items: []domain.OrderItem{
				{ProductID: "1", ProductName: "iPhone 14 Pro", Quantity: 1, Price: 34999},
			},
			TotalAmount:     34999,
			Status:          domain.StatusProcessing,
			OrderDate:       date("2024-01-20"),
			ShippingAddress: "Kadıköy, İstanbul",
			Notes:           "Hızlı teslimat talep edildi",
		},
		{
			ID:            "2",
			OrderNumber:   "ORD-2024-002",
			CustomerName:  "Fatma Demir",
			CustomerEmail: "fatma@example.com",
			Items: []domain.OrderItem{
				{ProductID: "2", ProductName: "Samsung Galaxy S23", Quantity: 1, Price: 28999},
				{ProductID: "4", ProductName: "Sony WH-1000XM4", Quantity: 1, Price: 8999},
			},
			TotalAmount:     37998,
			Status:          domain.StatusShipped,
			OrderDate:       date("2024-01-19"),
			ShippingAddress: "Çankaya, Ankara",
		},
		{
			ID:            "3",
			OrderNumber:   "ORD-2024-003",
			CustomerName:  "Mehmet Kaya",
			CustomerEmail: "mehmet@example.com",
			Items: []domain.OrderItem{
				{ProductID: "3", ProductName: "MacBook Air M2", Quantity: 1, Price: 42999},
			},
			TotalAmount:     42999,
			Status:          domain.StatusDelivered,
			OrderDate:       date("2024-01-18"),
			ShippingAddress: "Konak, İzmir",
			Notes:           "Ofis adresine teslim edilsin",
		},
		{
			ID:            "4",
			OrderNumber:   "ORD-2024-004",
			CustomerName:  "Ayşe Özkan",
			CustomerEmail: "ayse@example.com",
			Items: []domain.OrderItem{
				{ProductID: "5", ProductName: "iPad Pro 11\"", Quantity: 2, Price: 26999},
			},
			TotalAmount:     53998,
			Status:          domain.StatusPending,
			OrderDate:       date("2024-01-21"),
			ShippingAddress: "Beşiktaş, İstanbul",
			Notes:           "Hediye paketi yapılsın",
		},
	}
}

// Listas fechadas usadas pelos geradores aleatórios.
var (
	randomCategories = []string{"Elektronik", "Bilgisayar", "Tablet", "Ses & Görüntü", "Aksesuar"}
	randomNames      = []string{"Premium Ürün", "Yeni Model", "Özel Seri", "Pro Versiyon", "Standart Model"}
	randomCustomers  = []string{"Ali Veli", "Ayşe Fatma", "Mehmet Can", "Zeynep Nur", "Emre Kaan"}
	randomCities     = []string{"İstanbul", "Ankara", "İzmir", "Bursa", "Antalya"}
	randomStatuses   = []domain.OrderStatus{domain.StatusPending, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered}
)
