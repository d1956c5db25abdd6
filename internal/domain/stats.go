package domain

// AdminStats summarises the platform for the admin dashboard.
type AdminStats struct {
	UsersCount            int64   `json:"usersCount"`
	DeliveryPersonsCount  int64   `json:"deliveryPersonsCount"`
	ParcelsCount          int64   `json:"parcelsCount"`
	DeliveredParcelsCount int64   `json:"deliveredParcelsCount"`
	TotalRevenue          float64 `json:"totalRevenue"`
}

// BookingDay counts bookings and deliveries for one calendar day.
type BookingDay struct {
	Date           string `json:"date"`
	BookedCount    int64  `json:"bookedCount"`
	DeliveredCount int64  `json:"deliveredCount"`
}
