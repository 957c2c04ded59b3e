package dto

import "time"

type PrepareCheckoutRequest struct {
	CategoryID string  `json:"category_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type CheckoutResponse struct {
	RequestID   string             `json:"request_id"`
	CategoryID  string             `json:"category_id"`
	VendorID    string             `json:"vendor_id"`
	VendorName  string             `json:"vendor_name"`
	Items       []LineItemResponse `json:"items"`
	Subtotal    int64              `json:"subtotal"`
	DeliveryFee int64              `json:"delivery_fee"`
	Total       int64              `json:"total"`
	DistanceKm  float64            `json:"distance_km"`
	CreatedAt   time.Time          `json:"created_at"`
}

type CustomerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
}

type CommitCheckoutRequest struct {
	RequestID string      `json:"request_id"`
	Customer  CustomerDTO `json:"customer"`
}

type CommitCheckoutResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
