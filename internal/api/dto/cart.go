package dto

type AddItemRequest struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	ImageURL     string `json:"image_url"`
	VendorID     string `json:"vendor_id"`
	VendorName   string `json:"vendor_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type AddItemResponse struct {
	Added          bool          `json:"added"`
	ConflictVendor string        `json:"conflict_vendor,omitempty"`
	Message        string        `json:"message,omitempty"`
	Cart           *CartResponse `json:"cart,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type LineItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	LineTotal int64  `json:"line_total"`
}

type CartResponse struct {
	CategoryID     string             `json:"category_id"`
	CategoryName   string             `json:"category_name"`
	VendorID       string             `json:"vendor_id"`
	VendorName     string             `json:"vendor_name"`
	Items          []LineItemResponse `json:"items"`
	TotalItems     int                `json:"total_items"`
	Subtotal       int64              `json:"subtotal"`
	MinOrderAmount int64              `json:"min_order_amount"`
	MeetsMinimum   bool               `json:"meets_minimum"`
}

type ListCartsResponse struct {
	Carts      []CartResponse `json:"carts"`
	TotalItems int            `json:"total_items"`
}
