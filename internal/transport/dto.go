package transport

type RegisterRequest struct {
	SellerName string `json:"seller_name"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	SKU         *string `json:"sku"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Expiry      *string `json:"expiry"`
	CategoryIDs []uint  `json:"category_ids"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Expiry      *string  `json:"expiry"`
	CategoryIDs []uint   `json:"category_ids"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Specs string `json:"specs"`
}

type RecordSaleRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}
