package booking

// CreateBookingRequest is the payload for booking a package. The package
// id travels in the path; the buyer must be the authenticated caller.
// TotalPrice is taken as supplied and split as-is; it is not recomputed
// from the package price.
type CreateBookingRequest struct {
	BuyerID    int64   `json:"buyer_id" binding:"required"`
	Date       string  `json:"date" binding:"required"` // ISO date, e.g. 2026-03-14
	Persons    int     `json:"persons" binding:"required,gte=1"`
	TotalPrice float64 `json:"total_price" binding:"gte=0"`
}
