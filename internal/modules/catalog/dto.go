package catalog

// PackageRequest is the admin payload for creating or updating a package.
type PackageRequest struct {
	Name                 string   `json:"name" binding:"required"`
	Description          string   `json:"description" binding:"required"`
	Destination          string   `json:"destination" binding:"required"`
	Days                 int      `json:"days" binding:"required,gte=1"`
	Nights               int      `json:"nights" binding:"gte=0"`
	Accommodation        string   `json:"accommodation"`
	Transportation       string   `json:"transportation"`
	Meals                string   `json:"meals"`
	Activities           string   `json:"activities"`
	Price                float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice        float64  `json:"discount_price" binding:"gte=0"`
	Offer                bool     `json:"offer"`
	GuideName            string   `json:"guide_name"`
	PartnerVillage       string   `json:"partner_village"`
	HomestayType         string   `json:"homestay_type"`
	GovernmentListed     bool     `json:"government_listed"`
	SupportsLocalEconomy *bool    `json:"supports_local_economy"`
	EcoRating            int      `json:"eco_rating" binding:"omitempty,gte=1,lte=5"`
	CulturalTags         []string `json:"cultural_tags"`
	Images               []string `json:"images"`
}

// ListPackagesQuery carries the public search filters.
type ListPackagesQuery struct {
	Search    string `form:"searchTerm"`
	OfferOnly bool   `form:"offer"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,gte=1,lte=100"`
	Offset    int    `form:"offset" binding:"omitempty,gte=0"`
}
