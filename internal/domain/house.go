package domain

import (
	"context"
	"slices"
)

// House type vocabulary. Stored as plain strings so that legacy rows with
// values outside the list still load; clients fall back to the raw value.
const (
	HouseTypeNamas     = "namas"
	HouseTypeButas     = "butas"
	HouseTypeVila      = "vila"
	HouseTypeKotedzas  = "kotedžas"
	HouseTypeDupleksas = "dupleksas"
	HouseTypeKita      = "kita"
)

// Listing status vocabulary.
const (
	StatusParduodamas = "parduodamas"
	StatusRezervuotas = "rezervuotas"
	StatusParduotas   = "parduotas"
)

// HouseTypes lists the recognized house type values.
var HouseTypes = []string{
	HouseTypeNamas, HouseTypeButas, HouseTypeVila,
	HouseTypeKotedzas, HouseTypeDupleksas, HouseTypeKita,
}

// Statuses lists the recognized listing status values.
var Statuses = []string{StatusParduodamas, StatusRezervuotas, StatusParduotas}

// ValidHouseType reports whether t is one of the recognized house types.
func ValidHouseType(t string) bool {
	return slices.Contains(HouseTypes, t)
}

// ValidStatus reports whether s is one of the recognized listing statuses.
func ValidStatus(s string) bool {
	return slices.Contains(Statuses, s)
}

// House represents one property listing.
//
// Optional numeric fields are pointers: a nil value means the admin never
// supplied it, which is distinct from zero.
type House struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Address     string       `gorm:"size:255" json:"address"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Area        *int         `json:"area"`
	Rooms       *int         `json:"rooms"`
	Bedrooms    *int         `json:"bedrooms"`
	Bathrooms   *int         `json:"bathrooms"`
	Floor       *int         `json:"floor"`
	TotalFloors *int         `gorm:"column:total_floors" json:"totalFloors"`
	YearBuilt   *int         `gorm:"column:year_built" json:"yearBuilt"`
	HouseType   string       `gorm:"column:house_type;size:50;default:namas" json:"houseType"`
	Status      string       `gorm:"size:50;not null;default:parduodamas" json:"status"`
	Description string       `gorm:"type:text" json:"description"`
	SortOrder   int          `gorm:"column:sort_order;default:0" json:"sortOrder"`
	IsFeatured  bool         `gorm:"column:is_featured" json:"isFeatured"`
	IsActive    bool         `gorm:"column:is_active;default:true" json:"isActive"`
	Images      []HouseImage `gorm:"foreignKey:HouseID" json:"images"`
}

// TableName keeps the table name compatible with the legacy schema.
func (House) TableName() string { return "houses" }

// HouseImage represents one photo attached to a House. A House exclusively
// owns its images: soft-deleting the house deactivates them, while individual
// images are removed permanently together with the stored file.
type HouseImage struct {
	BaseModel
	HouseID   uint   `gorm:"column:house_id;not null;index" json:"houseId"`
	ImageURL  string `gorm:"column:image_url;size:255;not null" json:"imageUrl"`
	Caption   string `gorm:"size:255" json:"caption"`
	ImageType string `gorm:"column:image_type;size:50;default:kita" json:"imageType"`
	SortOrder int    `gorm:"column:sort_order;default:0" json:"sortOrder"`
	IsActive  bool   `gorm:"column:is_active;default:true" json:"isActive"`
}

// TableName keeps the table name compatible with the legacy schema.
func (HouseImage) TableName() string { return "house_images" }

// HouseRepository defines the data access interface for listings.
type HouseRepository interface {
	// ListActive returns active houses with their active images,
	// houses ordered by (sort_order asc, created_at desc), images by sort_order asc.
	ListActive(ctx context.Context) ([]House, error)
	// ListAll returns every house including inactive ones, with all images.
	ListAll(ctx context.Context) ([]House, error)
	// GetByID returns a house (active or not) with its active images.
	GetByID(ctx context.Context, id uint) (*House, error)
	// Create inserts a house together with any attached images atomically.
	Create(ctx context.Context, house *House) error
	// Update persists house field changes and appends the given new images
	// in a single transaction.
	Update(ctx context.Context, house *House, newImages []HouseImage) error
	// SoftDelete flips is_active to false on the house and all its images
	// atomically. Deleting an already-inactive house still succeeds.
	SoftDelete(ctx context.Context, id uint) error
	// MaxActiveImageSortOrder returns the highest sort_order among the
	// house's active images, or -1 when it has none.
	MaxActiveImageSortOrder(ctx context.Context, houseID uint) (int, error)
	// GetImage returns the image only when it belongs to the given house.
	GetImage(ctx context.Context, houseID, imageID uint) (*HouseImage, error)
	// DeleteImage permanently removes one image row.
	DeleteImage(ctx context.Context, houseID, imageID uint) error
}
