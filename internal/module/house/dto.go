package house

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/eimonte/estate/internal/domain"
)

// Multipart field names accepted by create/update submissions. Keys outside
// this list are ignored, so a client can never smuggle unintended columns
// through the form body.
const (
	fieldTitle       = "title"
	fieldAddress     = "address"
	fieldPrice       = "price"
	fieldArea        = "area"
	fieldRooms       = "rooms"
	fieldBedrooms    = "bedrooms"
	fieldBathrooms   = "bathrooms"
	fieldFloor       = "floor"
	fieldTotalFloors = "totalFloors"
	fieldYearBuilt   = "yearBuilt"
	fieldHouseType   = "houseType"
	fieldStatus      = "status"
	fieldDescription = "description"
	fieldSortOrder   = "sortOrder"
	fieldIsFeatured  = "isFeatured"
)

// HouseForm is the typed representation of a listing submission. Every field
// is optional; presence is tracked separately so that partial updates can
// distinguish "not sent" (preserve) from "sent empty" (null per the coercion
// rules).
type HouseForm struct {
	Title       *string
	Address     *string
	Price       *float64
	Area        *int
	Rooms       *int
	Bedrooms    *int
	Bathrooms   *int
	Floor       *int
	TotalFloors *int
	YearBuilt   *int
	HouseType   *string
	Status      *string
	Description *string
	SortOrder   *int
	IsFeatured  *bool

	present map[string]bool
}

// Has reports whether the named field appeared in the submission.
func (f *HouseForm) Has(field string) bool {
	return f.present[field]
}

// ParseHouseForm builds a HouseForm from multipart form values. Only
// allow-listed keys are read. Numeric fields are coerced from their string
// form; an unparseable or empty optional numeric stays nil (null).
func ParseHouseForm(values url.Values) *HouseForm {
	f := &HouseForm{present: make(map[string]bool)}

	f.Title = f.stringField(values, fieldTitle)
	f.Address = f.stringField(values, fieldAddress)
	f.HouseType = f.stringField(values, fieldHouseType)
	f.Status = f.stringField(values, fieldStatus)
	f.Description = f.stringField(values, fieldDescription)

	f.Price = f.floatField(values, fieldPrice)
	f.Area = f.intField(values, fieldArea)
	f.Rooms = f.intField(values, fieldRooms)
	f.Bedrooms = f.intField(values, fieldBedrooms)
	f.Bathrooms = f.intField(values, fieldBathrooms)
	f.Floor = f.intField(values, fieldFloor)
	f.TotalFloors = f.intField(values, fieldTotalFloors)
	f.YearBuilt = f.intField(values, fieldYearBuilt)
	f.SortOrder = f.intField(values, fieldSortOrder)

	if values.Has(fieldIsFeatured) {
		f.present[fieldIsFeatured] = true
		v := cast.ToBool(values.Get(fieldIsFeatured))
		f.IsFeatured = &v
	}

	return f
}

func (f *HouseForm) stringField(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	f.present[key] = true
	v := values.Get(key)
	return &v
}

func (f *HouseForm) intField(values url.Values, key string) *int {
	if !values.Has(key) {
		return nil
	}
	f.present[key] = true
	n, err := cast.ToIntE(strings.TrimSpace(values.Get(key)))
	if err != nil {
		return nil
	}
	return &n
}

func (f *HouseForm) floatField(values url.Values, key string) *float64 {
	if !values.Has(key) {
		return nil
	}
	f.present[key] = true
	v, err := cast.ToFloat64E(strings.TrimSpace(values.Get(key)))
	if err != nil {
		return nil
	}
	return &v
}

// Apply copies every present field onto the house. Absent fields keep the
// house's current values; present-but-unparseable numerics become null.
// Images are never touched here.
func (f *HouseForm) Apply(h *domain.House) {
	if f.Has(fieldTitle) && f.Title != nil {
		h.Title = strings.TrimSpace(*f.Title)
	}
	if f.Has(fieldAddress) && f.Address != nil {
		h.Address = strings.TrimSpace(*f.Address)
	}
	if f.Has(fieldPrice) && f.Price != nil {
		h.Price = *f.Price
	}
	if f.Has(fieldArea) {
		h.Area = f.Area
	}
	if f.Has(fieldRooms) {
		h.Rooms = f.Rooms
	}
	if f.Has(fieldBedrooms) {
		h.Bedrooms = f.Bedrooms
	}
	if f.Has(fieldBathrooms) {
		h.Bathrooms = f.Bathrooms
	}
	if f.Has(fieldFloor) {
		h.Floor = f.Floor
	}
	if f.Has(fieldTotalFloors) {
		h.TotalFloors = f.TotalFloors
	}
	if f.Has(fieldYearBuilt) {
		h.YearBuilt = f.YearBuilt
	}
	if f.Has(fieldHouseType) && f.HouseType != nil && strings.TrimSpace(*f.HouseType) != "" {
		h.HouseType = strings.TrimSpace(*f.HouseType)
	}
	if f.Has(fieldStatus) && f.Status != nil && strings.TrimSpace(*f.Status) != "" {
		h.Status = strings.TrimSpace(*f.Status)
	}
	if f.Has(fieldDescription) && f.Description != nil {
		h.Description = *f.Description
	}
	if f.Has(fieldSortOrder) && f.SortOrder != nil {
		h.SortOrder = *f.SortOrder
	}
	if f.Has(fieldIsFeatured) && f.IsFeatured != nil {
		h.IsFeatured = *f.IsFeatured
	}
}
