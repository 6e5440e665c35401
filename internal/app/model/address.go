package model

import (
	"fmt"
	"math"
)

// Category labels what kind of place a saved address is.
type Category string

const (
	CategoryHome          Category = "Home"
	CategoryOffice        Category = "Office"
	CategoryFriendsFamily Category = "Friends & Family"
)

// DefaultCategory is applied when a record is created without a category.
const DefaultCategory = CategoryHome

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryHome, CategoryOffice, CategoryFriendsFamily}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Coordinates struct {
	Lat float64 `gorm:"not null" json:"lat"` // latitude, degrees
	Lng float64 `gorm:"not null" json:"lng"` // longitude, degrees
}

// Validate rejects non-finite values and points outside WGS84 bounds.
// Zero is a valid coordinate.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lng)
	}
	return nil
}

type Address struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`                           // store-assigned
	UserID      string      `gorm:"size:100;not null;index" json:"userId"`                  // owner tag, not verified
	House       string      `gorm:"size:255" json:"house"`                                  // house / flat / block no.
	Apartment   string      `gorm:"size:255" json:"apartment"`                              // apartment / road / area
	Category    Category    `gorm:"size:32;not null" json:"category"`                       // Home, Office, Friends & Family
	Coordinates Coordinates `gorm:"embedded;embeddedPrefix:coordinates_" json:"coordinates"` // map pin
	Favorite    bool        `gorm:"not null" json:"favorite"`
}

func (Address) TableName() string {
	return "addresses"
}

// AddressPatch is a partial update. Nil fields are left untouched.
type AddressPatch struct {
	UserID      *string      `json:"userId,omitempty"`
	House       *string      `json:"house,omitempty"`
	Apartment   *string      `json:"apartment,omitempty"`
	Category    *Category    `json:"category,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Favorite    *bool        `json:"favorite,omitempty"`
}

func (p AddressPatch) IsEmpty() bool {
	return p.UserID == nil && p.House == nil && p.Apartment == nil &&
		p.Category == nil && p.Coordinates == nil && p.Favorite == nil
}

// Apply copies every present field of the patch onto a.
func (p AddressPatch) Apply(a *Address) {
	if p.UserID != nil {
		a.UserID = *p.UserID
	}
	if p.House != nil {
		a.House = *p.House
	}
	if p.Apartment != nil {
		a.Apartment = *p.Apartment
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Coordinates != nil {
		a.Coordinates = *p.Coordinates
	}
	if p.Favorite != nil {
		a.Favorite = *p.Favorite
	}
}
