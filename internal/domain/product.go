package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Availability values for a product locale.
const (
	AvailabilityInStock    = "InStock"
	AvailabilityOutOfStock = "OutOfStock"
	AvailabilityPreOrder   = "PreOrder"
	AvailabilityBackOrder  = "BackOrder"
)

// StringList is a []string stored as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported StringList column type %T", value)
	}
}

// Product is one catalog item. Language-specific content lives in
// ProductLocale rows; Product itself carries only language-neutral fields.
type Product struct {
	ID        int64           `gorm:"primaryKey" json:"id,string"`
	Category  string          `gorm:"index;size:64" json:"category"`
	Tags      StringList      `gorm:"type:text" json:"tags"`
	SortOrder int             `json:"sort_order"`
	Locales   []ProductLocale `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"locales,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

// ProductLocale is one language's rendering of a product. A product has at
// most one row per locale, and a slug is unique within its locale. Both
// constraints are enforced by unique indexes so concurrent creation races
// surface as duplicate-key conflicts instead of duplicate rows.
type ProductLocale struct {
	ID              int64          `gorm:"primaryKey" json:"id,string"`
	ProductID       int64          `gorm:"uniqueIndex:idx_product_locale" json:"product_id,string"`
	Locale          string         `gorm:"uniqueIndex:idx_product_locale;uniqueIndex:idx_locale_slug;size:8" json:"locale"`
	Slug            string         `gorm:"uniqueIndex:idx_locale_slug;size:255" json:"slug"`
	Name            string         `gorm:"size:255" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Dimensions      string         `gorm:"size:255" json:"dimensions"`
	Materials       string         `gorm:"size:255" json:"materials"`
	Specifications  StringList     `gorm:"type:text" json:"specifications"`
	Sku             string         `gorm:"size:64" json:"sku"`
	Gtin            string         `gorm:"size:32" json:"gtin"`
	Availability    string         `gorm:"size:16" json:"availability"`
	PriceMin        float64        `json:"price_min"`
	PriceMax        float64        `json:"price_max"`
	PriceCurrency   string         `gorm:"size:8" json:"price_currency"`
	AmazonURL       string         `gorm:"size:1024" json:"amazon_url"`
	EtsyURL         string         `gorm:"size:1024" json:"etsy_url"`
	VideoURL        string         `gorm:"size:1024" json:"video_url"`
	MetaTitle       string         `gorm:"size:255" json:"meta_title"`
	MetaDescription string         `gorm:"size:512" json:"meta_description"`
	MetaKeywords    StringList     `gorm:"type:text" json:"meta_keywords"`
	Images          []ProductImage `gorm:"foreignKey:LocaleID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (ProductLocale) TableName() string {
	return "product_locale"
}

// ProductImage belongs to exactly one ProductLocale. The binary resource is
// shared by URL; each locale keeps its own rows so captions can differ.
type ProductImage struct {
	ID                   int64     `gorm:"primaryKey" json:"id,string"`
	LocaleID             int64     `gorm:"index" json:"locale_id,string"`
	URL                  string    `gorm:"size:1024" json:"url"`
	Alt                  string    `gorm:"size:512" json:"alt"`
	PinterestDescription string    `gorm:"size:512" json:"pinterest_description"`
	Order                int       `gorm:"column:position" json:"order"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (ProductImage) TableName() string {
	return "product_image"
}
