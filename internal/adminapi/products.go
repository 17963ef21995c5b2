package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/craftista/storefront/internal/catalog"
	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/internal/slug"
	"github.com/craftista/storefront/internal/webserver"
	"github.com/craftista/storefront/pkg/common"
)

type productContentPayload struct {
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Description     string   `json:"description"`
	Dimensions      string   `json:"dimensions"`
	Materials       string   `json:"materials"`
	Specifications  []string `json:"specifications"`
	Sku             string   `json:"sku"`
	Gtin            string   `json:"gtin"`
	Availability    string   `json:"availability"`
	PriceMin        float64  `json:"price_min"`
	PriceMax        float64  `json:"price_max"`
	PriceCurrency   string   `json:"price_currency"`
	AmazonURL       string   `json:"amazon_url"`
	EtsyURL         string   `json:"etsy_url"`
	VideoURL        string   `json:"video_url"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    []string `json:"meta_keywords"`
}

type productImagePayload struct {
	URL                  string `json:"url" validate:"required"`
	Alt                  string `json:"alt"`
	PinterestDescription string `json:"pinterest_description"`
}

type productPayload struct {
	Category  string                `json:"category"`
	Tags      []string              `json:"tags"`
	SortOrder int                   `json:"sort_order"`
	Content   productContentPayload `json:"content"`
	Images    []productImagePayload `json:"images"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"sort_order": "sort_order",
		"category":   "category",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "sort_order"
	}

	db := GetDB(c).Model(&domain.Product{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if q != "" {
		db = db.Where("id in (?)",
			GetDB(c).Model(&domain.ProductLocale{}).
				Select("product_id").
				Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%"))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Locales").
		Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).
		Preload("Locales").
		Preload("Locales.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// createProduct creates a product with its two default locales: tr carries
// the submitted content, en is derived from it through the engine.
func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Content.Name = strings.TrimSpace(payload.Content.Name)
	if payload.Content.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	switch payload.Content.Availability {
	case "":
		payload.Content.Availability = domain.AvailabilityInStock
	case domain.AvailabilityInStock, domain.AvailabilityOutOfStock,
		domain.AvailabilityPreOrder, domain.AvailabilityBackOrder:
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown availability value", nil)
	}
	if payload.Content.PriceCurrency == "" {
		payload.Content.PriceCurrency = "TRY"
	}

	ctx := c.Request().Context()
	store := catalog.NewGormStore(GetDB(c))

	now := time.Now()
	product := domain.Product{
		ID:        common.UUIDint64(),
		Category:  strings.TrimSpace(payload.Category),
		Tags:      domain.StringList(payload.Tags),
		SortOrder: payload.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	token := slug.Make(payload.Content.Name, "tr")
	trSlug, err := catalog.ResolveUniqueSlug(ctx, store, "tr", token, 0)
	if err != nil {
		return fail(c, http.StatusConflict, "SLUG_EXHAUSTED", "No free slug for product name", nil)
	}
	trLocale := domain.ProductLocale{
		ID:              common.UUIDint64(),
		ProductID:       product.ID,
		Locale:          "tr",
		Slug:            trSlug,
		Name:            payload.Content.Name,
		Description:     payload.Content.Description,
		Dimensions:      payload.Content.Dimensions,
		Materials:       payload.Content.Materials,
		Specifications:  domain.StringList(payload.Content.Specifications),
		Sku:             payload.Content.Sku,
		Gtin:            payload.Content.Gtin,
		Availability:    payload.Content.Availability,
		PriceMin:        payload.Content.PriceMin,
		PriceMax:        payload.Content.PriceMax,
		PriceCurrency:   payload.Content.PriceCurrency,
		AmazonURL:       payload.Content.AmazonURL,
		EtsyURL:         payload.Content.EtsyURL,
		VideoURL:        payload.Content.VideoURL,
		MetaTitle:       payload.Content.MetaTitle,
		MetaDescription: payload.Content.MetaDescription,
		MetaKeywords:    domain.StringList(payload.Content.MetaKeywords),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := store.CreateLocale(ctx, &trLocale); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product content", err.Error())
	}
	for i, img := range payload.Images {
		if err := store.CreateImage(ctx, &domain.ProductImage{
			ID:                   common.UUIDint64(),
			LocaleID:             trLocale.ID,
			URL:                  strings.TrimSpace(img.URL),
			Alt:                  img.Alt,
			PinterestDescription: img.PinterestDescription,
			Order:                i,
			CreatedAt:            now,
			UpdatedAt:            now,
		}); err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product image", err.Error())
		}
	}

	// Second default locale, derived through the engine.
	enRes, err := GetApp(c).Materializer().CreateFrom(ctx, product.ID, &trLocale, "en")
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create english content", err.Error())
	}

	product.Locales = []domain.ProductLocale{trLocale, *enRes.Locale}
	return created(c, map[string]interface{}{
		"product":        product,
		"degraded_texts": enRes.DegradedTexts,
	})
}

// updateProduct touches only the language-neutral fields; locale content is
// edited through its own flow.
func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload struct {
		Category  string   `json:"category"`
		Tags      []string `json:"tags"`
		SortOrder int      `json:"sort_order"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	p.Category = strings.TrimSpace(payload.Category)
	p.Tags = domain.StringList(payload.Tags)
	p.SortOrder = payload.SortOrder
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var localeIDs []int64
		if err := tx.Model(&domain.ProductLocale{}).
			Where("product_id = ?", id).Pluck("id", &localeIDs).Error; err != nil {
			return err
		}
		if len(localeIDs) > 0 {
			if err := tx.Where("locale_id in ?", localeIDs).
				Delete(&domain.ProductImage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("product_id = ?", id).
			Delete(&domain.ProductLocale{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, id).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
