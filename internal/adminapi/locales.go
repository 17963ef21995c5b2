package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/craftista/storefront/internal/catalog"
	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/internal/webserver"
	"github.com/craftista/storefront/pkg/common"
)

// registerLocaleRoutes registers the locale sync endpoints
func registerLocaleRoutes() {
	webserver.ApiPOST("/products/:id/locales", createProductLocale)
	webserver.ApiGET("/products/:id/locales/:locale", getProductLocale)
	webserver.ApiPOST("/locales/:locale/materialize-all", bulkMaterialize)
	webserver.ApiPOST("/images/resync", imageResync)
}

type createLocalePayload struct {
	Locale string `json:"locale" validate:"required"`
}

// createProductLocale lazily materializes one product's content in a new
// language, translated from its source locale.
func createProductLocale(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload createLocalePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	target := strings.TrimSpace(payload.Locale)

	res, err := GetApp(c).Materializer().Materialize(c.Request().Context(), productID, target)
	if err != nil {
		return failLocaleError(c, err)
	}
	if res.AlreadyExists {
		return ok(c, map[string]interface{}{
			"already_exists": true,
			"locale":         res.Locale,
		})
	}

	logLocaleOp(c, "materialize_locale", target, productID)
	return created(c, map[string]interface{}{
		"created":        res.Locale,
		"degraded_texts": res.DegradedTexts,
	})
}

func getProductLocale(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	ctx := c.Request().Context()
	store := catalog.NewGormStore(GetDB(c))

	loc, err := store.FindLocale(ctx, productID, c.Param("locale"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query locale", err.Error())
	}
	if loc == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product locale not found", nil)
	}
	images, err := store.ListImages(ctx, loc.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query images", err.Error())
	}
	loc.Images = images
	return ok(c, loc)
}

// bulkMaterialize creates the target locale for every product that lacks
// it, isolating per-product failures in the report.
func bulkMaterialize(c echo.Context) error {
	target := strings.TrimSpace(c.Param("locale"))

	report, err := GetApp(c).Synchronizer().MaterializeAll(c.Request().Context(), target)
	if err != nil {
		return failLocaleError(c, err)
	}

	logLocaleOp(c, "bulk_materialize", target, 0)
	return ok(c, report)
}

type imageResyncPayload struct {
	Confirm bool `json:"confirm"`
}

// imageResync overwrites every non-source locale's images from the source
// locale. Destructive to manually edited captions, hence the confirm gate.
func imageResync(c echo.Context) error {
	var payload imageResyncPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if !payload.Confirm {
		return fail(c, http.StatusPreconditionRequired, "CONFIRM_REQUIRED",
			"Image resync overwrites every locale's images and captions with the source locale's set; "+
				"manually edited captions will be lost. Repeat with {\"confirm\": true}.", nil)
	}

	report, err := GetApp(c).Synchronizer().SyncImages(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SYNC_ERROR", "Image resync failed", err.Error())
	}

	logLocaleOp(c, "image_resync", "", 0)
	return ok(c, report)
}

// failLocaleError maps engine errors onto HTTP statuses.
func failLocaleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, catalog.ErrUnsupportedLocale):
		return fail(c, http.StatusBadRequest, "UNSUPPORTED_LOCALE", "Locale is not supported", nil)
	case errors.Is(err, catalog.ErrDefaultLocale):
		return fail(c, http.StatusBadRequest, "DEFAULT_LOCALE", "Default locales are created with the product", nil)
	case errors.Is(err, catalog.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	case errors.Is(err, catalog.ErrNoSourceLocale):
		return fail(c, http.StatusConflict, "NO_SOURCE_LOCALE", "Product has no source locale to translate from", nil)
	case errors.Is(err, catalog.ErrSlugExhausted):
		return fail(c, http.StatusConflict, "SLUG_EXHAUSTED", "No free slug for the translated name", nil)
	case errors.Is(err, catalog.ErrPersistenceConflict):
		return fail(c, http.StatusConflict, "CONFLICT", "Concurrent modification detected", nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Locale operation failed", err.Error())
	}
}

func logLocaleOp(c echo.Context, action, locale string, productID int64) {
	desc := action
	if locale != "" {
		desc += " locale=" + locale
	}
	if productID != 0 {
		desc += " product=" + strconv.FormatInt(productID, 10)
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   operatorName(c),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
