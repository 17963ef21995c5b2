package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftista/storefront/internal/domain"
)

func seedTurkishProduct(store *memStore, id int64) *domain.ProductLocale {
	store.addProduct(id)
	loc := store.addLocale(domain.ProductLocale{
		ProductID:       id,
		Locale:          "tr",
		Slug:            "ahsap-kutu",
		Name:            "Ahşap Kutu",
		Description:     "El yapımı ahşap kutu",
		Dimensions:      "20x15x10 cm",
		Materials:       "Ceviz ağacı",
		Specifications:  domain.StringList{"el yapımı", "doğal"},
		Sku:             "AK-001",
		Gtin:            "0123456789012",
		Availability:    domain.AvailabilityInStock,
		PriceMin:        450,
		PriceMax:        600,
		PriceCurrency:   "TRY",
		EtsyURL:         "https://etsy.example/ak-001",
		MetaTitle:       "Ahşap Kutu | Craftista",
		MetaDescription: "El yapımı ahşap kutu, ceviz ağacı",
		MetaKeywords:    domain.StringList{"ahşap", "kutu"},
	})
	store.addImage(loc.ID, "https://cdn.example/ak-001-front.jpg", "Kutunun önden görünümü", "Ahşap kutu ilhamı", 0)
	store.addImage(loc.ID, "https://cdn.example/ak-001-open.jpg", "Kutunun açık hali", "", 1)
	return loc
}

func TestMaterialize_RejectsBadTargets(t *testing.T) {
	m := NewMaterializer(newMemStore(), &fakeTranslator{})

	_, err := m.Materialize(context.Background(), 1, "xx")
	assert.ErrorIs(t, err, ErrUnsupportedLocale)

	_, err = m.Materialize(context.Background(), 1, "en")
	assert.ErrorIs(t, err, ErrDefaultLocale)

	_, err = m.Materialize(context.Background(), 1, "tr")
	assert.ErrorIs(t, err, ErrDefaultLocale)
}

func TestMaterialize_ProductNotFound(t *testing.T) {
	m := NewMaterializer(newMemStore(), &fakeTranslator{})
	_, err := m.Materialize(context.Background(), 42, "de")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMaterialize_NoSourceLocale(t *testing.T) {
	store := newMemStore()
	store.addProduct(1)
	store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "fr", Slug: "boite"})

	m := NewMaterializer(store, &fakeTranslator{})
	_, err := m.Materialize(context.Background(), 1, "de")
	assert.ErrorIs(t, err, ErrNoSourceLocale)
}

func TestMaterialize_FromTurkishSource(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)

	m := NewMaterializer(store, &fakeTranslator{})
	res, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)
	require.False(t, res.AlreadyExists)

	loc := res.Locale
	assert.Equal(t, "de", loc.Locale)
	assert.Equal(t, "de:Ahşap Kutu", loc.Name)
	assert.Equal(t, "de:El yapımı ahşap kutu", loc.Description)
	assert.Equal(t, "de-ahsap-kutu", loc.Slug) // slug from the translated name

	// Non-text fields copied verbatim, currency mapped to the target.
	assert.Equal(t, "AK-001", loc.Sku)
	assert.Equal(t, "0123456789012", loc.Gtin)
	assert.Equal(t, domain.AvailabilityInStock, loc.Availability)
	assert.Equal(t, 450.0, loc.PriceMin)
	assert.Equal(t, 600.0, loc.PriceMax)
	assert.Equal(t, "EUR", loc.PriceCurrency)
	assert.Equal(t, "https://etsy.example/ak-001", loc.EtsyURL)

	// Specifications and meta keywords start empty on lazy locales.
	assert.Empty(t, loc.Specifications)
	assert.Empty(t, loc.MetaKeywords)

	// Images copied in source order with translated captions.
	images, err := store.ListImages(context.Background(), loc.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.example/ak-001-front.jpg", images[0].URL)
	assert.Equal(t, 0, images[0].Order)
	assert.Equal(t, "de:Kutunun önden görünümü", images[0].Alt)
	assert.Equal(t, "de:Ahşap kutu ilhamı", images[0].PinterestDescription)
	assert.Equal(t, "https://cdn.example/ak-001-open.jpg", images[1].URL)
	assert.Equal(t, 1, images[1].Order)
	assert.Equal(t, "", images[1].PinterestDescription)
}

func TestMaterialize_PrefersEnglishSource(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	store.addLocale(domain.ProductLocale{
		ProductID:     1,
		Locale:        "en",
		Slug:          "wooden-box",
		Name:          "Wooden Box",
		PriceCurrency: "USD",
	})

	m := NewMaterializer(store, &fakeTranslator{})
	res, err := m.Materialize(context.Background(), 1, "fr")
	require.NoError(t, err)
	assert.Equal(t, "fr:Wooden Box", res.Locale.Name)
}

func TestMaterialize_Idempotent(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)

	m := NewMaterializer(store, &fakeTranslator{})
	first, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)
	require.False(t, first.AlreadyExists)

	second, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Locale.ID, second.Locale.ID)

	locales, err := store.ListLocales(context.Background(), 1)
	require.NoError(t, err)
	count := 0
	for _, l := range locales {
		if l.Locale == "de" {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one de locale row")
}

func TestMaterialize_DegradedProviderStillSucceeds(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)

	m := NewMaterializer(store, &fakeTranslator{degrade: true})
	res, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)

	// Fields equal the source verbatim; degradation is observable.
	assert.Equal(t, "Ahşap Kutu", res.Locale.Name)
	assert.Equal(t, "El yapımı ahşap kutu", res.Locale.Description)
	assert.Equal(t, "ahsap-kutu", res.Locale.Slug) // slug scope is per locale
	assert.Greater(t, res.DegradedTexts, 0)

	images, err := store.ListImages(context.Background(), res.Locale.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "Kutunun önden görünümü", images[0].Alt)
}

func TestMaterialize_SlugCollisionGetsSuffix(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	store.addProduct(2)
	store.addLocale(domain.ProductLocale{
		ProductID:     2,
		Locale:        "tr",
		Slug:          "ahsap-kutu-buyuk",
		Name:          "Ahşap Kutu", // same display name as product 1
		PriceCurrency: "TRY",
	})

	m := NewMaterializer(store, &fakeTranslator{})
	first, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)
	second, err := m.Materialize(context.Background(), 2, "de")
	require.NoError(t, err)

	assert.Equal(t, "de-ahsap-kutu", first.Locale.Slug)
	assert.Equal(t, "de-ahsap-kutu-1", second.Locale.Slug)
}

func TestMaterialize_BatchesTextFields(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)

	ft := &fakeTranslator{}
	m := NewMaterializer(store, ft)
	_, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)

	// One batch for the six text fields, one for all image captions.
	assert.Equal(t, 2, ft.callCount())
}

func TestMaterialize_CreationRaceReportsExisting(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	// Another writer slips a de locale in after the existence check: the
	// store rejects the duplicate and the winner is reported.
	var winner *domain.ProductLocale
	store.beforeCreateLocale = func() {
		winner = store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "de", Slug: "holzkiste"})
	}

	m := NewMaterializer(store, &fakeTranslator{})
	res, err := m.Materialize(context.Background(), 1, "de")
	require.NoError(t, err)
	assert.True(t, res.AlreadyExists)
	assert.Equal(t, winner.ID, res.Locale.ID)
}
