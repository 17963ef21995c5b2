package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftista/storefront/internal/domain"
)

func TestMaterializeAll_RejectsBadTargets(t *testing.T) {
	s := NewSynchronizer(newMemStore(), NewMaterializer(newMemStore(), &fakeTranslator{}), 2)

	_, err := s.MaterializeAll(context.Background(), "xx")
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
	_, err = s.MaterializeAll(context.Background(), "tr")
	assert.ErrorIs(t, err, ErrDefaultLocale)
}

func TestMaterializeAll_IsolatesFailures(t *testing.T) {
	store := newMemStore()
	for id := int64(1); id <= 5; id++ {
		seedTurkishProduct(store, id)
	}
	store.failCreateLocale[3] = errors.New("translation outage for product 3")

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 3)

	report, err := s.MaterializeAll(context.Background(), "de")
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 4, report.Created)
	assert.Equal(t, 0, report.AlreadyExists)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, int64(3), report.Errors[0].ProductID)
	assert.Contains(t, report.Errors[0].Reason, "outage")
}

func TestMaterializeAll_CountsExisting(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	seedTurkishProduct(store, 2)
	store.addLocale(domain.ProductLocale{ProductID: 2, Locale: "de", Slug: "vorhanden"})

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.MaterializeAll(context.Background(), "de")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.AlreadyExists)
	assert.Empty(t, report.Errors)
}

func TestMaterializeAll_RecoversWorkerPanic(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	store.addProduct(2)
	store.addLocale(domain.ProductLocale{
		ProductID: 2, Locale: "tr", Slug: "bomba", Name: "Bomba",
	})

	mat := NewMaterializer(store, &fakeTranslator{panicOn: "Bomba"})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.MaterializeAll(context.Background(), "de")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, int64(2), report.Errors[0].ProductID)
	assert.Contains(t, report.Errors[0].Reason, "panic")
}

func TestSyncImages_OverwritesStaleLocales(t *testing.T) {
	store := newMemStore()
	tr := seedTurkishProduct(store, 1) // 2 tr images
	en := store.addLocale(domain.ProductLocale{
		ProductID: 1, Locale: "en", Slug: "wooden-box", Name: "Wooden Box",
	})
	// Stale en locale with 5 manually curated images.
	for i := 0; i < 5; i++ {
		store.addImage(en.ID, "https://cdn.example/stale.jpg", "stale", "", i)
	}

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.SyncImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalImagesCopied)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "en", report.Results[0].Locale)
	assert.Equal(t, 2, report.Results[0].ImagesCopied)

	srcImages, _ := store.ListImages(context.Background(), tr.ID)
	enImages, err := store.ListImages(context.Background(), en.ID)
	require.NoError(t, err)
	require.Len(t, enImages, 2, "the 5 stale images no longer exist")
	for i := range enImages {
		assert.Equal(t, srcImages[i].URL, enImages[i].URL)
		assert.Equal(t, srcImages[i].Order, enImages[i].Order)
	}
	assert.Equal(t, "en:Kutunun önden görünümü", enImages[0].Alt)
	assert.Equal(t, "en:Ahşap kutu ilhamı", enImages[0].PinterestDescription)
}

func TestSyncImages_SkipsProductsWithoutSourceImages(t *testing.T) {
	store := newMemStore()
	store.addProduct(1)
	tr := store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "tr", Slug: "bos"})
	_ = tr // tr locale exists but has zero images
	en := store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "en", Slug: "empty"})
	store.addImage(en.ID, "https://cdn.example/keep.jpg", "keep me", "", 0)

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.SyncImages(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TotalImagesCopied)
	assert.Empty(t, report.Results)

	enImages, err := store.ListImages(context.Background(), en.ID)
	require.NoError(t, err)
	require.Len(t, enImages, 1, "no deletion without source images")
	assert.Equal(t, "keep me", enImages[0].Alt)
}

func TestSyncImages_SkipsProductsWithoutSourceLocale(t *testing.T) {
	store := newMemStore()
	store.addProduct(1)
	en := store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "en", Slug: "only-en"})
	store.addImage(en.ID, "https://cdn.example/keep.jpg", "keep me", "", 0)

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.SyncImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Empty(t, report.Errors)
}

func TestSyncImages_CoversEveryNonSourceLocale(t *testing.T) {
	store := newMemStore()
	seedTurkishProduct(store, 1)
	store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "en", Slug: "wooden-box"})
	store.addLocale(domain.ProductLocale{ProductID: 1, Locale: "de", Slug: "holzkiste"})

	mat := NewMaterializer(store, &fakeTranslator{})
	s := NewSynchronizer(store, mat, 2)

	report, err := s.SyncImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalImagesCopied)
	assert.Len(t, report.Results, 2)

	seen := map[string]int{}
	for _, r := range report.Results {
		seen[r.Locale] = r.ImagesCopied
	}
	assert.Equal(t, map[string]int{"en": 2, "de": 2}, seen)
}
