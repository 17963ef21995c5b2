package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/internal/slug"
	"github.com/craftista/storefront/internal/translate"
	"github.com/craftista/storefront/pkg/common"
	"github.com/craftista/storefront/pkg/metrics"
)

// imageWriteWorkers bounds concurrent image inserts per materialization.
const imageWriteWorkers = 4

// MaterializeResult reports a single locale materialization.
type MaterializeResult struct {
	Locale *domain.ProductLocale
	// AlreadyExists means the locale was present and nothing was done.
	AlreadyExists bool
	// DegradedTexts counts texts that passed through untranslated because
	// the provider failed or is unconfigured.
	DegradedTexts int
}

// Materializer lazily creates a product's content in a locale it does not
// have yet, translating from the selected source locale.
type Materializer struct {
	store      Store
	translator translate.Translator
	locks      *productLocks
}

func NewMaterializer(store Store, translator translate.Translator) *Materializer {
	return &Materializer{
		store:      store,
		translator: translator,
		locks:      newProductLocks(),
	}
}

// Materialize creates the target locale for a product from its source
// locale. Calling it again for an existing locale is an idempotent no-op
// reported via AlreadyExists.
func (m *Materializer) Materialize(ctx context.Context, productID int64, target string) (*MaterializeResult, error) {
	if !domain.IsSupportedLocale(target) {
		return nil, ErrUnsupportedLocale
	}
	if domain.IsDefaultLocale(target) {
		return nil, ErrDefaultLocale
	}

	release := m.locks.Acquire(productID)
	defer release()

	if _, err := m.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	existing, err := m.store.FindLocale(ctx, productID, target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &MaterializeResult{Locale: existing, AlreadyExists: true}, nil
	}

	locales, err := m.store.ListLocales(ctx, productID)
	if err != nil {
		return nil, err
	}
	source, err := SelectSource(locales)
	if err != nil {
		return nil, err
	}

	return m.createFrom(ctx, productID, source, target)
}

// CreateFrom builds target directly from the given source locale, skipping
// target validation and source selection. The eager product-creation flow
// uses it for the default locales; Materialize uses it internally.
func (m *Materializer) CreateFrom(ctx context.Context, productID int64, source *domain.ProductLocale, target string) (*MaterializeResult, error) {
	release := m.locks.Acquire(productID)
	defer release()
	return m.createFrom(ctx, productID, source, target)
}

func (m *Materializer) createFrom(ctx context.Context, productID int64, source *domain.ProductLocale, target string) (*MaterializeResult, error) {
	// One provider round-trip for all six text fields.
	fields := m.translator.TranslateBatch(ctx, []string{
		source.Name,
		source.Description,
		source.Dimensions,
		source.Materials,
		source.MetaTitle,
		source.MetaDescription,
	}, source.Locale, target)

	degraded := 0
	if fields.Degraded {
		degraded += countNonEmpty(fields.Texts)
	}

	token := slug.Make(fields.Texts[0], target)
	if token == "" {
		token = fmt.Sprintf("item-%d", productID)
	}
	finalSlug, err := ResolveUniqueSlug(ctx, m.store, target, token, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loc := &domain.ProductLocale{
		ID:              common.UUIDint64(),
		ProductID:       productID,
		Locale:          target,
		Slug:            finalSlug,
		Name:            fields.Texts[0],
		Description:     fields.Texts[1],
		Dimensions:      fields.Texts[2],
		Materials:       fields.Texts[3],
		MetaTitle:       fields.Texts[4],
		MetaDescription: fields.Texts[5],
		// Specifications and meta keywords start empty on lazy locales;
		// the admin edit flow fills them in per language.
		Specifications: domain.StringList{},
		MetaKeywords:   domain.StringList{},
		Sku:            source.Sku,
		Gtin:           source.Gtin,
		Availability:   source.Availability,
		PriceMin:       source.PriceMin,
		PriceMax:       source.PriceMax,
		PriceCurrency:  domain.CurrencyFor(target, source.PriceCurrency),
		AmazonURL:      source.AmazonURL,
		EtsyURL:        source.EtsyURL,
		VideoURL:       source.VideoURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.store.CreateLocale(ctx, loc); err != nil {
		if errors.Is(err, ErrPersistenceConflict) {
			// Lost a creation race; report the winner idempotently.
			if winner, ferr := m.store.FindLocale(ctx, productID, target); ferr == nil && winner != nil {
				return &MaterializeResult{Locale: winner, AlreadyExists: true}, nil
			}
		}
		return nil, err
	}

	images, capDegraded, err := m.copyImages(ctx, source, loc)
	if err != nil {
		return nil, err
	}
	degraded += capDegraded
	loc.Images = images

	metrics.Incr(metrics.MetricLocalesCreated, 1)
	zap.L().Info("materialized product locale",
		zap.Int64("product_id", productID),
		zap.String("source", source.Locale),
		zap.String("target", target),
		zap.String("slug", finalSlug),
		zap.Int("images", len(images)),
		zap.Int("degraded_texts", degraded))

	return &MaterializeResult{Locale: loc, DegradedTexts: degraded}, nil
}

// copyImages clones the source locale's images onto dst, re-translating the
// captions in one batch and preserving source order.
func (m *Materializer) copyImages(ctx context.Context, source, dst *domain.ProductLocale) ([]domain.ProductImage, int, error) {
	srcImages, err := m.store.ListImages(ctx, source.ID)
	if err != nil {
		return nil, 0, err
	}
	if len(srcImages) == 0 {
		return []domain.ProductImage{}, 0, nil
	}

	captions := translatedCaptions(ctx, m.translator, srcImages, source.Locale, dst.Locale)

	now := time.Now()
	images := make([]domain.ProductImage, len(srcImages))
	for i, src := range srcImages {
		images[i] = domain.ProductImage{
			ID:                   common.UUIDint64(),
			LocaleID:             dst.ID,
			URL:                  src.URL,
			Alt:                  captions.alt[i],
			PinterestDescription: captions.pinterest[i],
			Order:                src.Order,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWriteWorkers)
	for i := range images {
		img := &images[i]
		g.Go(func() error {
			return m.store.CreateImage(gctx, img)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	metrics.Incr(metrics.MetricImagesCopied, int64(len(images)))
	return images, captions.degraded, nil
}

// captionSet holds per-image translated captions, indexed like the source
// image slice.
type captionSet struct {
	alt       []string
	pinterest []string
	degraded  int
}

// translatedCaptions translates every image caption in a single batch. The
// pinterest slot stays empty where the source had none.
func translatedCaptions(ctx context.Context, tr translate.Translator, srcImages []domain.ProductImage, from, to string) captionSet {
	texts := make([]string, 0, len(srcImages)*2)
	for _, img := range srcImages {
		texts = append(texts, img.Alt, img.PinterestDescription)
	}
	batch := tr.TranslateBatch(ctx, texts, from, to)

	set := captionSet{
		alt:       make([]string, len(srcImages)),
		pinterest: make([]string, len(srcImages)),
	}
	for i := range srcImages {
		set.alt[i] = batch.Texts[i*2]
		set.pinterest[i] = batch.Texts[i*2+1]
	}
	if batch.Degraded {
		set.degraded = countNonEmpty(batch.Texts)
	}
	return set
}

func countNonEmpty(texts []string) int {
	n := 0
	for _, t := range texts {
		if t != "" {
			n++
		}
	}
	return n
}
