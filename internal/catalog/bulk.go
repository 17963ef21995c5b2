package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/pkg/common"
	"github.com/craftista/storefront/pkg/metrics"
)

// syncSourceLocale is the locale whose images are the source of truth for
// the bulk image re-sync.
const syncSourceLocale = "tr"

const defaultBulkWorkers = 8

// BulkError is one failed product in a bulk run.
type BulkError struct {
	ProductID int64  `json:"product_id,string"`
	Reason    string `json:"reason"`
}

// BulkReport summarizes a catalog-wide locale materialization.
type BulkReport struct {
	Total         int         `json:"total"`
	Created       int         `json:"created"`
	AlreadyExists int         `json:"already_exists"`
	DegradedTexts int         `json:"degraded_texts"`
	Errors        []BulkError `json:"errors"`
}

// ImageSyncResult is one overwritten locale in an image re-sync.
type ImageSyncResult struct {
	ProductID    int64  `json:"product_id,string"`
	Locale       string `json:"locale"`
	ImagesCopied int    `json:"images_copied"`
}

// ImageSyncReport summarizes a catalog-wide image re-sync.
type ImageSyncReport struct {
	TotalImagesCopied int               `json:"total_images_copied"`
	Results           []ImageSyncResult `json:"results"`
	Errors            []BulkError       `json:"errors"`
}

// Synchronizer applies locale materialization or image re-sync across every
// product, with per-product failure isolation and a bounded worker pool.
type Synchronizer struct {
	store   Store
	mat     *Materializer
	workers int
}

func NewSynchronizer(store Store, mat *Materializer, workers int) *Synchronizer {
	if workers <= 0 {
		workers = defaultBulkWorkers
	}
	return &Synchronizer{store: store, mat: mat, workers: workers}
}

// MaterializeAll materializes target for every product that lacks it. One
// product's failure never aborts the run; it lands in the report instead.
func (s *Synchronizer) MaterializeAll(ctx context.Context, target string) (*BulkReport, error) {
	if !domain.IsSupportedLocale(target) {
		return nil, ErrUnsupportedLocale
	}
	if domain.IsDefaultLocale(target) {
		return nil, ErrDefaultLocale
	}

	ids, err := s.store.ListProductIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{Total: len(ids), Errors: []BulkError{}}
	var mu sync.Mutex
	var wg sync.WaitGroup

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		productID := id
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer recoverBulkPanic(productID, report, &mu)

			res, err := s.mat.Materialize(ctx, productID, target)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Errors = append(report.Errors, BulkError{ProductID: productID, Reason: err.Error()})
			case res.AlreadyExists:
				report.AlreadyExists++
			default:
				report.Created++
				report.DegradedTexts += res.DegradedTexts
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Errors = append(report.Errors, BulkError{ProductID: productID, Reason: submitErr.Error()})
			mu.Unlock()
		}
	}
	wg.Wait()

	zap.L().Info("bulk locale materialization finished",
		zap.String("target", target),
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("already_exists", report.AlreadyExists),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// SyncImages overwrites every non-source locale's images with the source
// locale's current set, re-translating captions. Products without source
// images are skipped entirely; nothing is deleted for them. This is a full
// overwrite, so manually curated captions on other locales are lost.
func (s *Synchronizer) SyncImages(ctx context.Context) (*ImageSyncReport, error) {
	ids, err := s.store.ListProductIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &ImageSyncReport{Results: []ImageSyncResult{}, Errors: []BulkError{}}
	var mu sync.Mutex
	var wg sync.WaitGroup

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		productID := id
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results, err := s.syncProductImages(ctx, productID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors = append(report.Errors, BulkError{ProductID: productID, Reason: err.Error()})
				return
			}
			for _, r := range results {
				report.Results = append(report.Results, r)
				report.TotalImagesCopied += r.ImagesCopied
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Errors = append(report.Errors, BulkError{ProductID: productID, Reason: submitErr.Error()})
			mu.Unlock()
		}
	}
	wg.Wait()

	zap.L().Info("bulk image re-sync finished",
		zap.Int("images_copied", report.TotalImagesCopied),
		zap.Int("locales", len(report.Results)),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// syncProductImages overwrites all non-source locales of one product from
// the source locale's images. The product is locked for the duration.
func (s *Synchronizer) syncProductImages(ctx context.Context, productID int64) ([]ImageSyncResult, error) {
	release := s.mat.locks.Acquire(productID)
	defer release()

	locales, err := s.store.ListLocales(ctx, productID)
	if err != nil {
		return nil, err
	}
	var source *domain.ProductLocale
	for i := range locales {
		if locales[i].Locale == syncSourceLocale {
			source = &locales[i]
			break
		}
	}
	if source == nil {
		return nil, nil
	}
	srcImages, err := s.store.ListImages(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if len(srcImages) == 0 {
		// No source images: never delete target images as a side effect.
		return nil, nil
	}

	var results []ImageSyncResult
	for i := range locales {
		dst := &locales[i]
		if dst.Locale == syncSourceLocale {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		copied, err := s.overwriteLocaleImages(ctx, srcImages, source.Locale, dst)
		if err != nil {
			return results, fmt.Errorf("locale %s: %w", dst.Locale, err)
		}
		results = append(results, ImageSyncResult{
			ProductID:    productID,
			Locale:       dst.Locale,
			ImagesCopied: copied,
		})
	}
	return results, nil
}

func (s *Synchronizer) overwriteLocaleImages(ctx context.Context, srcImages []domain.ProductImage, sourceLocale string, dst *domain.ProductLocale) (int, error) {
	captions := translatedCaptions(ctx, s.mat.translator, srcImages, sourceLocale, dst.Locale)

	if err := s.store.DeleteImages(ctx, dst.ID); err != nil {
		return 0, err
	}
	now := time.Now()
	for i, src := range srcImages {
		img := domain.ProductImage{
			ID:                   common.UUIDint64(),
			LocaleID:             dst.ID,
			URL:                  src.URL,
			Alt:                  captions.alt[i],
			PinterestDescription: captions.pinterest[i],
			Order:                src.Order,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.store.CreateImage(ctx, &img); err != nil {
			return i, err
		}
	}
	metrics.Incr(metrics.MetricImagesCopied, int64(len(srcImages)))
	return len(srcImages), nil
}

func recoverBulkPanic(productID int64, report *BulkReport, mu *sync.Mutex) {
	if r := recover(); r != nil {
		zap.L().Error("bulk worker panic", zap.Int64("product_id", productID), zap.Any("panic", r))
		mu.Lock()
		report.Errors = append(report.Errors, BulkError{
			ProductID: productID,
			Reason:    fmt.Sprintf("panic: %v", r),
		})
		mu.Unlock()
	}
}
