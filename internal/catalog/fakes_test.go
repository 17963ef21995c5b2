package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/craftista/storefront/internal/domain"
	"github.com/craftista/storefront/internal/translate"
	"github.com/craftista/storefront/pkg/common"
)

// memStore is an in-memory Store with the same uniqueness semantics as the
// database schema.
type memStore struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	locales  map[int64]*domain.ProductLocale
	images   map[int64]*domain.ProductImage

	// failCreateLocale injects a CreateLocale error per product id.
	failCreateLocale map[int64]error
	// beforeCreateLocale runs inside CreateLocale before the uniqueness
	// check; tests use it to simulate a concurrent writer.
	beforeCreateLocale func()
	// slugAlwaysTaken makes every slug probe report a collision.
	slugAlwaysTaken bool
}

func newMemStore() *memStore {
	return &memStore{
		products:         make(map[int64]*domain.Product),
		locales:          make(map[int64]*domain.ProductLocale),
		images:           make(map[int64]*domain.ProductImage),
		failCreateLocale: make(map[int64]error),
	}
}

func (s *memStore) addProduct(id int64) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Product{ID: id, Category: "decor"}
	s.products[id] = p
	return p
}

func (s *memStore) addLocale(loc domain.ProductLocale) *domain.ProductLocale {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc.ID == 0 {
		loc.ID = common.UUIDint64()
	}
	s.locales[loc.ID] = &loc
	return &loc
}

func (s *memStore) addImage(localeID int64, url, alt, pinterest string, order int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := &domain.ProductImage{
		ID:                   common.UUIDint64(),
		LocaleID:             localeID,
		URL:                  url,
		Alt:                  alt,
		PinterestDescription: pinterest,
		Order:                order,
	}
	s.images[img.ID] = img
}

func (s *memStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListProductIDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) ListLocales(ctx context.Context, productID int64) ([]domain.ProductLocale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []domain.ProductLocale
	for _, l := range s.locales {
		if l.ProductID == productID {
			rows = append(rows, *l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *memStore) FindLocale(ctx context.Context, productID int64, locale string) (*domain.ProductLocale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.locales {
		if l.ProductID == productID && l.Locale == locale {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) SlugTaken(ctx context.Context, locale, slug string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugAlwaysTaken {
		return true, nil
	}
	for _, l := range s.locales {
		if l.Locale == locale && l.Slug == slug && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateLocale(ctx context.Context, loc *domain.ProductLocale) error {
	s.mu.Lock()
	hook := s.beforeCreateLocale
	s.beforeCreateLocale = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failCreateLocale[loc.ProductID]; ok {
		return err
	}
	for _, l := range s.locales {
		if l.ProductID == loc.ProductID && l.Locale == loc.Locale {
			return ErrPersistenceConflict
		}
		if l.Locale == loc.Locale && l.Slug == loc.Slug {
			return ErrPersistenceConflict
		}
	}
	if loc.ID == 0 {
		loc.ID = common.UUIDint64()
	}
	cp := *loc
	s.locales[loc.ID] = &cp
	return nil
}

func (s *memStore) ListImages(ctx context.Context, localeID int64) ([]domain.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []domain.ProductImage
	for _, img := range s.images {
		if img.LocaleID == localeID {
			rows = append(rows, *img)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })
	return rows, nil
}

func (s *memStore) CreateImage(ctx context.Context, img *domain.ProductImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img.ID == 0 {
		img.ID = common.UUIDint64()
	}
	cp := *img
	s.images[img.ID] = &cp
	return nil
}

func (s *memStore) DeleteImages(ctx context.Context, localeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, img := range s.images {
		if img.LocaleID == localeID {
			delete(s.images, id)
		}
	}
	return nil
}

// fakeTranslator marks translated texts as "to:text" so tests can assert
// both translation and pass-through behavior.
type fakeTranslator struct {
	mu      sync.Mutex
	degrade bool
	calls   int
	// panicOn triggers a panic when this text is translated.
	panicOn string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, from, to string) translate.Result {
	batch := f.TranslateBatch(ctx, []string{text}, from, to)
	return translate.Result{Text: batch.Texts[0], Degraded: batch.Degraded}
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, texts []string, from, to string) translate.BatchResult {
	out := make([]string, len(texts))
	copy(out, texts)
	if from == to {
		return translate.BatchResult{Texts: out}
	}
	f.mu.Lock()
	f.calls++
	degrade := f.degrade
	panicOn := f.panicOn
	f.mu.Unlock()
	for _, t := range texts {
		if panicOn != "" && t == panicOn {
			panic("translator blew up on " + t)
		}
	}
	if degrade {
		return translate.BatchResult{Texts: out, Degraded: true}
	}
	for i, t := range texts {
		if t != "" {
			out[i] = to + ":" + t
		}
	}
	return translate.BatchResult{Texts: out}
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
