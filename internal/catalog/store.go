package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/craftista/storefront/internal/domain"
)

// Store is the persistence boundary of the locale engine. Implementations
// must enforce the (product_id, locale) and (locale, slug) unique
// constraints and surface violations as ErrPersistenceConflict.
type Store interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProductIDs(ctx context.Context) ([]int64, error)
	ListLocales(ctx context.Context, productID int64) ([]domain.ProductLocale, error)
	// FindLocale returns (nil, nil) when the locale row does not exist.
	FindLocale(ctx context.Context, productID int64, locale string) (*domain.ProductLocale, error)
	SlugTaken(ctx context.Context, locale, slug string, excludeID int64) (bool, error)
	CreateLocale(ctx context.Context, loc *domain.ProductLocale) error
	ListImages(ctx context.Context, localeID int64) ([]domain.ProductImage, error)
	CreateImage(ctx context.Context, img *domain.ProductImage) error
	DeleteImages(ctx context.Context, localeID int64) error
}

// GormStore implements Store on the application database.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &p, nil
}

func (s *GormStore) ListProductIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Order("sort_order asc, id asc").Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "list product ids")
	}
	return ids, nil
}

func (s *GormStore) ListLocales(ctx context.Context, productID int64) ([]domain.ProductLocale, error) {
	var rows []domain.ProductLocale
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list product locales")
	}
	return rows, nil
}

func (s *GormStore) FindLocale(ctx context.Context, productID int64, locale string) (*domain.ProductLocale, error) {
	var row domain.ProductLocale
	err := s.db.WithContext(ctx).
		Where("product_id = ? and locale = ?", productID, locale).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product locale")
	}
	return &row, nil
}

func (s *GormStore) SlugTaken(ctx context.Context, locale, slug string, excludeID int64) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.ProductLocale{}).
		Where("locale = ? and slug = ?", locale, slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "probe slug")
	}
	return count > 0, nil
}

func (s *GormStore) CreateLocale(ctx context.Context, loc *domain.ProductLocale) error {
	err := s.db.WithContext(ctx).Create(loc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPersistenceConflict
	}
	if err != nil {
		return errors.Wrap(err, "create product locale")
	}
	return nil
}

func (s *GormStore) ListImages(ctx context.Context, localeID int64) ([]domain.ProductImage, error) {
	var rows []domain.ProductImage
	err := s.db.WithContext(ctx).
		Where("locale_id = ?", localeID).Order("position asc").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list locale images")
	}
	return rows, nil
}

func (s *GormStore) CreateImage(ctx context.Context, img *domain.ProductImage) error {
	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		return errors.Wrap(err, "create product image")
	}
	return nil
}

func (s *GormStore) DeleteImages(ctx context.Context, localeID int64) error {
	err := s.db.WithContext(ctx).
		Where("locale_id = ?", localeID).Delete(&domain.ProductImage{}).Error
	if err != nil {
		return errors.Wrap(err, "delete locale images")
	}
	return nil
}
