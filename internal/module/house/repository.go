package house

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/eimonte/estate/internal/domain"
	"github.com/eimonte/estate/internal/pkg"
)

// houseRepository implements domain.HouseRepository using GORM.
type houseRepository struct {
	db *gorm.DB
}

// NewHouseRepository creates a new HouseRepository backed by the given GORM database.
func NewHouseRepository(db *gorm.DB) domain.HouseRepository {
	return &houseRepository{db: db}
}

func activeImagesOrdered(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order ASC")
}

func allImagesOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// ListActive returns active houses with their active images.
func (r *houseRepository) ListActive(ctx context.Context) ([]domain.House, error) {
	var houses []domain.House
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Images", activeImagesOrdered).
		Order("sort_order ASC, created_at DESC").
		Find(&houses).Error
	if err != nil {
		return nil, mapError(err)
	}
	return houses, nil
}

// ListAll returns every house including inactive ones, with all their images.
func (r *houseRepository) ListAll(ctx context.Context) ([]domain.House, error) {
	var houses []domain.House
	err := r.db.WithContext(ctx).
		Preload("Images", allImagesOrdered).
		Order("sort_order ASC, created_at DESC").
		Find(&houses).Error
	if err != nil {
		return nil, mapError(err)
	}
	return houses, nil
}

// GetByID returns a house (active or not) with its active images.
func (r *houseRepository) GetByID(ctx context.Context, id uint) (*domain.House, error) {
	var house domain.House
	err := r.db.WithContext(ctx).
		Preload("Images", activeImagesOrdered).
		First(&house, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAppError(domain.CodeNotFound, "House not found", nil)
		}
		return nil, mapError(err)
	}
	return &house, nil
}

// Create inserts a house together with any attached images. GORM writes the
// association in the same transaction, so a failed insert leaves no rows.
func (r *houseRepository) Create(ctx context.Context, house *domain.House) error {
	if err := r.db.WithContext(ctx).Create(house).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Update persists house field changes and appends new images atomically.
func (r *houseRepository) Update(ctx context.Context, house *domain.House, newImages []domain.HouseImage) error {
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Save(house).Error; err != nil {
			return err
		}
		if len(newImages) > 0 {
			if err := tx.Create(&newImages).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// SoftDelete flips is_active to false on the house and all of its images in
// one transaction. Already-inactive houses are deleted again without error.
func (r *houseRepository) SoftDelete(ctx context.Context, id uint) error {
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var house domain.House
		if err := tx.First(&house, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewAppError(domain.CodeNotFound, "House not found", nil)
			}
			return err
		}
		if err := tx.Model(&domain.House{}).Where("id = ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.HouseImage{}).Where("house_id = ?", id).
			Update("is_active", false).Error
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// MaxActiveImageSortOrder returns the highest sort_order among a house's
// active images, or -1 when there are none, so that appended images continue
// the sequence instead of restarting at zero.
func (r *houseRepository) MaxActiveImageSortOrder(ctx context.Context, houseID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&domain.HouseImage{}).
		Where("house_id = ? AND is_active = ?", houseID, true).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, mapError(err)
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// GetImage returns the image only when it belongs to the given house.
func (r *houseRepository) GetImage(ctx context.Context, houseID, imageID uint) (*domain.HouseImage, error) {
	var img domain.HouseImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND house_id = ?", imageID, houseID).
		First(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewAppError(domain.CodeNotFound, "Image not found", nil)
		}
		return nil, mapError(err)
	}
	return &img, nil
}

// DeleteImage permanently removes one image row.
func (r *houseRepository) DeleteImage(ctx context.Context, houseID, imageID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND house_id = ?", imageID, houseID).
		Delete(&domain.HouseImage{})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "Image not found", nil)
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
