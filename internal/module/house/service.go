package house

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/eimonte/estate/internal/domain"
)

const defaultImageType = "kita"

// Service defines the listing business operations.
type Service interface {
	ListActive(ctx context.Context) ([]domain.House, error)
	ListAll(ctx context.Context) ([]domain.House, error)
	Get(ctx context.Context, id uint) (*domain.House, error)
	Create(ctx context.Context, form *HouseForm, files []*multipart.FileHeader) (*domain.House, error)
	Update(ctx context.Context, id uint, form *HouseForm, files []*multipart.FileHeader) (*domain.House, error)
	Delete(ctx context.Context, id uint) error
	DeleteImage(ctx context.Context, houseID, imageID uint) error
}

// FileStore is the storage surface the service needs for listing images.
// *storage.FileStore satisfies it.
type FileStore interface {
	ValidateFiles(files []*multipart.FileHeader) error
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicURL string) error
	Cleanup(publicURLs []string)
}

// houseService implements Service.
type houseService struct {
	repo  domain.HouseRepository
	store FileStore
}

// NewService creates a new listing Service.
func NewService(repo domain.HouseRepository, store FileStore) Service {
	return &houseService{repo: repo, store: store}
}

// ListActive returns all publicly visible houses.
func (s *houseService) ListActive(ctx context.Context) ([]domain.House, error) {
	return s.repo.ListActive(ctx)
}

// ListAll returns every house including soft-deleted ones, for admin auditing.
func (s *houseService) ListAll(ctx context.Context) ([]domain.House, error) {
	return s.repo.ListAll(ctx)
}

// Get returns one house with its active images.
func (s *houseService) Get(ctx context.Context, id uint) (*domain.House, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the submission, stores the uploaded images, and persists
// the house with one image row per file. Files already written are cleaned up
// when the database write fails, so storage never accumulates orphans.
func (s *houseService) Create(ctx context.Context, form *HouseForm, files []*multipart.FileHeader) (*domain.House, error) {
	title := ""
	if form.Title != nil {
		title = strings.TrimSpace(*form.Title)
	}

	fields := make(map[string]string)
	if title == "" {
		fields["title"] = "Title is required"
	}
	switch {
	case !form.Has(fieldPrice):
		fields["price"] = "Price is required"
	case form.Price == nil:
		// Present but unparseable, e.g. "abc".
		fields["price"] = "Price must be a number"
	case *form.Price < 0:
		fields["price"] = "Price must not be negative"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("Title and price are required fields", fields)
	}

	if err := s.store.ValidateFiles(files); err != nil {
		return nil, err
	}

	house := &domain.House{
		Title:     title,
		Price:     *form.Price,
		HouseType: domain.HouseTypeNamas,
		Status:    domain.StatusParduodamas,
		IsActive:  true,
	}
	form.Apply(house)

	saved := make([]string, 0, len(files))
	for i, fh := range files {
		url, err := s.store.Save(fh)
		if err != nil {
			s.store.Cleanup(saved)
			return nil, domain.NewAppError(domain.CodeInternal, "failed to store uploaded image", err)
		}
		saved = append(saved, url)
		house.Images = append(house.Images, domain.HouseImage{
			ImageURL:  url,
			Caption:   imageCaption(i),
			ImageType: defaultImageType,
			SortOrder: i,
			IsActive:  true,
		})
	}

	if err := s.repo.Create(ctx, house); err != nil {
		s.store.Cleanup(saved)
		return nil, err
	}

	return s.repo.GetByID(ctx, house.ID)
}

// Update applies a partial update: only fields present in the submission
// change. Newly uploaded images are appended with sort order continuing after
// the house's current maximum, not restarting at zero.
func (s *houseService) Update(ctx context.Context, id uint, form *HouseForm, files []*multipart.FileHeader) (*domain.House, error) {
	house, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	if form.Has(fieldTitle) && (form.Title == nil || strings.TrimSpace(*form.Title) == "") {
		fields["title"] = "Title must not be empty"
	}
	if form.Has(fieldPrice) {
		if form.Price == nil {
			fields["price"] = "Price must be a number"
		} else if *form.Price < 0 {
			fields["price"] = "Price must not be negative"
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError("validation error", fields)
	}

	if err := s.store.ValidateFiles(files); err != nil {
		return nil, err
	}

	form.Apply(house)

	nextSort := 0
	if len(files) > 0 {
		maxSort, err := s.repo.MaxActiveImageSortOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		nextSort = maxSort + 1
	}

	saved := make([]string, 0, len(files))
	newImages := make([]domain.HouseImage, 0, len(files))
	for i, fh := range files {
		url, err := s.store.Save(fh)
		if err != nil {
			s.store.Cleanup(saved)
			return nil, domain.NewAppError(domain.CodeInternal, "failed to store uploaded image", err)
		}
		saved = append(saved, url)
		order := nextSort + i
		newImages = append(newImages, domain.HouseImage{
			HouseID:   house.ID,
			ImageURL:  url,
			Caption:   imageCaption(order),
			ImageType: defaultImageType,
			SortOrder: order,
			IsActive:  true,
		})
	}

	if err := s.repo.Update(ctx, house, newImages); err != nil {
		s.store.Cleanup(saved)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete soft-deletes a house: the row and all its image rows are kept but
// flipped inactive together.
func (s *houseService) Delete(ctx context.Context, id uint) error {
	return s.repo.SoftDelete(ctx, id)
}

// DeleteImage permanently removes one image: the stored file first (a missing
// file is tolerated), then the database row.
func (s *houseService) DeleteImage(ctx context.Context, houseID, imageID uint) error {
	img, err := s.repo.GetImage(ctx, houseID, imageID)
	if err != nil {
		return err
	}

	if err := s.store.Remove(img.ImageURL); err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to remove stored image", err)
	}

	return s.repo.DeleteImage(ctx, houseID, imageID)
}

// imageCaption returns the default caption for the image at the given
// zero-based sort position.
func imageCaption(sortOrder int) string {
	return fmt.Sprintf("Namo nuotrauka %d", sortOrder+1)
}
