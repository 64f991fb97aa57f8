package house

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/eimonte/estate/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the listing tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.House{}, &domain.HouseImage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newHouse(title string, sortOrder int, active bool) *domain.House {
	return &domain.House{
		Title:     title,
		Price:     100000,
		HouseType: domain.HouseTypeNamas,
		Status:    domain.StatusParduodamas,
		SortOrder: sortOrder,
		IsActive:  active,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas Vilniuje", 0, true)
	house.Images = []domain.HouseImage{
		{ImageURL: "/uploads/houses/a.jpg", Caption: "Namo nuotrauka 1", ImageType: "kita", SortOrder: 0, IsActive: true},
		{ImageURL: "/uploads/houses/b.jpg", Caption: "Namo nuotrauka 2", ImageType: "kita", SortOrder: 1, IsActive: true},
	}
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if house.ID == 0 {
		t.Fatal("expected non-zero ID after Create")
	}

	got, err := repo.GetByID(ctx, house.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Namas Vilniuje" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Images) != 2 {
		t.Fatalf("len(Images) = %d, want 2", len(got.Images))
	}
	if got.Images[0].HouseID != house.ID {
		t.Errorf("image HouseID = %d, want %d", got.Images[0].HouseID, house.ID)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	if !domain.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestListActive_FiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	second := newHouse("Antras", 2, true)
	first := newHouse("Pirmas", 1, true)
	hidden := newHouse("Pasleptas", 0, false)
	for _, h := range []*domain.House{second, first, hidden} {
		if err := repo.Create(ctx, h); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	houses, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(houses) != 2 {
		t.Fatalf("len = %d, want 2 (inactive filtered out)", len(houses))
	}
	if houses[0].Title != "Pirmas" || houses[1].Title != "Antras" {
		t.Errorf("order = [%s, %s], want sort_order ascending", houses[0].Title, houses[1].Title)
	}
}

func TestListActive_HidesInactiveImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	house.Images = []domain.HouseImage{
		{ImageURL: "/uploads/houses/b.jpg", SortOrder: 1, IsActive: true},
		{ImageURL: "/uploads/houses/x.jpg", SortOrder: 0, IsActive: false},
		{ImageURL: "/uploads/houses/a.jpg", SortOrder: 0, IsActive: true},
	}
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}

	houses, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(houses) != 1 {
		t.Fatalf("len = %d, want 1", len(houses))
	}
	imgs := houses[0].Images
	if len(imgs) != 2 {
		t.Fatalf("len(Images) = %d, want 2 (inactive hidden)", len(imgs))
	}
	if imgs[0].ImageURL != "/uploads/houses/a.jpg" || imgs[1].ImageURL != "/uploads/houses/b.jpg" {
		t.Errorf("images not ordered by sort_order: %s, %s", imgs[0].ImageURL, imgs[1].ImageURL)
	}
}

func TestListAll_IncludesInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	active := newHouse("Aktyvus", 0, true)
	inactive := newHouse("Istrintas", 1, false)
	inactive.Images = []domain.HouseImage{
		{ImageURL: "/uploads/houses/old.jpg", IsActive: false},
	}
	for _, h := range []*domain.House{active, inactive} {
		if err := repo.Create(ctx, h); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	houses, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(houses) != 2 {
		t.Fatalf("len = %d, want 2", len(houses))
	}
	if len(houses[1].Images) != 1 {
		t.Errorf("inactive images must be visible to admins, got %d", len(houses[1].Images))
	}
}

func TestUpdate_AppendsImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	house.Images = []domain.HouseImage{
		{ImageURL: "/uploads/houses/a.jpg", SortOrder: 0, IsActive: true},
	}
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}

	house.Title = "Atnaujintas"
	added := []domain.HouseImage{
		{HouseID: house.ID, ImageURL: "/uploads/houses/b.jpg", SortOrder: 1, IsActive: true},
	}
	if err := repo.Update(ctx, house, added); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, house.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Atnaujintas" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Images) != 2 {
		t.Errorf("len(Images) = %d, want 2 (existing preserved, new appended)", len(got.Images))
	}
}

func TestSoftDelete_CascadesToImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	house.Images = []domain.HouseImage{
		{ImageURL: "/uploads/houses/a.jpg", IsActive: true},
		{ImageURL: "/uploads/houses/b.jpg", IsActive: true},
	}
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SoftDelete(ctx, house.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	var got domain.House
	if err := db.First(&got, house.ID).Error; err != nil {
		t.Fatalf("house row must survive soft delete: %v", err)
	}
	if got.IsActive {
		t.Error("house should be inactive after soft delete")
	}

	var activeImages int64
	db.Model(&domain.HouseImage{}).
		Where("house_id = ? AND is_active = ?", house.ID, true).
		Count(&activeImages)
	if activeImages != 0 {
		t.Errorf("active image rows = %d, want 0 after cascade", activeImages)
	}

	var totalImages int64
	db.Model(&domain.HouseImage{}).Where("house_id = ?", house.ID).Count(&totalImages)
	if totalImages != 2 {
		t.Errorf("image rows = %d, soft delete must not remove rows", totalImages)
	}
}

func TestSoftDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)

	err := repo.SoftDelete(context.Background(), 12345)
	if !domain.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSoftDelete_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SoftDelete(ctx, house.ID); err != nil {
		t.Fatalf("first SoftDelete: %v", err)
	}
	if err := repo.SoftDelete(ctx, house.ID); err != nil {
		t.Errorf("second SoftDelete should succeed, got %v", err)
	}
}

func TestMaxActiveImageSortOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}

	max, err := repo.MaxActiveImageSortOrder(ctx, house.ID)
	if err != nil {
		t.Fatalf("MaxActiveImageSortOrder: %v", err)
	}
	if max != -1 {
		t.Errorf("max = %d, want -1 with no images", max)
	}

	images := []domain.HouseImage{
		{HouseID: house.ID, ImageURL: "/uploads/houses/a.jpg", SortOrder: 0, IsActive: true},
		{HouseID: house.ID, ImageURL: "/uploads/houses/b.jpg", SortOrder: 3, IsActive: true},
		{HouseID: house.ID, ImageURL: "/uploads/houses/c.jpg", SortOrder: 9, IsActive: false},
	}
	if err := db.Create(&images).Error; err != nil {
		t.Fatalf("seed images: %v", err)
	}

	max, err = repo.MaxActiveImageSortOrder(ctx, house.ID)
	if err != nil {
		t.Fatalf("MaxActiveImageSortOrder: %v", err)
	}
	if max != 3 {
		t.Errorf("max = %d, want 3 (inactive images ignored)", max)
	}
}

func TestGetImage_PairingEnforced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	first := newHouse("Pirmas", 0, true)
	first.Images = []domain.HouseImage{{ImageURL: "/uploads/houses/a.jpg", IsActive: true}}
	second := newHouse("Antras", 1, true)
	for _, h := range []*domain.House{first, second} {
		if err := repo.Create(ctx, h); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	imageID := first.Images[0].ID

	if _, err := repo.GetImage(ctx, first.ID, imageID); err != nil {
		t.Errorf("GetImage with correct pairing: %v", err)
	}

	_, err := repo.GetImage(ctx, second.ID, imageID)
	if !domain.IsNotFound(err) {
		t.Errorf("image of another house must look missing, got %v", err)
	}
}

func TestDeleteImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHouseRepository(db)
	ctx := context.Background()

	house := newHouse("Namas", 0, true)
	house.Images = []domain.HouseImage{{ImageURL: "/uploads/houses/a.jpg", IsActive: true}}
	if err := repo.Create(ctx, house); err != nil {
		t.Fatalf("Create: %v", err)
	}
	imageID := house.Images[0].ID

	if err := repo.DeleteImage(ctx, house.ID, imageID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}

	var count int64
	db.Model(&domain.HouseImage{}).Where("id = ?", imageID).Count(&count)
	if count != 0 {
		t.Error("image row must be removed permanently")
	}

	err := repo.DeleteImage(ctx, house.ID, imageID)
	if !domain.IsNotFound(err) {
		t.Errorf("deleting a missing image should be not-found, got %v", err)
	}
}
