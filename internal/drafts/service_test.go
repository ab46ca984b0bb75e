package drafts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/internal/customization"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
)

type stubDraftStore struct {
	rows        map[uuid.UUID]models.Draft
	listOrder   []uuid.UUID
	createErr   error
	updateStamp time.Time
}

func newStubDraftStore() *stubDraftStore {
	return &stubDraftStore{rows: map[uuid.UUID]models.Draft{}}
}

func (s *stubDraftStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Draft, error) {
	var out []models.Draft
	for _, id := range s.listOrder {
		row := s.rows[id]
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubDraftStore) FindByIDAndUser(ctx context.Context, draftID, userID uuid.UUID) (*models.Draft, error) {
	row, ok := s.rows[draftID]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := row
	return &copied, nil
}

func (s *stubDraftStore) Create(ctx context.Context, draft *models.Draft) error {
	if s.createErr != nil {
		return s.createErr
	}
	draft.ID = uuid.New()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt
	s.rows[draft.ID] = *draft
	s.listOrder = append(s.listOrder, draft.ID)
	return nil
}

func (s *stubDraftStore) Update(ctx context.Context, draft *models.Draft) error {
	existing, ok := s.rows[draft.ID]
	if !ok || existing.UserID != draft.UserID {
		return gorm.ErrRecordNotFound
	}
	existing.Customization = draft.Customization
	existing.Name = draft.Name
	existing.UpdatedAt = s.updateStamp
	if existing.UpdatedAt.IsZero() {
		existing.UpdatedAt = time.Now()
	}
	s.rows[draft.ID] = existing
	*draft = existing
	return nil
}

func (s *stubDraftStore) Delete(ctx context.Context, draftID, userID uuid.UUID) error {
	row, ok := s.rows[draftID]
	if !ok || row.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.rows, draftID)
	return nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, store *stubDraftStore, loader *stubProductLoader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: store, Products: loader})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSaveDefaultsDraftName(t *testing.T) {
	productID := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card", IsActive: true},
	}}
	svc := newTestService(t, store, loader)
	svc.(*service).now = func() time.Time {
		return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	}

	dto, err := svc.Save(context.Background(), uuid.New(), SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if dto.Name != "Matte Card - Mar 14, 2026" {
		t.Fatalf("unexpected default name %q", dto.Name)
	}
	if dto.ProductName != "Matte Card" {
		t.Fatalf("expected product name snapshot, got %q", dto.ProductName)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected persisted id")
	}
}

func TestSaveKeepsSuppliedName(t *testing.T) {
	productID := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card"},
	}}
	svc := newTestService(t, store, loader)

	name := "  Conference batch  "
	dto, err := svc.Save(context.Background(), uuid.New(), SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
		Name:          &name,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if dto.Name != "Conference batch" {
		t.Fatalf("unexpected name %q", dto.Name)
	}
}

func TestSaveRejectsUnknownProduct(t *testing.T) {
	store := newStubDraftStore()
	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.Save(context.Background(), uuid.New(), SaveDraftInput{
		ProductID:     uuid.New(),
		Customization: customization.DefaultDesign(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("no row should be created")
	}
}

func TestUpdateOverwritesInPlace(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card"},
	}}
	svc := newTestService(t, store, loader)

	saved, err := svc.Save(context.Background(), userID, SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	edited := customization.DefaultDesign()
	edited.Front.Name = "Jane"
	updated, err := svc.Update(context.Background(), saved.ID, userID, UpdateDraftInput{Customization: edited})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != saved.ID {
		t.Fatalf("update must keep the draft id, got %s want %s", updated.ID, saved.ID)
	}
	if updated.Customization.Front.Name != "Jane" {
		t.Fatalf("unexpected customization %+v", updated.Customization)
	}
	if updated.Name != saved.Name {
		t.Fatalf("name should be unchanged without input, got %q", updated.Name)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(store.rows))
	}

	stored := store.rows[saved.ID]
	design, format := customization.Decode(stored.Customization)
	if format != customization.FormatCurrent {
		t.Fatalf("stored payload should be current format, got %s", format)
	}
	if design.Front.Name != "Jane" {
		t.Fatalf("stored customization not overwritten: %+v", design)
	}
}

func TestUpdateReturnsStoredTimestamp(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	store := newStubDraftStore()
	store.updateStamp = time.Date(2026, time.April, 2, 9, 30, 0, 0, time.UTC)
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card"},
	}}
	svc := newTestService(t, store, loader)
	svc.(*service).now = func() time.Time {
		return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	saved, err := svc.Save(context.Background(), userID, SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	updated, err := svc.Update(context.Background(), saved.ID, userID, UpdateDraftInput{
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.Equal(store.updateStamp) {
		t.Fatalf("updated_at %s should match the stored row, not the service clock", updated.UpdatedAt)
	}
	if !updated.UpdatedAt.Equal(store.rows[saved.ID].UpdatedAt) {
		t.Fatalf("dto timestamp %s diverges from stored %s", updated.UpdatedAt, store.rows[saved.ID].UpdatedAt)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	productID := uuid.New()
	owner := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card"},
	}}
	svc := newTestService(t, store, loader)

	saved, err := svc.Save(context.Background(), owner, SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = svc.Update(context.Background(), saved.ID, uuid.New(), UpdateDraftInput{
		Customization: customization.DefaultDesign(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestApplyCommandMutatesStoredDraft(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card", Category: enums.ProductCategoryCard},
	}}
	svc := newTestService(t, store, loader)

	saved, err := svc.Save(context.Background(), userID, SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	dto, err := svc.ApplyCommand(context.Background(), saved.ID, userID, customization.SetField{
		Field: customization.FieldName,
		Value: "Jane",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if dto.Customization.Front.Name != "Jane" {
		t.Fatalf("returned design missing edit: %+v", dto.Customization.Front)
	}

	stored, _ := customization.Decode(store.rows[saved.ID].Customization)
	if stored.Front.Name != "Jane" {
		t.Fatalf("edit not persisted: %+v", stored.Front)
	}

	dto, err = svc.ApplyCommand(context.Background(), saved.ID, userID, customization.FlipSide{})
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if dto.Customization.ActiveSide != enums.SideBack {
		t.Fatalf("expected active side back, got %s", dto.Customization.ActiveSide)
	}
}

func TestApplyCommandEnforcesEditorRules(t *testing.T) {
	cardID := uuid.New()
	stickerID := uuid.New()
	userID := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		cardID:    {ID: cardID, Name: "Matte Card", Category: enums.ProductCategoryCard},
		stickerID: {ID: stickerID, Name: "Circle Sticker", Category: enums.ProductCategorySticker},
	}}
	svc := newTestService(t, store, loader)

	sticker, err := svc.Save(context.Background(), userID, SaveDraftInput{
		ProductID:     stickerID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save sticker: %v", err)
	}

	before := store.rows[sticker.ID].Customization
	_, err = svc.ApplyCommand(context.Background(), sticker.ID, userID, customization.FlipSide{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error flipping a single-sided product, got %v", err)
	}
	if string(store.rows[sticker.ID].Customization) != string(before) {
		t.Fatal("rejected command must not touch the stored row")
	}

	card, err := svc.Save(context.Background(), userID, SaveDraftInput{
		ProductID:     cardID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save card: %v", err)
	}

	dto, err := svc.ApplyCommand(context.Background(), card.ID, userID, customization.SelectTemplate{TemplateID: "no-such-template"})
	if err != nil {
		t.Fatalf("unknown template should be a silent no-op, got %v", err)
	}
	if dto.Customization.TemplateID != nil {
		t.Fatalf("unknown template must not stick: %v", *dto.Customization.TemplateID)
	}

	_, err = svc.ApplyCommand(context.Background(), card.ID, uuid.New(), customization.FlipSide{})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestListMigratesLegacyRows(t *testing.T) {
	userID := uuid.New()
	store := newStubDraftStore()
	legacyID := uuid.New()
	store.rows[legacyID] = models.Draft{
		ID:            legacyID,
		UserID:        userID,
		ProductID:     uuid.New(),
		ProductName:   "Matte Card",
		Customization: json.RawMessage(`{"backgroundColor":"#111111","name":"Jane"}`),
	}
	brokenID := uuid.New()
	store.rows[brokenID] = models.Draft{
		ID:            brokenID,
		UserID:        userID,
		ProductID:     uuid.New(),
		ProductName:   "Circle Sticker",
		Customization: json.RawMessage(`not json`),
	}
	store.listOrder = []uuid.UUID{legacyID, brokenID}

	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{}})
	dtos, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected both rows, got %d", len(dtos))
	}

	migrated := dtos[0].Customization
	if migrated.Front.BackgroundColor != "#111111" || migrated.Front.Name != "Jane" {
		t.Fatalf("legacy row not migrated: %+v", migrated.Front)
	}
	if migrated.Back != customization.DefaultSide() {
		t.Fatalf("legacy back should be defaults: %+v", migrated.Back)
	}

	if dtos[1].Customization != customization.DefaultDesign() {
		t.Fatalf("broken row should decode to defaults: %+v", dtos[1].Customization)
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	productID := uuid.New()
	owner := uuid.New()
	store := newStubDraftStore()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Matte Card"},
	}}
	svc := newTestService(t, store, loader)

	saved, err := svc.Save(context.Background(), owner, SaveDraftInput{
		ProductID:     productID,
		Customization: customization.DefaultDesign(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	err = svc.Delete(context.Background(), saved.ID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
	if err := svc.Delete(context.Background(), saved.ID, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("row should be gone")
	}
}
