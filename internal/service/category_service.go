package service

import (
	"context"
	"log"
	"slices"

	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/shared/events"
)

type CategoryService struct {
	tx           Transactor
	categories   CategoryRepository
	products     ProductRepository
	reservations ReservationRepository
	sales        SaleRepository
	publisher    EventPublisher
}

func NewCategoryService(
	tx Transactor,
	categories CategoryRepository,
	products ProductRepository,
	reservations ReservationRepository,
	sales SaleRepository,
	publisher EventPublisher,
) *CategoryService {
	return &CategoryService{
		tx:           tx,
		categories:   categories,
		products:     products,
		reservations: reservations,
		sales:        sales,
		publisher:    publisher,
	}
}

func (s *CategoryService) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.ListRoots(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, categoryID uint) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if domain.IsNotFound(err) {
		return nil, domain.CategoryNotFound("category.GetByID", categoryID)
	}
	return category, err
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categories.GetByName(ctx, name)
	if domain.IsNotFound(err) {
		return nil, domain.CategoryNameNotFound("category.GetByName", name)
	}
	return category, err
}

func (s *CategoryService) Add(ctx context.Context, request domain.CreateCategoryRequest) (*domain.Category, error) {
	const op = "category.Add"
	request.Normalize()
	if request.Name == "" {
		return nil, domain.InvalidInput(op, "Category name is required.")
	}

	category := &domain.Category{Name: request.Name, ParentID: request.ParentID}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if request.ParentID != nil {
			exists, err := s.categories.Exists(ctx, *request.ParentID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.CategoryNotFound(op, *request.ParentID)
			}
		}
		if err := s.checkName(ctx, op, request.Name, 0); err != nil {
			return err
		}
		return s.categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	category.Subcategories = []*domain.Category{}
	log.Printf("Category created: ID=%d, Name=%s", category.ID, category.Name)
	return category, nil
}

func (s *CategoryService) checkName(ctx context.Context, op, name string, excludeID uint) error {
	taken, err := s.categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict(op, "Category with name '%s' already exists.", name)
	}
	return nil
}

// Update renames and/or moves a category. A category cannot be moved under
// itself or any of its descendants.
func (s *CategoryService) Update(ctx context.Context, categoryID uint, request domain.UpdateCategoryRequest) (*domain.Category, error) {
	const op = "category.Update"
	request.Normalize()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.categories.GetByID(ctx, categoryID)
		if domain.IsNotFound(err) {
			return domain.CategoryNotFound(op, categoryID)
		}
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if request.Name != nil {
			if *request.Name == "" {
				return domain.InvalidInput(op, "Category name must not be empty.")
			}
			if err := s.checkName(ctx, op, *request.Name, categoryID); err != nil {
				return err
			}
			fields["name"] = *request.Name
		}

		switch {
		case request.ClearParent:
			fields["parent_id"] = nil
		case request.ParentID != nil:
			parentID := *request.ParentID
			if slices.Contains(current.SubtreeIDs(), parentID) {
				return domain.InvalidInput(op,
					"Category %d cannot be moved under itself or one of its subcategories.", categoryID)
			}
			exists, err := s.categories.Exists(ctx, parentID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.CategoryNotFound(op, parentID)
			}
			fields["parent_id"] = parentID
		}

		if len(fields) == 0 {
			return nil
		}
		return s.categories.Update(ctx, categoryID, fields)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Category updated: ID=%d", categoryID)
	return s.GetByID(ctx, categoryID)
}

// Delete removes the category, all of its descendants, their products and
// the reservations and sales of those products in one transaction.
func (s *CategoryService) Delete(ctx context.Context, categoryID uint) error {
	const op = "category.Delete"

	var payload events.CategoryDeletedPayload
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categories.GetByID(ctx, categoryID)
		if domain.IsNotFound(err) {
			return domain.CategoryNotFound(op, categoryID)
		}
		if err != nil {
			return err
		}

		categoryIDs := category.SubtreeIDs()
		productIDs, err := s.products.IDsByCategories(ctx, categoryIDs)
		if err != nil {
			return err
		}

		if err := s.reservations.DeleteByProducts(ctx, productIDs); err != nil {
			return err
		}
		if err := s.sales.DeleteByProducts(ctx, productIDs); err != nil {
			return err
		}
		if err := s.products.Delete(ctx, productIDs); err != nil {
			return err
		}
		if err := s.categories.Delete(ctx, categoryIDs); err != nil {
			return err
		}

		payload = events.CategoryDeletedPayload{CategoryIDs: categoryIDs, ProductIDs: productIDs}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Category deleted: ID=%d, Categories=%d, Products=%d",
		categoryID, len(payload.CategoryIDs), len(payload.ProductIDs))
	publish(s.publisher, events.CategoryDeletedEvent, payload)
	return nil
}
