package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// all returns copies of every category in id order; callers hold mu.
func (r *CategoryRepository) all() []*domain.Category {
	s := r.store
	out := make([]*domain.Category, 0, len(s.categories))
	for _, id := range sortedIDs(s.categories) {
		out = append(out, s.categoryOut(s.categories[id]))
	}
	return out
}

func (r *CategoryRepository) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.all()
	roots := []*domain.Category{}
	for _, category := range all {
		if category.IsRoot() {
			category.AttachSubtree(all)
			roots = append(roots, category)
		}
	}
	return roots, nil
}

func (r *CategoryRepository) find(match func(domain.Category) bool) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.all()
	for _, category := range all {
		if match(*category) {
			category.AttachSubtree(all)
			return category, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID uint) (*domain.Category, error) {
	return r.find(func(c domain.Category) bool { return c.ID == categoryID })
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.find(func(c domain.Category) bool { return c.Name == name })
}

func (r *CategoryRepository) Exists(ctx context.Context, categoryID uint) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.categories[categoryID]
	return ok, nil
}

func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.nameTaken(name, excludeID), nil
}

func (r *CategoryRepository) nameTaken(name string, excludeID uint) bool {
	for id, category := range r.store.categories {
		if id != excludeID && category.Name == name {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.nameTaken(category.Name, 0) {
		return domain.Conflict("category.Create", "A record with the same unique value already exists.")
	}
	if category.ParentID != nil {
		if _, ok := s.categories[*category.ParentID]; !ok {
			return domain.Conflict("category.Create", "The record references, or is referenced by, another record.")
		}
	}

	s.seq.category++
	category.ID = s.seq.category
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt

	row := *category
	row.ParentID = cloneUint(category.ParentID)
	row.Parent = nil
	row.Subcategories = nil
	s.categories[row.ID] = row
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, categoryID uint, fields map[string]interface{}) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.categories[categoryID]
	if !ok {
		return domain.ErrNotFound
	}

	for column, value := range fields {
		switch column {
		case "name":
			name := value.(string)
			if r.nameTaken(name, categoryID) {
				return domain.Conflict("category.Update", "A record with the same unique value already exists.")
			}
			row.Name = name
		case "parent_id":
			parentID, set := value.(uint)
			if !set {
				row.ParentID = nil
				continue
			}
			if _, ok := s.categories[parentID]; !ok {
				return domain.Conflict("category.Update", "The record references, or is referenced by, another record.")
			}
			row.ParentID = &parentID
		}
	}

	row.UpdatedAt = s.now()
	s.categories[categoryID] = row
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(categoryIDs) == 0 {
		return nil
	}

	found := false
	for _, id := range categoryIDs {
		if _, ok := s.categories[id]; ok {
			found = true
		}
	}
	if !found {
		return domain.ErrNotFound
	}

	for _, category := range s.categories {
		if category.ParentID != nil && contains(categoryIDs, *category.ParentID) && !contains(categoryIDs, category.ID) {
			return domain.Conflict("category.Delete", "The record references, or is referenced by, another record.")
		}
	}
	for _, product := range s.products {
		if contains(categoryIDs, product.CategoryID) {
			return domain.Conflict("category.Delete", "The record references, or is referenced by, another record.")
		}
	}

	for _, id := range categoryIDs {
		delete(s.categories, id)
	}
	return nil
}
