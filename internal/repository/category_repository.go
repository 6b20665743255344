package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	base
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{base{db: db}}
}

func (r *CategoryRepository) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	// Every category descends from some root, so one read covers all subtrees.
	var all []*domain.Category
	if err := r.conn(ctx).Order("id").Find(&all).Error; err != nil {
		return nil, translateError("category.ListRoots", err)
	}

	roots := []*domain.Category{}
	for _, category := range all {
		if category.IsRoot() {
			category.AttachSubtree(all)
			roots = append(roots, category)
		}
	}
	return roots, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.conn(ctx).First(&category, categoryID).Error; err != nil {
		return nil, translateError("category.GetByID", err)
	}
	if err := r.loadSubtree(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	if err := r.conn(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translateError("category.GetByName", err)
	}
	if err := r.loadSubtree(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// loadSubtree walks the hierarchy one level per query until no children
// remain.
func (r *CategoryRepository) loadSubtree(ctx context.Context, root *domain.Category) error {
	var descendants []*domain.Category
	seen := map[uint]bool{root.ID: true}
	frontier := []uint{root.ID}

	for len(frontier) > 0 {
		var children []*domain.Category
		if err := r.conn(ctx).Where("parent_id IN ?", frontier).Order("id").Find(&children).Error; err != nil {
			return translateError("category.loadSubtree", err)
		}

		next := make([]uint, 0, len(children))
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			descendants = append(descendants, child)
			next = append(next, child.ID)
		}
		frontier = next
	}

	root.AttachSubtree(descendants)
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.Category{}).Where("id = ?", categoryID).Count(&count).Error
	if err != nil {
		return false, translateError("category.Exists", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.Category{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translateError("category.NameTaken", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(category).Error
	return translateError("category.Create", err)
}

func (r *CategoryRepository) Update(ctx context.Context, categoryID uint, fields map[string]interface{}) error {
	result := r.conn(ctx).Model(&domain.Category{}).Where("id = ?", categoryID).Updates(fields)
	return affected("category.Update", result)
}

// Delete removes the given categories in one statement, so parent and child
// rows of the same subtree go together.
func (r *CategoryRepository) Delete(ctx context.Context, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	result := r.conn(ctx).Where("id IN ?", categoryIDs).Delete(&domain.Category{})
	return affected("category.Delete", result)
}
