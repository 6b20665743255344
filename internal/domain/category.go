package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	Parent    *Category `json:"-" gorm:"foreignKey:ParentID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Subcategories is filled by the stores with the full subtree; it is not
	// an ORM association.
	Subcategories []*Category `json:"subcategories" gorm:"-"`
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// AttachSubtree links every category in all that descends from c onto c and
// its descendants, breadth first. all may contain unrelated categories.
func (c *Category) AttachSubtree(all []*Category) {
	children := make(map[uint][]*Category, len(all))
	for _, category := range all {
		if category.ParentID != nil {
			children[*category.ParentID] = append(children[*category.ParentID], category)
		}
	}

	queue := []*Category{c}
	seen := map[uint]bool{c.ID: true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		current.Subcategories = make([]*Category, 0, len(children[current.ID]))
		for _, child := range children[current.ID] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			current.Subcategories = append(current.Subcategories, child)
			queue = append(queue, child)
		}
	}
}

// SubtreeIDs returns the ids of c and all attached descendants.
func (c *Category) SubtreeIDs() []uint {
	ids := []uint{}
	queue := []*Category{c}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		ids = append(ids, current.ID)
		queue = append(queue, current.Subcategories...)
	}
	return ids
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateCategoryRequest is a field patch; nil fields are left unchanged.
// ClearParent moves the category to the root level.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

func (r *UpdateCategoryRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
}
