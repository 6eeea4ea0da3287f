package models

import (
	"encoding/json"
	"fmt"
)

// CategoryLevel is the depth of a node in the hierarchy, starting at 1.
type CategoryLevel int

const (
	LevelCategory     CategoryLevel = 1
	LevelSubcategory  CategoryLevel = 2
	LevelProductGroup CategoryLevel = 3
)

func (l CategoryLevel) String() string {
	switch l {
	case LevelCategory:
		return "category"
	case LevelSubcategory:
		return "subcategory"
	case LevelProductGroup:
		return "product group"
	default:
		return fmt.Sprintf("level %d", int(l))
	}
}

// Category is a row of the flat GET /category listing.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           flexInt `json:"id"`
		Name         string  `json:"name"`
		CategoryName string  `json:"category_name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = int64(raw.ID)
	c.Name = firstNonEmpty(raw.Name, raw.CategoryName)
	return nil
}

// CategoryNode is a node of the three-level hierarchy. Level is assigned
// from depth when the tree is parsed.
type CategoryNode struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Level    CategoryLevel   `json:"level"`
	Children []*CategoryNode `json:"children"`
}

type categoryPayload struct {
	ID               flexInt           `json:"id"`
	Name             string            `json:"name"`
	CategoryName     string            `json:"category_name"`
	SubcategoryName  string            `json:"subcategory_name"`
	ProductGroupName string            `json:"product_group_name"`
	Level            int               `json:"level"`
	Children         []categoryPayload `json:"children"`
	Subcategories    []categoryPayload `json:"subcategories"`
	ProductGroups    []categoryPayload `json:"product_groups"`
}

// ParseCategoryTree decodes the nested hierarchy returned by
// GET /category/all-nested. A node whose declared level differs from its
// depth, or any node below L3, is rejected.
func ParseCategoryTree(data []byte) ([]*CategoryNode, error) {
	var roots []categoryPayload
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("failed to decode category hierarchy: %w", err)
	}
	return buildLevel(roots, LevelCategory)
}

func buildLevel(items []categoryPayload, level CategoryLevel) ([]*CategoryNode, error) {
	nodes := make([]*CategoryNode, 0, len(items))
	for _, item := range items {
		if level > LevelProductGroup {
			return nil, fmt.Errorf("category %d is nested deeper than %s", int64(item.ID), LevelProductGroup)
		}
		if item.Level != 0 && CategoryLevel(item.Level) != level {
			return nil, fmt.Errorf("category %d declares level %d but sits at depth %d", int64(item.ID), item.Level, int(level))
		}

		var kids []categoryPayload
		kids = append(kids, item.Subcategories...)
		kids = append(kids, item.ProductGroups...)
		kids = append(kids, item.Children...)

		children, err := buildLevel(kids, level+1)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &CategoryNode{
			ID:       int64(item.ID),
			Name:     firstNonEmpty(item.Name, item.CategoryName, item.SubcategoryName, item.ProductGroupName),
			Level:    level,
			Children: children,
		})
	}
	return nodes, nil
}

// NodeRef identifies a node. Categories and sub-items live in separate
// tables on the backend, so an id alone is ambiguous across levels.
type NodeRef struct {
	Level CategoryLevel `json:"level"`
	ID    int64         `json:"id"`
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s %d", r.Level, r.ID)
}

// Ref returns the reference of the node.
func (n *CategoryNode) Ref() NodeRef {
	return NodeRef{Level: n.Level, ID: n.ID}
}

// FindCategoryNode walks the hierarchy depth-first and returns the node
// matching ref, or nil.
func FindCategoryNode(roots []*CategoryNode, ref NodeRef) *CategoryNode {
	for _, n := range roots {
		if n.Level == ref.Level && n.ID == ref.ID {
			return n
		}
		if n.Level < ref.Level {
			if found := FindCategoryNode(n.Children, ref); found != nil {
				return found
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
