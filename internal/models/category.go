package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CategoryNode is one entry of a caller-supplied category list. It is either
// a FlatCategory or a NestedCategory; no other implementations exist.
type CategoryNode interface {
	NodeID() string
	NodeName() string
	categoryNode()
}

// FlatCategory references its parent by id. A nil or empty ParentID marks a
// top-level category.
type FlatCategory struct {
	ID       string
	Name     string
	ParentID *string
}

// NestedCategory is a top-level category that may embed its subcategories.
// A nil Subcategories slice means no list was supplied.
type NestedCategory struct {
	ID            string
	Name          string
	Subcategories []Subcategory
}

// Subcategory is a child embedded in a NestedCategory.
type Subcategory struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func (c FlatCategory) NodeID() string   { return c.ID }
func (c FlatCategory) NodeName() string { return c.Name }
func (FlatCategory) categoryNode()      {}

func (c NestedCategory) NodeID() string   { return c.ID }
func (c NestedCategory) NodeName() string { return c.Name }
func (NestedCategory) categoryNode()      {}

// IsSubcategory reports whether the flat entry points at a parent.
func (c FlatCategory) IsSubcategory() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// StringPtr returns a pointer to s, handy for building FlatCategory literals.
func StringPtr(s string) *string {
	return &s
}

// CategoryRecord is the on-disk (YAML or JSON) representation of a category.
// Whether the file used the flat or the nested layout is decided by which
// keys were present, which is only observable while decoding.
type CategoryRecord struct {
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string        `json:"name" yaml:"name"`
	ParentID      *string       `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
	Icon          string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color         string        `json:"color,omitempty" yaml:"color,omitempty"`
	Slug          string        `json:"slug,omitempty" yaml:"slug,omitempty"`
	Position      *int          `json:"position,omitempty" yaml:"position,omitempty"`
	Visible       *bool         `json:"visible,omitempty" yaml:"visible,omitempty"`

	hasParentKey        bool
	hasSubcategoriesKey bool
}

// CategoriesConfig represents the structure of a categories file.
type CategoriesConfig struct {
	Categories []CategoryRecord `json:"categories" yaml:"categories"`
}

type categoryRecordFields CategoryRecord

// UnmarshalYAML decodes a record and remembers whether parent_id or
// subcategories appeared, even with a null or empty value.
func (r *CategoryRecord) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("category entry must be a mapping, got line %d", value.Line)
	}
	var fields categoryRecordFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*r = CategoryRecord(fields)
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "parent_id":
			r.hasParentKey = true
		case "subcategories":
			r.hasSubcategoriesKey = true
		}
	}
	return nil
}

// UnmarshalJSON is the JSON counterpart of UnmarshalYAML.
func (r *CategoryRecord) UnmarshalJSON(data []byte) error {
	var fields categoryRecordFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*r = CategoryRecord(fields)
	_, r.hasParentKey = keys["parent_id"]
	_, r.hasSubcategoriesKey = keys["subcategories"]
	return nil
}

// IsVisible reports whether the record should be listed. Missing means visible.
func (r CategoryRecord) IsVisible() bool {
	return r.Visible == nil || *r.Visible
}

// ToNode converts the record into the matching CategoryNode variant.
func (r CategoryRecord) ToNode() CategoryNode {
	if r.hasParentKey || r.ParentID != nil {
		return FlatCategory{ID: r.ID, Name: r.Name, ParentID: r.ParentID}
	}
	node := NestedCategory{ID: r.ID, Name: r.Name}
	if r.hasSubcategoriesKey || r.Subcategories != nil {
		node.Subcategories = append([]Subcategory{}, r.Subcategories...)
	}
	return node
}

// ToNodes converts every record.
func ToNodes(records []CategoryRecord) []CategoryNode {
	nodes := make([]CategoryNode, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, r.ToNode())
	}
	return nodes
}
