package dimension

import "github.com/google/uuid"

// Contact references the person credited as author.
type Contact struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// FullName joins first and last name.
func (c *Contact) FullName() string {
	if c == nil {
		return ""
	}
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Tag references a free-form label identified by its name.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Category references a taxonomy node identified by id.
type Category struct {
	ID   int    `json:"id"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// MediaRef references a media item by id.
type MediaRef struct {
	ID int `json:"id"`
}

// TagNames returns tag names in order.
func TagNames(tags []*Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != nil {
			out = append(out, tag.Name)
		}
	}
	return out
}

// CategoryIDs returns category ids in order.
func CategoryIDs(categories []*Category) []int {
	out := make([]int, 0, len(categories))
	for _, category := range categories {
		if category != nil {
			out = append(out, category.ID)
		}
	}
	return out
}
