package taxonomy

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/goliatone/go-cms-content/internal/identity"
)

// TagFactory resolves tag names into tag references, creating missing tags.
type TagFactory struct {
	repo TagRepository
	now  func() time.Time
}

// NewTagFactory constructs a tag factory backed by the repository.
func NewTagFactory(repo TagRepository) *TagFactory {
	return &TagFactory{repo: repo, now: time.Now}
}

// GetOrCreate returns one reference per name, in input order.
func (f *TagFactory) GetOrCreate(ctx context.Context, names []string) ([]*dimension.Tag, error) {
	if len(names) == 0 {
		return []*dimension.Tag{}, nil
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, ErrTagNameRequired
		}
		cleaned = append(cleaned, trimmed)
	}

	existing, err := f.repo.GetByNames(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Tag, len(existing))
	for _, tag := range existing {
		byName[strings.ToLower(tag.Name)] = tag
	}

	out := make([]*dimension.Tag, 0, len(cleaned))
	for _, name := range cleaned {
		key := strings.ToLower(name)
		tag, ok := byName[key]
		if !ok {
			tag, err = f.repo.Create(ctx, &Tag{
				ID:        identity.TagUUID(name),
				Name:      name,
				CreatedAt: f.now().UTC(),
			})
			if err != nil {
				return nil, err
			}
			byName[key] = tag
		}
		out = append(out, &dimension.Tag{ID: tag.ID, Name: tag.Name})
	}
	return out, nil
}

// CategoryFactory resolves category ids into category references.
type CategoryFactory struct {
	repo CategoryRepository
}

// NewCategoryFactory constructs a category factory backed by the repository.
func NewCategoryFactory(repo CategoryRepository) *CategoryFactory {
	return &CategoryFactory{repo: repo}
}

// GetEntities returns one reference per id, in input order. Unknown ids fail.
func (f *CategoryFactory) GetEntities(ctx context.Context, ids []int) ([]*dimension.Category, error) {
	if len(ids) == 0 {
		return []*dimension.Category{}, nil
	}
	records, err := f.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*Category, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	out := make([]*dimension.Category, 0, len(ids))
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{Resource: "category", Key: strconv.Itoa(id)}
		}
		out = append(out, &dimension.Category{ID: record.ID, Key: record.Key, Name: record.Name})
	}
	return out, nil
}
