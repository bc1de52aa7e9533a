package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-cms-content/internal/dimension"
	"github.com/uptrace/bun"
)

// Contact is a person that can be credited as author.
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:cn"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	FirstName string    `bun:"first_name"          json:"first_name"`
	LastName  string    `bun:"last_name"           json:"last_name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Repository persists contacts.
type Repository interface {
	Create(ctx context.Context, record *Contact) (*Contact, error)
	GetByID(ctx context.Context, id int) (*Contact, error)
}

// NotFoundError reports a missing contact.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", strconv.Itoa(e.ID))
}

// Unwrap lets callers match any missing author reference.
func (e *NotFoundError) Unwrap() error {
	return dimension.ErrReferenceNotFound
}

// Factory resolves contact ids into author references.
type Factory struct {
	repo Repository
}

// NewFactory constructs a contact factory backed by the repository.
func NewFactory(repo Repository) *Factory {
	return &Factory{repo: repo}
}

// Create returns the reference of the contact with the given id.
func (f *Factory) Create(ctx context.Context, id int) (*dimension.Contact, error) {
	record, err := f.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dimension.Contact{
		ID:        record.ID,
		FirstName: record.FirstName,
		LastName:  record.LastName,
	}, nil
}

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int
	contacts map[int]*Contact
}

// NewMemoryRepository creates an empty contact repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, contacts: make(map[int]*Contact)}
}

// Create inserts the contact, assigning an id when missing.
func (m *MemoryRepository) Create(_ context.Context, record *Contact) (*Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == 0 {
		copied.ID = m.nextID
	}
	if copied.ID >= m.nextID {
		m.nextID = copied.ID + 1
	}
	m.contacts[copied.ID] = &copied
	out := copied
	return &out, nil
}

// GetByID fetches a contact.
func (m *MemoryRepository) GetByID(_ context.Context, id int) (*Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.contacts[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	copied := *record
	return &copied, nil
}

// BunRepository persists contacts using a Bun-backed database.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// Create inserts the contact.
func (r *BunRepository) Create(ctx context.Context, record *Contact) (*Contact, error) {
	if r.db == nil {
		return nil, errors.New("contacts: bun repository requires a database")
	}
	copied := *record
	if _, err := r.db.NewInsert().Model(&copied).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("contact repository error: %w", err)
	}
	return &copied, nil
}

// GetByID fetches a contact.
func (r *BunRepository) GetByID(ctx context.Context, id int) (*Contact, error) {
	if r.db == nil {
		return nil, errors.New("contacts: bun repository requires a database")
	}
	var record Contact
	if err := r.db.NewSelect().Model(&record).Where("?TableAlias.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("contact repository error: %w", err)
	}
	return &record, nil
}
