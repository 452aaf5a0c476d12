// Package repotest provides in-memory repositories for tests. They follow the
// same error contract as the MongoDB implementations.
package repotest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
)

// Products is an in-memory ProductRepository. Insertion order is kept.
// Set Err to make every call fail with a store error.
type Products struct {
	mu    sync.Mutex
	items []models.Product
	Err   error
}

var _ repositories.ProductRepository = (*Products)(nil)

// NewProducts returns a repository seeded with products. Seeds without an ID
// get one.
func NewProducts(seed ...models.Product) *Products {
	p := &Products{}
	for _, product := range seed {
		if product.ID.IsZero() {
			product.ID = primitive.NewObjectID()
		}
		p.items = append(p.items, product)
	}
	return p
}

func (p *Products) All(context.Context) ([]models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, apperr.NewStore(p.Err)
	}
	return append([]models.Product{}, p.items...), nil
}

func (p *Products) FindByID(_ context.Context, id string) (models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return models.Product{}, apperr.NewStore(p.Err)
	}
	if i := p.index(id); i >= 0 {
		return p.items[i], nil
	}
	return models.Product{}, repositories.ErrProductNotFound
}

// FindByName returns the first product called name.
func (p *Products) FindByName(name string) (models.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, product := range p.items {
		if product.Name == name {
			return product, true
		}
	}
	return models.Product{}, false
}

func (p *Products) Create(_ context.Context, product *models.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return apperr.NewStore(p.Err)
	}
	product.ID = primitive.NewObjectID()
	p.items = append(p.items, *product)
	return nil
}

func (p *Products) Update(_ context.Context, product models.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return apperr.NewStore(p.Err)
	}
	i := p.index(product.ID.Hex())
	if i < 0 {
		return repositories.ErrProductNotFound
	}
	stored := &p.items[i]
	stored.Name = product.Name
	stored.Category = product.Category
	stored.Price = product.Price
	stored.Stock = product.Stock
	stored.LatestUpdate = product.LatestUpdate
	return nil
}

func (p *Products) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return apperr.NewStore(p.Err)
	}
	i := p.index(id)
	if i < 0 {
		return repositories.ErrProductNotFound
	}
	p.items = append(p.items[:i], p.items[i+1:]...)
	return nil
}

// Reset replaces the contents with seed.
func (p *Products) Reset(seed ...models.Product) {
	fresh := NewProducts(seed...)
	p.mu.Lock()
	p.items = fresh.items
	p.Err = nil
	p.mu.Unlock()
}

func (p *Products) index(id string) int {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	for i, product := range p.items {
		if product.ID == oid {
			return i
		}
	}
	return -1
}

// Users is an in-memory UserRepository enforcing unique email and username.
type Users struct {
	mu    sync.Mutex
	items []models.User
	Err   error
}

var _ repositories.UserRepository = (*Users)(nil)

func NewUsers() *Users { return &Users{} }

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return apperr.NewStore(u.Err)
	}
	for _, existing := range u.items {
		if existing.Email == user.Email || (user.Username != "" && existing.Username == user.Username) {
			return repositories.ErrUserExists
		}
	}
	user.ID = primitive.NewObjectID()
	u.items = append(u.items, *user)
	return nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	return u.find(func(user models.User) bool { return user.Email == email })
}

func (u *Users) FindByID(_ context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, repositories.ErrUserNotFound
	}
	return u.find(func(user models.User) bool { return user.ID == oid })
}

// Reset removes every user.
func (u *Users) Reset() {
	u.mu.Lock()
	u.items = nil
	u.Err = nil
	u.mu.Unlock()
}

func (u *Users) find(match func(models.User) bool) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return models.User{}, apperr.NewStore(u.Err)
	}
	for _, user := range u.items {
		if match(user) {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrUserNotFound
}
