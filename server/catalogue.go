package server

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
)

type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	IsPaid     bool        `json:"isPaid"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Catalogue is the in-memory product list and order book of the reference storefront
type Catalogue struct {
	lock     sync.RWMutex
	products map[string]Product
	orders   []Order
}

func NewCatalogue() *Catalogue {
	c := &Catalogue{products: make(map[string]Product)}
	for _, p := range []Product{
		{ID: "p-1", Name: "Airpods Wireless Bluetooth Headphones", Brand: "Apple", Category: "Electronics", Price: 89.99, CountInStock: 10},
		{ID: "p-2", Name: "iPhone 11 Pro 256GB Memory", Brand: "Apple", Category: "Electronics", Price: 599.99, CountInStock: 7},
		{ID: "p-3", Name: "Cannon EOS 80D DSLR Camera", Brand: "Cannon", Category: "Electronics", Price: 929.99, CountInStock: 5},
		{ID: "p-4", Name: "Logitech G-Series Gaming Mouse", Brand: "Logitech", Category: "Electronics", Price: 49.99, CountInStock: 7},
	} {
		c.products[p.ID] = p
	}
	return c
}

func (c *Catalogue) Products() []Product {
	c.lock.RLock()
	defer c.lock.RUnlock()

	products := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (c *Catalogue) Product(id string) (Product, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return Product{}, apperrors.Wrapf(apperrors.ErrNotFound, "product %s", id)
	}
	return p, nil
}

// AddOrder stores an order, pricing each item from the catalogue
func (c *Catalogue) AddOrder(order Order) Order {
	c.lock.Lock()
	defer c.lock.Unlock()

	order.TotalPrice = 0
	for i, item := range order.Items {
		if p, ok := c.products[item.ProductID]; ok {
			order.Items[i].Name = p.Name
			order.Items[i].Price = p.Price
		}
		order.TotalPrice += order.Items[i].Price * float64(item.Qty)
	}
	c.orders = append(c.orders, order)
	return order
}

func (c *Catalogue) OrdersFor(userID string) []Order {
	c.lock.RLock()
	defer c.lock.RUnlock()

	orders := make([]Order, 0)
	for _, o := range c.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders
}

func (c *Catalogue) Orders() []Order {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return append(make([]Order, 0, len(c.orders)), c.orders...)
}
