// Package seed fills an empty schema with random development data.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStatuses are inserted in this order, so their ids are 1..7.
var OrderStatuses = []string{"Processing", "Canceled", "Shipped", "Delivered", "Refunded", "Returned", "Pending"}

// Counts is how many rows of each kind to generate.
type Counts struct {
	Products  int
	Customers int
	Orders    int
	Items     int
}

func DefaultCounts() Counts {
	return Counts{Products: 5, Customers: 5, Orders: 5, Items: 5}
}

func (c Counts) Validate() error {
	if c.Products < 0 || c.Customers < 0 || c.Orders < 0 || c.Items < 0 {
		return errors.New("counts must not be negative")
	}
	if c.Orders > 0 && c.Customers == 0 {
		return errors.New("orders need at least one customer")
	}
	if c.Items > 0 && (c.Orders == 0 || c.Products == 0) {
		return errors.New("order items need at least one order and one product")
	}
	return nil
}

type Seeder struct {
	db     *sql.DB
	gen    *Generator
	logger *zap.Logger
}

func NewSeeder(db *sql.DB, gen *Generator, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, gen: gen, logger: logger}
}

// Run truncates every table and reseeds it in one transaction. Ids restart
// at 1, so foreign keys can be drawn from 1..count.
func (s *Seeder) Run(ctx context.Context, counts Counts) error {
	if err := counts.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		fn   func(context.Context, *sql.Tx, Counts) error
	}{
		{"truncate", s.truncate},
		{"order_statuses", s.insertStatuses},
		{"products", s.insertProducts},
		{"customers", s.insertCustomers},
		{"orders", s.insertOrders},
		{"order_items", s.insertItems},
	}
	for _, step := range steps {
		if err := step.fn(ctx, tx, counts); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	s.logger.Info("seeded database",
		zap.Int("products", counts.Products),
		zap.Int("customers", counts.Customers),
		zap.Int("orders", counts.Orders),
		zap.Int("order_items", counts.Items))
	return nil
}

func (s *Seeder) truncate(ctx context.Context, tx *sql.Tx, _ Counts) error {
	_, err := tx.ExecContext(ctx,
		`TRUNCATE order_items, orders, customers, order_statuses, products RESTART IDENTITY CASCADE`)
	return err
}

func (s *Seeder) insertStatuses(ctx context.Context, tx *sql.Tx, _ Counts) error {
	return execEach(ctx, tx, `INSERT INTO order_statuses (status_name) VALUES ($1)`, len(OrderStatuses),
		func(i int) []any { return []any{OrderStatuses[i]} })
}

func (s *Seeder) insertProducts(ctx context.Context, tx *sql.Tx, c Counts) error {
	return execEach(ctx, tx, `INSERT INTO products (name, price, category) VALUES ($1, $2, $3)`, c.Products,
		func(int) []any {
			p := s.gen.Product()
			return []any{p.Name, p.Price, p.Category}
		})
}

func (s *Seeder) insertCustomers(ctx context.Context, tx *sql.Tx, c Counts) error {
	return execEach(ctx, tx, `INSERT INTO customers (first_name, last_name, email, join_date) VALUES ($1, $2, $3, $4)`, c.Customers,
		func(i int) []any {
			cu := s.gen.Customer(i)
			return []any{cu.FirstName, cu.LastName, cu.Email, cu.JoinDate}
		})
}

func (s *Seeder) insertOrders(ctx context.Context, tx *sql.Tx, c Counts) error {
	return execEach(ctx, tx, `INSERT INTO orders (customer_id, order_date, status_id) VALUES ($1, $2, $3)`, c.Orders,
		func(int) []any {
			o := s.gen.Order(c.Customers)
			return []any{o.CustomerID, o.OrderDate, o.StatusID}
		})
}

func (s *Seeder) insertItems(ctx context.Context, tx *sql.Tx, c Counts) error {
	return execEach(ctx, tx, `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES ($1, $2, $3, $4)`, c.Items,
		func(int) []any {
			it := s.gen.Item(c.Orders, c.Products)
			return []any{it.OrderID, it.ProductID, it.Quantity, it.PriceAtPurchase}
		})
}

func execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// Generator produces random rows. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, now: time.Now}
}

type Product struct {
	Name     string
	Price    decimal.Decimal
	Category string
}

type Customer struct {
	FirstName string
	LastName  string
	Email     string
	JoinDate  time.Time
}

type Order struct {
	CustomerID int
	OrderDate  time.Time
	StatusID   int
}

type Item struct {
	OrderID         int
	ProductID       int
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

var (
	adjectives  = []string{"Small", "Ergonomic", "Rustic", "Intelligent", "Gorgeous", "Sleek", "Durable", "Practical"}
	materials   = []string{"Steel", "Wooden", "Concrete", "Plastic", "Cotton", "Granite", "Rubber", "Leather"}
	nouns       = []string{"Chair", "Car", "Computer", "Keyboard", "Mouse", "Bike", "Gloves", "Lamp", "Table", "Shoes"}
	departments = []string{"Books", "Electronics", "Garden", "Toys", "Sports", "Home", "Clothing", "Grocery"}
	firstNames  = []string{"Olena", "Taras", "Maria", "John", "Aiko", "Luis", "Fatima", "Noah", "Ingrid", "Kwame"}
	lastNames   = []string{"Honcharenko", "Smith", "Garcia", "Tanaka", "Okafor", "Novak", "Schmidt", "Silva", "Kowalski", "Nguyen"}
)

func (g *Generator) pick(list []string) string {
	return list[g.rng.IntN(len(list))]
}

// price is uniform over 1.00..100.00 in whole cents.
func (g *Generator) price() decimal.Decimal {
	return decimal.New(int64(100+g.rng.IntN(9901)), -2)
}

// pastDate is a day within the last year.
func (g *Generator) pastDate() time.Time {
	d := g.now().AddDate(0, 0, -g.rng.IntN(365))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) Product() Product {
	return Product{
		Name:     g.pick(adjectives) + " " + g.pick(materials) + " " + g.pick(nouns),
		Price:    g.price(),
		Category: g.pick(departments),
	}
}

// Customer builds the i-th customer; i keeps emails unique.
func (g *Generator) Customer(i int) Customer {
	first, last := g.pick(firstNames), g.pick(lastNames)
	return Customer{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
		JoinDate:  g.pastDate(),
	}
}

func (g *Generator) Order(customers int) Order {
	return Order{
		CustomerID: g.between(1, customers),
		OrderDate:  g.pastDate(),
		StatusID:   g.between(1, len(OrderStatuses)),
	}
}

func (g *Generator) Item(orders, products int) Item {
	return Item{
		OrderID:         g.between(1, orders),
		ProductID:       g.between(1, products),
		Quantity:        g.between(1, 998),
		PriceAtPurchase: g.price(),
	}
}

