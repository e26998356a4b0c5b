package store

// Column aliases produced by the analytics queries.
const (
	categorySalesField        = "category_sales"
	totalProductQuantityField = "total_product_quantity"
	totalSpendField           = "total_spend"
	orderCountField           = "order_count"
	orderTotalField           = "order_total"
	categoryRankField         = "category_rank"

	orderTotalsAlias    = "order_totals"
	rankedProductsAlias = "ranked_products"
)

// salesByCategoryQuery sums line revenue (price at purchase times quantity)
// per product category, highest first.
func salesByCategoryQuery() *selectQuery {
	categorySales := "SUM(order_items.price_at_purchase * order_items.quantity)"

	return newSelect(
		"products.category",
		as(categorySales, categorySalesField),
	).
		From("order_items").
		Join("products", "order_items.product_id = products.id").
		GroupBy("products.category").
		OrderBy(desc(categorySalesField))
}

func topSellingProductsQuery(limit int) *selectQuery {
	return newSelect(
		"products.id",
		"products.name",
		as("SUM(order_items.quantity)", totalProductQuantityField),
	).
		From("products").
		Join("order_items", "products.id = order_items.product_id").
		GroupBy("products.id").
		OrderBy(desc(totalProductQuantityField)).
		Limit(limit)
}

// topSpendersQuery sums price_at_purchase per customer without weighting by
// quantity. Downstream reports depend on this figure as-is.
func topSpendersQuery(limit int) *selectQuery {
	return newSelect(
		"customers.id",
		"customers.email",
		"customers.first_name",
		"customers.last_name",
		as("SUM(order_items.price_at_purchase)", totalSpendField),
	).
		From("customers").
		Join("orders", "orders.customer_id = customers.id").
		Join("order_items", "order_items.order_id = orders.id").
		GroupBy("customers.id").
		OrderBy(desc(totalSpendField)).
		Limit(limit)
}

func orderCountByStatusQuery() *selectQuery {
	return newSelect(
		"order_statuses.status_name",
		as("COUNT(orders.id)", orderCountField),
	).
		From("order_statuses").
		Join("orders", "orders.status_id = order_statuses.id").
		GroupBy("order_statuses.id").
		OrderBy(desc(orderCountField))
}

// averageOrderValueQuery collapses line items to one total per order and
// averages those totals, so orders with many lines are not over-weighted.
// AVG over an empty set yields a single NULL row.
func averageOrderValueQuery() *selectQuery {
	orderTotals := newSelect(
		as("SUM(order_items.quantity * order_items.price_at_purchase)", orderTotalField),
	).
		From("order_items").
		GroupBy("order_items.order_id")

	return newSelect("AVG(" + orderTotalsAlias + "." + orderTotalField + ")").
		FromSubquery(orderTotals, orderTotalsAlias)
}

// productRankByCategoryQuery numbers products within each category by units
// sold and keeps the first limit of each. ROW_NUMBER has no secondary sort
// key, so tied products are ordered however the planner emits them.
func productRankByCategoryQuery(limit int) *selectQuery {
	quantity := "SUM(order_items.quantity)"
	rank := "ROW_NUMBER() OVER (PARTITION BY products.category ORDER BY " + desc(quantity) + ")"

	ranked := newSelect(
		as("products.id", "product_id"),
		as("products.name", "product_name"),
		as("products.category", "category"),
		as(quantity, totalProductQuantityField),
		as(rank, categoryRankField),
	).
		From("products").
		Join("order_items", "products.id = order_items.product_id").
		GroupBy("products.id", "products.category")

	col := func(name string) string { return rankedProductsAlias + "." + name }

	return newSelect(
		col("product_id"),
		col("product_name"),
		col("category"),
		col(totalProductQuantityField),
		col(categoryRankField),
	).
		FromSubquery(ranked, rankedProductsAlias).
		Where(col(categoryRankField), "<=", limit).
		OrderBy(col("category"), col(categoryRankField))
}
