package repository

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"noirstore/internal/models"
)

const topProductsLimit = 5

var categoryPalette = []string{"#ffffff", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a"}

// DashboardRepository derives admin analytics from the stored collections.
type DashboardRepository struct {
	*base
	products  *ProductRepository
	orders    *OrderRepository
	customers *CustomerRepository
}

type snapshot struct {
	products  []models.Product
	orders    []models.Order
	customers []models.Customer
}

func (r *DashboardRepository) load(ctx context.Context, withProducts, withOrders, withCustomers bool) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	if withProducts {
		g.Go(func() (err error) {
			snap.products, err = r.products.all(gctx)
			return err
		})
	}
	if withOrders {
		g.Go(func() (err error) {
			snap.orders, err = r.orders.all(gctx)
			return err
		})
	}
	if withCustomers {
		g.Go(func() (err error) {
			snap.customers, err = r.customers.all(gctx)
			return err
		})
	}
	return snap, g.Wait()
}

func (r *DashboardRepository) Stats(ctx context.Context) (models.DashboardStats, error) {
	if err := r.wait(ctx); err != nil {
		return models.DashboardStats{}, err
	}
	snap, err := r.load(ctx, true, true, true)
	if err != nil {
		return models.DashboardStats{}, err
	}

	now := r.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	stats := models.DashboardStats{
		TotalOrders:    len(snap.orders),
		TotalProducts:  len(snap.products),
		TotalCustomers: len(snap.customers),
	}
	var paid int
	var curRevenue, prevRevenue float64
	var curOrders, prevOrders int
	for _, o := range snap.orders {
		created := o.CreatedAt.UTC()
		current := !created.Before(thisMonth)
		previous := !current && !created.Before(lastMonth)
		if current {
			curOrders++
		} else if previous {
			prevOrders++
		}
		if o.PaymentStatus != models.PaymentPaid {
			continue
		}
		paid++
		stats.TotalRevenue += o.Total
		if current {
			curRevenue += o.Total
		} else if previous {
			prevRevenue += o.Total
		}
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	if paid > 0 {
		stats.AverageOrderValue = round2(stats.TotalRevenue / float64(paid))
	}
	stats.RevenueChange = percentChange(curRevenue, prevRevenue)
	stats.OrdersChange = percentChange(float64(curOrders), float64(prevOrders))

	var buyers int
	for _, c := range snap.customers {
		if c.Orders > 0 {
			buyers++
		}
	}
	if len(snap.customers) > 0 {
		stats.ConversionRate = round2(float64(buyers) / float64(len(snap.customers)) * 100)
	}
	return stats, nil
}

func percentChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return round2((cur - prev) / prev * 100)
}

// Revenue returns paid revenue for the trailing twelve months, oldest first.
func (r *DashboardRepository) Revenue(ctx context.Context) ([]models.RevenuePoint, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	snap, err := r.load(ctx, false, true, false)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	points := make([]models.RevenuePoint, 12)
	for i := range points {
		points[i].Month = first.AddDate(0, i, 0).Format("Jan")
	}
	for _, o := range snap.orders {
		if o.PaymentStatus != models.PaymentPaid {
			continue
		}
		created := o.CreatedAt.UTC()
		idx := (created.Year()-first.Year())*12 + int(created.Month()) - int(first.Month())
		if idx < 0 || idx >= len(points) {
			continue
		}
		points[idx].Revenue += o.Total
		points[idx].Orders++
	}
	for i := range points {
		points[i].Revenue = round2(points[i].Revenue)
	}
	return points, nil
}

// Categories returns each category's share of the catalogue in whole percent.
func (r *DashboardRepository) Categories(ctx context.Context) ([]models.CategoryShare, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	snap, err := r.load(ctx, true, false, false)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, p := range snap.products {
		counts[strings.ToUpper(p.Category)]++
	}
	shares := make([]models.CategoryShare, 0, len(counts))
	for name, n := range counts {
		shares = append(shares, models.CategoryShare{Name: name, Value: n})
	}
	slices.SortFunc(shares, func(a, b models.CategoryShare) int {
		if a.Value != b.Value {
			return b.Value - a.Value
		}
		return strings.Compare(a.Name, b.Name)
	})
	total := len(snap.products)
	for i := range shares {
		shares[i].Color = categoryPalette[i%len(categoryPalette)]
		shares[i].Value = int(math.Round(float64(shares[i].Value) / float64(total) * 100))
	}
	return shares, nil
}

// TopProducts ranks products by units sold across all orders.
func (r *DashboardRepository) TopProducts(ctx context.Context) ([]models.TopProduct, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	snap, err := r.load(ctx, false, true, false)
	if err != nil {
		return nil, err
	}

	byID := map[int64]*models.TopProduct{}
	for _, o := range snap.orders {
		if o.Status == models.OrderCancelled || o.Status == models.OrderRefunded {
			continue
		}
		for _, it := range o.Items {
			tp, ok := byID[it.ProductID]
			if !ok {
				tp = &models.TopProduct{ID: it.ProductID, Name: it.Name}
				byID[it.ProductID] = tp
			}
			tp.Sales += it.Quantity
			tp.Revenue += it.Price * float64(it.Quantity)
		}
	}
	top := make([]models.TopProduct, 0, len(byID))
	for _, tp := range byID {
		tp.Revenue = round2(tp.Revenue)
		top = append(top, *tp)
	}
	slices.SortFunc(top, func(a, b models.TopProduct) int {
		if a.Sales != b.Sales {
			return b.Sales - a.Sales
		}
		if a.Revenue != b.Revenue {
			if a.Revenue > b.Revenue {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}
	return top, nil
}
