// Package pricing computes line prices for order construction. It only reads the
// catalog and returns numbers; persisting the result is the caller's job.
package pricing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/models"
)

var ErrProductNotFound = errors.New("product not found")

type PricedOption struct {
	Name       string
	PriceDelta float64
}

type Line struct {
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   float64
	Options     []PricedOption
}

func (l Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// PriceLine resolves a requested product and its chosen options against the live
// catalog. Soft-deleted products are not orderable and surface as
// ErrProductNotFound. Option ids that do not exist, are soft-deleted, or belong
// to a different product are silently skipped rather than rejected.
func PriceLine(db *gorm.DB, productID uint, quantity int, optionIDs []uint) (Line, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Line{}, ErrProductNotFound
		}
		return Line{}, err
	}

	line := Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.BasePrice,
	}

	if len(optionIDs) > 0 {
		var options []models.ProductOption
		if err := db.Where("id IN ? AND product_id = ?", optionIDs, product.ID).Find(&options).Error; err != nil {
			return Line{}, err
		}
		for _, opt := range options {
			line.UnitPrice += opt.PriceDelta
			line.Options = append(line.Options, PricedOption{Name: opt.Name, PriceDelta: opt.PriceDelta})
		}
	}

	return line, nil
}

// OrderTotal sums line totals exactly; rounding happens only at display time.
func OrderTotal(lines []Line) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Total()
	}
	return total
}
