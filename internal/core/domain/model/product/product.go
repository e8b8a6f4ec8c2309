// Package product models a catalog entry as the core sees it: identity,
// display name, current price and the last known stock level.
package product

import (
	"errors"
	"fmt"
	"strings"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a read model of the catalog. AvailableStock is informational
// only: the stock ledger is the sole authority and the only mutator.
type Product struct {
	id             kernel.UUID
	name           string
	price          kernel.Money
	availableStock int

	isConstructed bool
}

func NewProduct(id kernel.UUID, name string, price kernel.Money, availableStock int) (*Product, error) {
	p := &Product{isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPrice(price),
		p.setAvailableStock(availableStock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() kernel.Money {
	return p.price
}

func (p *Product) AvailableStock() int {
	return p.availableStock
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	p.price = price
	return nil
}

func (p *Product) setAvailableStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("available stock", fmt.Errorf("%d is negative", stock))
	}
	p.availableStock = stock
	return nil
}
