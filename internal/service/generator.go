package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/guttosm/stock-service/internal/domain/model"
	"github.com/guttosm/stock-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// Ranges of generated values; lower bounds inclusive, upper bounds exclusive.
const (
	namePrefix  = "CI"
	nameMin     = 10000
	nameMax     = 99999
	codeMin     = 1000000
	codeMax     = 9999999
	priceMin    = 10
	priceMax    = 150
	quantityMax = 100
	discountMax = 30
)

// Generator produces random, well-formed items for demos and tests.
// It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// RandomItem returns a new item with a random name, code, price, quantity
// and discount.
func (g *Generator) RandomItem() *model.Item {
	name := namePrefix + strconv.Itoa(nameMin+g.rnd.IntN(nameMax-nameMin))
	code := int64(codeMin) + g.rnd.Int64N(codeMax-codeMin)
	price := float64(priceMin + g.rnd.IntN(priceMax-priceMin))
	quantity := g.rnd.IntN(quantityMax)
	discount := float64(g.rnd.IntN(discountMax))

	item := model.NewItem(name, code, price, quantity)
	item.SetDiscount(discount)
	return item
}

// Items returns n random items with codes unique within the batch.
func (g *Generator) Items(n int) ([]*model.Item, error) {
	if n < 0 || n > codeMax-codeMin {
		return nil, fmt.Errorf("record count %d: %w", n, model.ErrValidation)
	}

	seen := make(map[int64]struct{}, n)
	items := make([]*model.Item, 0, n)
	for len(items) < n {
		item := g.RandomItem()
		if _, dup := seen[item.Code()]; dup {
			continue
		}
		seen[item.Code()] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// WriteDummyData generates n items and saves them to store, replacing its
// content.
func (g *Generator) WriteDummyData(ctx context.Context, store repository.ItemStore, n int) error {
	items, err := g.Items(n)
	if err != nil {
		return err
	}
	if err := store.SaveItems(ctx, dto.FromItems(items)); err != nil {
		return fmt.Errorf("write dummy data: %w", err)
	}

	log.Info().Int("records", n).Msg("Dummy data written")
	return nil
}
