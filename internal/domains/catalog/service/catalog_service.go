package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"wms-core/internal/domains/catalog/model"
	"wms-core/internal/domains/catalog/repository"
	journalrepo "wms-core/internal/domains/journal/repository"
	"wms-core/pkg/logger"
)

// velocityWindow is the rolling window the ABC Classifier aggregates over.
const velocityWindow = 30 * 24 * time.Hour

type CatalogService struct {
	repo    repository.RepositoryInterface
	journal journalrepo.Reader
}

func NewService(repo repository.RepositoryInterface, journal journalrepo.Reader) ServiceInterface {
	return &CatalogService{repo: repo, journal: journal}
}

func (s *CatalogService) CreateItem(ctx context.Context, sku, name string, attrs model.Attributes, isSerialized bool) (*model.Item, error) {
	item := &model.Item{
		SKU:          sku,
		Name:         name,
		Attributes:   attrs,
		IsSerialized: isSerialized,
		ABCClass:     model.ABCClassC,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item %s: %w", sku, err)
	}
	logger.Info("item created", map[string]interface{}{"sku": sku})
	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, sku string) (*model.Item, error) {
	return s.repo.GetBySKU(ctx, sku)
}

func (s *CatalogService) DeleteItem(ctx context.Context, sku string) error {
	if err := s.repo.Delete(ctx, sku); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", sku, err)
	}
	logger.Info("item deleted", map[string]interface{}{"sku": sku})
	return nil
}

// ClassifyABC implements spec.md §4.7: rank SKUs by trailing-window outbound
// velocity (sum of -quantity_change for PICK/PACK/SHIP), then assign class A
// to the top 20%, B to the next 30%, C to the remainder. SKUs with zero
// recorded velocity are ranked like every other SKU (ties broken by SKU), so
// every catalog item is covered by the bulk update.
func (s *CatalogService) ClassifyABC(ctx context.Context, sinceDays int) (map[model.ABCClass]int, error) {
	window := velocityWindow
	if sinceDays > 0 {
		window = time.Duration(sinceDays) * 24 * time.Hour
	}
	since := timeNow().Add(-window)

	velocity, err := s.journal.VelocityByItem(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate velocity: %w", err)
	}

	skus, err := s.repo.ListSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}

	type ranked struct {
		sku string
		v   int
	}
	ranks := make([]ranked, 0, len(skus))
	for _, sku := range skus {
		ranks = append(ranks, ranked{sku: sku, v: velocity[sku]})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].v != ranks[j].v {
			return ranks[i].v > ranks[j].v
		}
		return ranks[i].sku < ranks[j].sku
	})

	n := len(ranks)
	aCutoff := int(math.Ceil(float64(n) * 0.20))
	bCutoff := aCutoff + int(math.Ceil(float64(n)*0.30))

	assignments := make(map[string]model.ABCClass, n)
	counts := map[model.ABCClass]int{model.ABCClassA: 0, model.ABCClassB: 0, model.ABCClassC: 0}
	for i, r := range ranks {
		class := model.ABCClassC
		switch {
		case i < aCutoff:
			class = model.ABCClassA
		case i < bCutoff:
			class = model.ABCClassB
		}
		assignments[r.sku] = class
		counts[class]++
	}

	if len(assignments) == 0 {
		return counts, nil
	}
	if err := s.repo.BulkSetABCClass(ctx, assignments); err != nil {
		return nil, fmt.Errorf("failed to apply abc classification: %w", err)
	}
	logger.Info("abc classification complete", map[string]interface{}{
		"a": counts[model.ABCClassA], "b": counts[model.ABCClassB], "c": counts[model.ABCClassC],
	})
	return counts, nil
}

// timeNow is a seam so tests can pin the velocity window boundary.
var timeNow = time.Now
