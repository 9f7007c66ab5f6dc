// Package fixtures populates stores with a small sample asset universe for
// the bundled pipeline and report binaries.
package fixtures

import (
	"context"
	"math"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/storage"
)

// Load populates the stores with the sample universe: a technology index
// composed of two equities, a bond correlated with one of them, and a
// commodity with no relationships.
func Load(
	ctx context.Context,
	assetStore storage.AssetStore,
	relationshipStore storage.RelationshipStore,
	priceSeriesStore storage.PriceSeriesStore,
) error {
	if err := loadAssets(ctx, assetStore); err != nil {
		return err
	}
	if err := loadRelationships(ctx, relationshipStore); err != nil {
		return err
	}
	return loadPriceSeries(ctx, priceSeriesStore)
}

func loadAssets(ctx context.Context, store storage.AssetStore) error {
	largeCap := 2.5e12
	midCap := 4.0e11

	assets := []*domain.Asset{
		{
			ID:       "TECH_IDX",
			Symbol:   "TIX",
			Name:     "Technology Index",
			Class:    domain.AssetClassIndex,
			Sector:   "Technology",
			Currency: "USD",
			Price:    412.50,
		},
		{
			ID:        "ALPHA_CORP",
			Symbol:    "ALC",
			Name:      "Alpha Corp",
			Class:     domain.AssetClassEquity,
			Sector:    "Technology",
			Currency:  "USD",
			Price:     182.30,
			MarketCap: &largeCap,
		},
		{
			ID:        "BETA_SYSTEMS",
			Symbol:    "BSY",
			Name:      "Beta Systems",
			Class:     domain.AssetClassEquity,
			Sector:    "Technology",
			Currency:  "USD",
			Price:     96.75,
			MarketCap: &midCap,
		},
		{
			ID:       "ALPHA_BOND_28",
			Symbol:   "ALC28",
			Name:     "Alpha Corp 4.2% 2028",
			Class:    domain.AssetClassBond,
			Sector:   "Technology",
			Currency: "USD",
			Price:    98.10,
		},
		{
			ID:       "GOLD_SPOT",
			Symbol:   "XAU",
			Name:     "Gold Spot",
			Class:    domain.AssetClassCommodity,
			Sector:   "Metals",
			Currency: "USD",
			Price:    2360.00,
		},
	}

	for _, a := range assets {
		if err := store.Insert(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func loadRelationships(ctx context.Context, store storage.RelationshipStore) error {
	rels := []*domain.Relationship{
		{
			SourceID: "ALPHA_CORP",
			TargetID: "TECH_IDX",
			Kind:     domain.KindComposition,
			Weight:   0.6,
			Metadata: map[string]string{"provenance": "index_holdings"},
		},
		{
			SourceID: "BETA_SYSTEMS",
			TargetID: "TECH_IDX",
			Kind:     domain.KindComposition,
			Weight:   0.4,
			Metadata: map[string]string{"provenance": "index_holdings"},
		},
		{
			SourceID:      "ALPHA_CORP",
			TargetID:      "ALPHA_BOND_28",
			Kind:          domain.KindCorrelation,
			Weight:        -0.45,
			Bidirectional: true,
			Metadata:      map[string]string{"provenance": "rolling_90d"},
		},
	}

	for _, r := range rels {
		if err := store.Insert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// loadPriceSeries generates 60 daily observations starting 2024-01-01. The
// index tracks its composition exactly, so the analyzer recovers the 0.6/0.4
// weights; the bond moves against Alpha Corp; gold walks independently.
func loadPriceSeries(ctx context.Context, store storage.PriceSeriesStore) error {
	const (
		startMs = 1704067200000 // 2024-01-01 00:00:00 UTC
		dayMs   = 24 * 60 * 60 * 1000
		days    = 60
	)

	alpha := make(domain.PriceSeries, days)
	beta := make(domain.PriceSeries, days)
	index := make(domain.PriceSeries, days)
	bond := make(domain.PriceSeries, days)
	gold := make(domain.PriceSeries, days)

	for i := 0; i < days; i++ {
		ts := int64(startMs + i*dayMs)
		drift := float64(i)

		alphaPrice := 180.0 + 0.8*drift + 3.0*math.Sin(float64(i)/5)
		betaPrice := 95.0 + 0.3*drift + 2.0*math.Cos(float64(i)/7)

		alpha[i] = domain.PricePoint{TimestampMs: ts, Price: alphaPrice}
		beta[i] = domain.PricePoint{TimestampMs: ts, Price: betaPrice}
		index[i] = domain.PricePoint{TimestampMs: ts, Price: 0.6*alphaPrice + 0.4*betaPrice}
		bond[i] = domain.PricePoint{TimestampMs: ts, Price: 120.0 - 0.11*alphaPrice}
		gold[i] = domain.PricePoint{TimestampMs: ts, Price: 2300.0 + 15.0*math.Sin(float64(i)/3)}
	}

	byAsset := map[string]domain.PriceSeries{
		"ALPHA_CORP":    alpha,
		"BETA_SYSTEMS":  beta,
		"TECH_IDX":      index,
		"ALPHA_BOND_28": bond,
		"GOLD_SPOT":     gold,
	}
	for id, points := range byAsset {
		if err := store.Append(ctx, id, points); err != nil {
			return err
		}
	}
	return nil
}
