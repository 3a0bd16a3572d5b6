package commands

import (
	"context"
	"errors"
	"slices"

	"mxfind/internal/application"
	"mxfind/internal/domain"
)

// Default batch sizes for the two enumeration strategies
const (
	DefaultProjectBatchSize    = 20
	DefaultCollectionBatchSize = 25
)

var errNoLoader = errors.New("no loader available")

// LoadPreference picks which loading capability a BatchLoader tries first
type LoadPreference int

const (
	PreferUnits LoadPreference = iota
	PreferBulk
)

// BatchLoader loads document bodies in fixed-size batches
type BatchLoader struct {
	size   int
	prefer LoadPreference
}

// NewBatchLoader creates a BatchLoader. Non-positive sizes fall back to the
// project batch size.
func NewBatchLoader(size int, prefer LoadPreference) *BatchLoader {
	if size <= 0 {
		size = DefaultProjectBatchSize
	}
	return &BatchLoader{size: size, prefer: prefer}
}

// Load fetches the bodies for infos batch by batch and calls visit for each
// loaded document with its info. typeTag is passed to id-list loaders; when
// empty, the first info's type of each batch is used. A failing batch is
// reported as a diagnostic and skipped.
func (l *BatchLoader) Load(
	ctx context.Context,
	caps application.Capabilities,
	subject, typeTag string,
	infos []domain.DocumentInfo,
	visit func(info domain.DocumentInfo, unit *domain.Node),
) []application.Diagnostic {
	var diags []application.Diagnostic
	for batch := range slices.Chunk(infos, l.size) {
		units, err := l.loadBatch(ctx, caps, typeTag, batch)
		if err != nil {
			diags = append(diags, application.Diagnostic{Stage: application.StageLoad, Subject: subject, Err: err})
			continue
		}

		byID := make(map[string]domain.DocumentInfo, len(batch))
		for _, info := range batch {
			byID[info.ID] = info
		}
		for _, unit := range units {
			if unit == nil {
				continue
			}
			info, ok := byID[unit.ID]
			if !ok {
				if unit.ID == "" {
					continue
				}
				info = domain.DocumentInfo{ID: unit.ID, Type: unit.Type}
			}
			visit(info, unit)
		}
	}
	return diags
}

func (l *BatchLoader) loadBatch(ctx context.Context, caps application.Capabilities, typeTag string, batch []domain.DocumentInfo) ([]*domain.Node, error) {
	useBulk := caps.Bulk != nil && (l.prefer == PreferBulk || caps.Units == nil)
	if useBulk {
		wanted := make(map[string]struct{}, len(batch))
		for _, info := range batch {
			wanted[info.ID] = struct{}{}
		}
		return caps.Bulk.LoadAll(ctx, func(info domain.DocumentInfo) bool {
			_, ok := wanted[info.ID]
			return ok
		}, len(batch))
	}
	if caps.Units == nil {
		return nil, errNoLoader
	}

	ids := make([]string, len(batch))
	for i, info := range batch {
		ids[i] = info.ID
	}
	if typeTag == "" {
		typeTag = batch[0].Type
	}
	return caps.Units.LoadUnits(ctx, typeTag, ids)
}
