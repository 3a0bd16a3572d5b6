package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mxfind/internal/application"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

const noChangesMessage = "No matches required changes."

// ReplaceCommand substitutes a term in matched properties and writes the
// new values back, one call per document
type ReplaceCommand struct {
	host        ports.Host
	logger      *slog.Logger
	Results     []domain.SearchResult
	SearchTerm  string
	ReplaceTerm string
}

// NewReplaceCommand creates a ReplaceCommand over every match of results
func NewReplaceCommand(host ports.Host, logger *slog.Logger, results []domain.SearchResult, searchTerm, replaceTerm string) *ReplaceCommand {
	return &ReplaceCommand{
		host:        host,
		logger:      orDiscard(logger),
		Results:     results,
		SearchTerm:  searchTerm,
		ReplaceTerm: replaceTerm,
	}
}

// NewReplaceMatchCommand creates a ReplaceCommand limited to one match
func NewReplaceMatchCommand(host ports.Host, logger *slog.Logger, result domain.SearchResult, match domain.Match, searchTerm, replaceTerm string) *ReplaceCommand {
	result.Matches = []domain.Match{match}
	return NewReplaceCommand(host, logger, []domain.SearchResult{result}, searchTerm, replaceTerm)
}

// Validate checks if the replace operation is valid
func (c *ReplaceCommand) Validate() error {
	return application.ValidateRequired("searchTerm", c.SearchTerm)
}

type documentWrite struct {
	documentID   string
	label        string
	changes      []domain.Change
	replacements []domain.Replacement
}

type writeBucket struct {
	caps          application.Capabilities
	label         string
	collectionKey string
	modelKey      string
	order         []string
	docs          map[string]*documentWrite
}

// Execute computes the new values, groups them by model, collection and
// document, and applies each document's changes in a single call. A failing
// document does not stop the others: the report lists every replacement that
// was stored, and the returned error joins one ApplyError per failed document.
func (c *ReplaceCommand) Execute(ctx context.Context) (*domain.ReplaceReport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.host == nil {
		return nil, application.ErrHostUnavailable
	}

	search := strings.TrimSpace(c.SearchTerm)
	buckets, order, skipped := c.plan(search)
	if len(order) == 0 {
		return &domain.ReplaceReport{Message: noChangesMessage, Skipped: skipped}, nil
	}

	var (
		replacements []domain.Replacement
		errs         []error
	)
	for _, key := range order {
		b := buckets[key]
		for _, docID := range b.order {
			doc := b.docs[docID]
			if err := b.caps.Changes.ApplyChanges(ctx, doc.changes); err != nil {
				applyErr := &application.ApplyError{Label: failureLabel(b.label, doc.label), DocumentID: docID, Err: err}
				c.logger.Warn("replace.apply.err", "document", docID, "collection", b.collectionKey, "err", err)
				errs = append(errs, applyErr)
				continue
			}
			replacements = append(replacements, doc.replacements...)
		}
	}

	report := &domain.ReplaceReport{
		Success:      len(replacements) > 0,
		Replacements: replacements,
		Skipped:      skipped,
	}
	switch {
	case len(replacements) > 0:
		report.Message = updatedMessage(len(replacements))
	case len(errs) > 0:
		report.Message = "No changes were applied."
	default:
		report.Message = noChangesMessage
	}
	c.logger.Info("replace.done", "replaced", len(replacements), "failed", len(errs), "skipped", skipped)
	return report, errors.Join(errs...)
}

// plan turns matches into per-document change sets. Matches without a
// target, collection or writable model are skipped; unchanged values are
// dropped silently.
func (c *ReplaceCommand) plan(search string) (map[string]*writeBucket, []string, int) {
	var (
		order   []string
		skipped int
	)
	buckets := make(map[string]*writeBucket)
	access := make(map[string]application.Capabilities)

	resolve := func(modelKey string) (application.Capabilities, bool) {
		if caps, ok := access[modelKey]; ok {
			return caps, caps.CanWrite()
		}
		caps, ok := application.ResolveAccess(c.host, modelKey)
		if !ok {
			caps = application.Capabilities{ModelKey: modelKey}
		}
		access[modelKey] = caps
		return caps, caps.CanWrite()
	}

	for _, r := range c.Results {
		collectionKey := r.CollectionKey
		resultModel := r.ModelKey
		if len(r.Matches) > 0 {
			collectionKey = firstNonEmpty(collectionKey, r.Matches[0].CollectionKey)
			resultModel = firstNonEmpty(resultModel, r.Matches[0].ModelKey)
		}
		resultModel = firstNonEmpty(resultModel, collectionKey)
		if r.DocumentID == "" || collectionKey == "" {
			skipped += len(r.Matches)
			c.logger.Debug("replace.skip", "document", r.DocumentID, "reason", "unresolved collection")
			continue
		}

		for _, m := range r.Matches {
			modelKey := firstNonEmpty(m.ModelKey, resultModel)
			caps, ok := resolve(modelKey)
			if !ok {
				skipped++
				c.logger.Warn("replace.skip", "document", r.DocumentID, "target", m.TargetID, "model", modelKey, "reason", "not writable")
				continue
			}
			if m.TargetID == "" {
				skipped++
				c.logger.Debug("replace.skip", "document", r.DocumentID, "reason", "no target")
				continue
			}
			property := firstNonEmpty(m.PropertyName, "name")
			stored := m.Stored()
			newValue := domain.ReplaceFold(stored, search, c.ReplaceTerm)
			if newValue == stored {
				continue
			}

			key := modelKey + "::" + collectionKey
			b, ok := buckets[key]
			if !ok {
				b = &writeBucket{
					caps:          caps,
					label:         firstNonEmpty(r.CollectionLabel, collectionKey),
					collectionKey: collectionKey,
					modelKey:      modelKey,
					docs:          make(map[string]*documentWrite),
				}
				buckets[key] = b
				order = append(order, key)
			}
			doc, ok := b.docs[r.DocumentID]
			if !ok {
				doc = &documentWrite{
					documentID: r.DocumentID,
					label:      firstNonEmpty(r.DisplayName, r.DocumentName, r.DocumentID),
				}
				b.docs[r.DocumentID] = doc
				b.order = append(b.order, r.DocumentID)
			}
			doc.changes = append(doc.changes, domain.SetProperty(r.DocumentID, m.TargetID, property, newValue))
			doc.replacements = append(doc.replacements, domain.Replacement{
				TargetID:      m.TargetID,
				PropertyName:  property,
				Kind:          m.Kind,
				KindLabel:     m.KindLabel,
				OldValue:      stored,
				NewValue:      newValue,
				CollectionKey: collectionKey,
				ModelKey:      modelKey,
				DocumentID:    r.DocumentID,
			})
		}
	}
	return buckets, order, skipped
}

func failureLabel(collectionLabel, documentLabel string) string {
	parts := []string{firstNonEmpty(collectionLabel, "document")}
	if documentLabel != "" && documentLabel != parts[0] {
		parts = append(parts, documentLabel)
	}
	return strings.Join(parts, " - ")
}

func updatedMessage(n int) string {
	if n == 1 {
		return "Updated 1 item."
	}
	return fmt.Sprintf("Updated %d items.", n)
}
