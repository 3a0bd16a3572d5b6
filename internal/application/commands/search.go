package commands

import (
	"context"
	"log/slog"
	"strings"

	"mxfind/internal/application"
	"mxfind/internal/domain"
	"mxfind/internal/matcher"
	"mxfind/internal/ports"
)

// SearchReport contains the documents that matched and the best-effort
// failures met along the way
type SearchReport struct {
	Results     []domain.SearchResult
	Diagnostics []application.Diagnostic
}

// MatchCount sums the matches across all results
func (r *SearchReport) MatchCount() int {
	return domain.CountMatches(r.Results)
}

// SearchCommand finds every name-like property containing a term
type SearchCommand struct {
	host   ports.Host
	logger *slog.Logger
	Term   string

	ProjectBatchSize    int
	CollectionBatchSize int
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(host ports.Host, logger *slog.Logger, term string) *SearchCommand {
	return &SearchCommand{
		host:                host,
		logger:              orDiscard(logger),
		Term:                term,
		ProjectBatchSize:    DefaultProjectBatchSize,
		CollectionBatchSize: DefaultCollectionBatchSize,
	}
}

// Execute runs both enumeration strategies and merges their results by
// collection and document. Host failures never fail the search; they are
// logged and returned as diagnostics.
func (c *SearchCommand) Execute(ctx context.Context) (*SearchReport, error) {
	if c.host == nil {
		return nil, application.ErrHostUnavailable
	}

	termLower := application.NormalizeTerm(c.Term)
	if termLower == "" {
		return &SearchReport{}, nil
	}

	c.logger.Info("search.start", "term", termLower)

	agg := newResultSet()
	var diags []application.Diagnostic

	projects := application.Probe(application.ProjectsKey, c.host.Access(application.ProjectsKey))
	if projects.CanTraverse() {
		diags = append(diags, c.searchProject(ctx, termLower, projects, agg)...)
	}
	diags = append(diags, c.searchCollections(ctx, termLower, agg)...)

	application.LogDiagnostics(ctx, c.logger, diags)

	report := &SearchReport{Results: agg.values(), Diagnostics: diags}
	c.logger.Info("search.done",
		"term", termLower,
		"documents", len(report.Results),
		"matches", report.MatchCount(),
		"diagnostics", len(diags),
	)
	return report, nil
}

type loadGroup struct {
	descriptor domain.Descriptor
	typeTag    string
	infos      []domain.DocumentInfo
}

func (c *SearchCommand) searchProject(ctx context.Context, termLower string, projects application.Capabilities, agg *resultSet) []application.Diagnostic {
	infos, diags := CollectProjectDocuments(ctx, projects)

	var order []string
	groups := make(map[string]*loadGroup)
	for _, info := range infos {
		if info.ID == "" || info.Type == "" {
			continue
		}
		d := domain.ResolveDescriptor(info.Type)
		key := d.ModelKey + "::" + d.CollectionKey + "::" + info.Type
		g, ok := groups[key]
		if !ok {
			g = &loadGroup{descriptor: d, typeTag: info.Type}
			groups[key] = g
			order = append(order, key)
		}
		g.infos = append(g.infos, info)
	}

	loader := NewBatchLoader(c.ProjectBatchSize, PreferUnits)
	for _, key := range order {
		g := groups[key]
		caps, ok := application.ResolveAccess(c.host, g.descriptor.ModelKey)
		if !ok {
			c.logger.Debug("search.skip", "collection", g.descriptor.CollectionKey, "model", g.descriptor.ModelKey)
			continue
		}
		diags = append(diags, loader.Load(ctx, caps, g.descriptor.Label, g.typeTag, g.infos,
			func(info domain.DocumentInfo, unit *domain.Node) {
				if r, ok := buildResult(info, unit, g.descriptor, termLower); ok {
					agg.add(r)
				}
			})...)
	}
	return diags
}

func (c *SearchCommand) searchCollections(ctx context.Context, termLower string, agg *resultSet) []application.Diagnostic {
	var diags []application.Diagnostic
	loader := NewBatchLoader(c.CollectionBatchSize, PreferBulk)
	for _, d := range domain.EnumerableDescriptors() {
		caps := application.Probe(d.ModelKey, c.host.Access(d.ModelKey))
		if !caps.CanList() {
			continue
		}
		infos, listDiags := CollectUnitInfos(ctx, caps)
		diags = append(diags, listDiags...)
		if len(infos) == 0 || !caps.CanLoad() {
			continue
		}
		diags = append(diags, loader.Load(ctx, caps, d.CollectionKey, "", infos,
			func(info domain.DocumentInfo, unit *domain.Node) {
				if r, ok := buildResult(info, unit, d, termLower); ok {
					agg.add(r)
				}
			})...)
	}
	return diags
}

// buildResult walks one loaded document and wraps its matches in a result
func buildResult(info domain.DocumentInfo, unit *domain.Node, d domain.Descriptor, termLower string) (domain.SearchResult, bool) {
	matches := matcher.FindMatches(unit, termLower, info, d)
	if len(matches) == 0 {
		return domain.SearchResult{}, false
	}

	docID := unit.ID
	if docID == "" {
		docID = info.ID
	}
	if docID == "" {
		return domain.SearchResult{}, false
	}

	moduleName := firstNonEmpty(info.ModuleName, unit.String("moduleName"))
	docName := firstNonEmpty(info.Name, unit.String("name"), "(unnamed)")
	displayName, qualifiedName := docName, docName
	if moduleName != "" {
		displayName = moduleName + " / " + docName
		qualifiedName = moduleName + "." + docName
	}
	typeTag := firstNonEmpty(info.Type, unit.Type, d.Label)

	return domain.SearchResult{
		DocumentID:      docID,
		DocumentName:    docName,
		DisplayName:     displayName,
		ModuleName:      moduleName,
		QualifiedName:   qualifiedName,
		DocumentType:    domain.HumanizeType(typeTag),
		TypeTag:         typeTag,
		CollectionKey:   d.CollectionKey,
		ModelKey:        d.ModelKey,
		CollectionLabel: d.Label,
		Matches:         matches,
	}, true
}

// resultSet keeps results keyed by collection and document in first-seen
// order; a later result for the same key replaces the earlier one
type resultSet struct {
	order []string
	byKey map[string]domain.SearchResult
}

func newResultSet() *resultSet {
	return &resultSet{byKey: make(map[string]domain.SearchResult)}
}

func (s *resultSet) add(r domain.SearchResult) {
	key := r.Key()
	if _, ok := s.byKey[key]; !ok {
		s.order = append(s.order, key)
	}
	s.byKey[key] = r
}

func (s *resultSet) values() []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
