package commands

import (
	"context"
	"errors"
	"strconv"

	"mxfind/internal/application"
	"mxfind/internal/domain"
)

// fakeStore is the shared document backend behind the fake access objects
type fakeStore struct {
	units     map[string]*domain.Node
	infos     []domain.DocumentInfo
	failApply map[string]error
	loadErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{units: map[string]*domain.Node{}, failApply: map[string]error{}}
}

func (s *fakeStore) add(info domain.DocumentInfo, unit *domain.Node) {
	s.infos = append(s.infos, info)
	s.units[info.ID] = unit
}

func (s *fakeStore) info(id string) domain.DocumentInfo {
	for _, info := range s.infos {
		if info.ID == id {
			return info
		}
	}
	return domain.DocumentInfo{}
}

func (s *fakeStore) apply(changes []domain.Change) error {
	order, groups := domain.GroupByDocument(changes)
	for _, docID := range order {
		if err := s.failApply[docID]; err != nil {
			return err
		}
		unit := s.units[docID]
		if unit == nil {
			return application.ErrDocumentNotFound
		}
		if err := unit.ApplyChanges(groups[docID]); err != nil {
			return err
		}
	}
	return nil
}

// projectAccess supports the module/folder walk, id-list loading and writes
type projectAccess struct {
	store       *fakeStore
	modules     []domain.Container
	folders     map[string][]domain.Container
	docs        map[string][]string
	failModules error
	failDocs    map[string]error
	failFolders map[string]error
	loadCalls   [][]string
	applyCalls  [][]domain.Change
}

func (p *projectAccess) ListModules(context.Context) ([]domain.Container, error) {
	if p.failModules != nil {
		return nil, p.failModules
	}
	return p.modules, nil
}

func (p *projectAccess) ListFolders(_ context.Context, containerID string) ([]domain.Container, error) {
	if err := p.failFolders[containerID]; err != nil {
		return nil, err
	}
	return p.folders[containerID], nil
}

func (p *projectAccess) ListDocumentInfos(_ context.Context, containerID string) ([]domain.DocumentInfo, error) {
	if err := p.failDocs[containerID]; err != nil {
		return nil, err
	}
	var out []domain.DocumentInfo
	for _, id := range p.docs[containerID] {
		info := p.store.info(id)
		info.ModuleName = ""
		out = append(out, info)
	}
	return out, nil
}

func (p *projectAccess) LoadUnits(_ context.Context, _ string, ids []string) ([]*domain.Node, error) {
	p.loadCalls = append(p.loadCalls, ids)
	if p.store.loadErr != nil {
		return nil, p.store.loadErr
	}
	var out []*domain.Node
	for _, id := range ids {
		if u := p.store.units[id]; u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (p *projectAccess) ApplyChanges(_ context.Context, changes []domain.Change) error {
	p.applyCalls = append(p.applyCalls, changes)
	return p.store.apply(changes)
}

// collectionAccess lists its own units, bulk-loads and writes
type collectionAccess struct {
	store      *fakeStore
	key        string
	listErr    error
	bulkCalls  int
	applyCalls [][]domain.Change
}

func (c *collectionAccess) ListUnitInfos(context.Context) ([]domain.DocumentInfo, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []domain.DocumentInfo
	for _, info := range c.store.infos {
		if domain.ResolveDescriptor(info.Type).CollectionKey == c.key {
			out = append(out, info)
		}
	}
	return out, nil
}

func (c *collectionAccess) LoadAll(_ context.Context, match func(domain.DocumentInfo) bool, _ int) ([]*domain.Node, error) {
	c.bulkCalls++
	if c.store.loadErr != nil {
		return nil, c.store.loadErr
	}
	var out []*domain.Node
	for _, info := range c.store.infos {
		if match(info) {
			out = append(out, c.store.units[info.ID])
		}
	}
	return out, nil
}

func (c *collectionAccess) ApplyChanges(_ context.Context, changes []domain.Change) error {
	c.applyCalls = append(c.applyCalls, changes)
	return c.store.apply(changes)
}

// readOnlyAccess loads but cannot write
type readOnlyAccess struct{ store *fakeStore }

func (r readOnlyAccess) LoadUnits(_ context.Context, _ string, ids []string) ([]*domain.Node, error) {
	var out []*domain.Node
	for _, id := range ids {
		out = append(out, r.store.units[id])
	}
	return out, nil
}

// fakeHost counts every access lookup
type fakeHost struct {
	access map[string]any
	calls  int
}

func (h *fakeHost) Access(key string) any {
	h.calls++
	if v, ok := h.access[key]; ok {
		return v
	}
	return nil
}

// editorHost is a host that can also open documents
type editorHost struct {
	fakeHost
	opened []string
	err    error
}

func (h *editorHost) EditDocument(_ context.Context, id string) error {
	if h.err != nil {
		return h.err
	}
	h.opened = append(h.opened, id)
	return nil
}

func microflowDoc(id, name string, variables ...string) *domain.Node {
	var objects []any
	for i, v := range variables {
		objects = append(objects, domain.NewNode("Microflows$ActionActivity", id+"-aa"+strconv.Itoa(i),
			domain.P("action", domain.NewNode("Microflows$CreateVariableAction", id+"-cv"+strconv.Itoa(i),
				domain.P("variableName", v),
			)),
		))
	}
	return domain.NewNode("Microflows$Microflow", id,
		domain.P("name", name),
		domain.P("objectCollection", domain.NewNode("Microflows$MicroflowObjectCollection", id+"-oc",
			domain.P("objects", objects),
		)),
	)
}

func pageDoc(id, name string, widgets ...string) *domain.Node {
	var items []any
	for i, w := range widgets {
		items = append(items, domain.NewNode("Pages$TextBox", id+"-w"+strconv.Itoa(i), domain.P("name", w)))
	}
	return domain.NewNode("Pages$Page", id, domain.P("name", name), domain.P("widgets", items))
}

type scenario struct {
	store      *fakeStore
	project    *projectAccess
	microflows *collectionAccess
	pages      *collectionAccess
	host       *fakeHost
}

// newScenario builds a project with a Sales module holding one microflow
// and an Admin module whose UI folder holds one page.
func newScenario(variables []string, widgets []string) *scenario {
	store := newFakeStore()
	store.add(domain.DocumentInfo{ID: "mf1", Type: "Microflows$Microflow", Name: "ACT_ProcessOrder", ModuleName: "Sales"},
		microflowDoc("mf1", "ACT_ProcessOrder", variables...))
	store.add(domain.DocumentInfo{ID: "pg1", Type: "Pages$Page", Name: "Home", ModuleName: "Admin"},
		pageDoc("pg1", "Home", widgets...))

	project := &projectAccess{
		store:   store,
		modules: []domain.Container{{ID: "mod-sales", Name: "Sales"}, {ID: "mod-admin", Name: "Admin"}},
		folders: map[string][]domain.Container{"mod-admin": {{ID: "fld-ui", Name: "UI"}}},
		docs:    map[string][]string{"mod-sales": {"mf1"}, "fld-ui": {"pg1"}},
	}
	microflows := &collectionAccess{store: store, key: "microflows"}
	pages := &collectionAccess{store: store, key: "pages"}
	host := &fakeHost{access: map[string]any{
		domain.ProjectsKey: project,
		"microflows":       microflows,
		"pages":            pages,
	}}
	return &scenario{store: store, project: project, microflows: microflows, pages: pages, host: host}
}

var errLocked = errors.New("document is locked")
