// Package filesystem hosts a project stored on disk. Top-level directories are
// modules, nested directories are folders and every *.json file below a module
// is one document.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"mxfind/internal/adapters/codec"
	"mxfind/internal/application"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

const documentExt = ".json"

type container struct {
	domain.Container
	module     string
	folderPath []string
	folders    []string
	documents  []string
}

type document struct {
	info domain.DocumentInfo
	path string
}

// Project implements ports.Host over a project directory
type Project struct {
	root   string
	editor ports.EditorOpener
	logger *slog.Logger

	mu         sync.Mutex
	modules    []string
	containers map[string]*container
	documents  map[string]*document
}

// Option configures a Project
type Option func(*Project)

// WithEditor lets EditDocument open document files
func WithEditor(e ports.EditorOpener) Option {
	return func(p *Project) { p.editor = e }
}

// WithLogger sets the logger for scan problems
func WithLogger(l *slog.Logger) Option {
	return func(p *Project) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProject opens the project rooted at root and scans it
func NewProject(root string, opts ...Option) (*Project, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(root, "~") {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, root[1:])
	}
	p := &Project{root: root, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open project: %s is not a directory", root)
	}
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// Root returns the project directory
func (p *Project) Root() string {
	return p.root
}

// Refresh rescans the project directory
func (p *Project) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scan()
}

func (p *Project) scan() error {
	modules := []string{}
	containers := make(map[string]*container)
	documents := make(map[string]*document)

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == p.root {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		parts := strings.Split(rel, "/")

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			c := &container{
				Container: domain.Container{ID: containerID(rel), Name: d.Name()},
				module:    parts[0],
			}
			if len(parts) == 1 {
				modules = append(modules, c.ID)
			} else {
				c.folderPath = parts[1:]
				parent := containers[containerID(strings.Join(parts[:len(parts)-1], "/"))]
				parent.folders = append(parent.folders, c.ID)
			}
			containers[c.ID] = c
			return nil
		}

		if len(parts) == 1 || filepath.Ext(path) != documentExt || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		doc, err := p.readHeader(path, rel, parts)
		if err != nil {
			p.logger.Warn("scan.document.err", "path", rel, "err", err)
			return nil
		}
		if _, dup := documents[doc.info.ID]; dup {
			p.logger.Warn("scan.document.duplicate", "path", rel, "id", doc.info.ID)
			return nil
		}
		documents[doc.info.ID] = doc
		parent := containers[containerID(strings.Join(parts[:len(parts)-1], "/"))]
		parent.documents = append(parent.documents, doc.info.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan project: %w", err)
	}

	p.modules = modules
	p.containers = containers
	p.documents = documents
	return nil
}

func (p *Project) readHeader(path, rel string, parts []string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := codec.PeekHeader(f)
	if err != nil {
		return nil, err
	}
	if h.Type == "" {
		return nil, fmt.Errorf("missing %s", domain.TypeField)
	}
	if h.ID == "" {
		h.ID = documentID(rel)
	}
	if h.Name == "" {
		h.Name = strings.TrimSuffix(parts[len(parts)-1], documentExt)
	}
	folders := parts[1 : len(parts)-1]
	return &document{
		path: path,
		info: domain.DocumentInfo{
			ID:         h.ID,
			Type:       h.Type,
			Name:       h.Name,
			ModuleName: parts[0],
			FolderPath: append([]string(nil), folders...),
		},
	}, nil
}

func containerID(rel string) string {
	return fmt.Sprintf("c-%016x", xxh3.HashString(rel))
}

func documentID(rel string) string {
	return fmt.Sprintf("d-%016x", xxh3.HashString(rel))
}

// Access returns the access object for modelKey: the whole project for
// "projects", a filtered view for enumerable collections, nil otherwise.
func (p *Project) Access(modelKey string) any {
	if modelKey == domain.ProjectsKey {
		return &projectAccess{p: p}
	}
	if d, ok := domain.DescriptorByKey(modelKey); ok && d.Enumerable {
		return &collectionAccess{p: p, key: d.CollectionKey}
	}
	return nil
}

// EditDocument opens the document's file in the configured editor
func (p *Project) EditDocument(ctx context.Context, documentID string) error {
	if p.editor == nil {
		return application.ErrEditorUnavailable
	}
	p.mu.Lock()
	doc, ok := p.documents[documentID]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", application.ErrDocumentNotFound, documentID)
	}
	return p.editor.OpenFile(ctx, doc.path)
}

// DocumentPath returns the file holding a document
func (p *Project) DocumentPath(documentID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	doc, ok := p.documents[documentID]
	if !ok {
		return "", false
	}
	return doc.path, true
}

func (p *Project) listModules() []domain.Container {
	out := make([]domain.Container, 0, len(p.modules))
	for _, id := range p.modules {
		out = append(out, p.containers[id].Container)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (p *Project) lookupContainer(id string) (*container, error) {
	c, ok := p.containers[id]
	if !ok {
		return nil, fmt.Errorf("unknown container %s", id)
	}
	return c, nil
}

func (p *Project) loadDocument(id string) (*domain.Node, *document, error) {
	doc, ok := p.documents[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", application.ErrDocumentNotFound, id)
	}
	f, err := os.Open(doc.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}
	defer f.Close()

	n, err := codec.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", doc.info.Name, err)
	}
	codec.AssignIDs(n, id)
	return n, doc, nil
}

// applyChanges writes each document of the batch. Every change for one
// document is checked before its file is replaced.
func (p *Project) applyChanges(changes []domain.Change, allow func(*document) bool) error {
	order, groups := domain.GroupByDocument(changes)
	for _, id := range order {
		root, doc, err := p.loadDocument(id)
		if err != nil {
			return err
		}
		if allow != nil && !allow(doc) {
			return fmt.Errorf("%w: %s", application.ErrDocumentNotFound, id)
		}
		if err := root.ApplyChanges(groups[id]); err != nil {
			return err
		}
		body, err := codec.Encode(root)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", doc.info.Name, err)
		}
		if err := writeFileAtomic(doc.path, body); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic replaces path via a temp file in the same directory
func writeFileAtomic(path string, body []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// projectAccess walks modules and folders and loads any document
type projectAccess struct {
	p *Project
}

func (a *projectAccess) ListModules(ctx context.Context) ([]domain.Container, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	if err := a.p.scan(); err != nil {
		return nil, err
	}
	return a.p.listModules(), nil
}

func (a *projectAccess) ListFolders(ctx context.Context, containerID string) ([]domain.Container, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	c, err := a.p.lookupContainer(containerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Container, 0, len(c.folders))
	for _, id := range c.folders {
		out = append(out, a.p.containers[id].Container)
	}
	return out, nil
}

func (a *projectAccess) ListDocumentInfos(ctx context.Context, containerID string) ([]domain.DocumentInfo, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	c, err := a.p.lookupContainer(containerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DocumentInfo, 0, len(c.documents))
	for _, id := range c.documents {
		out = append(out, a.p.documents[id].info)
	}
	return out, nil
}

func (a *projectAccess) LoadUnits(ctx context.Context, typeTag string, ids []string) ([]*domain.Node, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	out := make([]*domain.Node, 0, len(ids))
	for _, id := range ids {
		n, doc, err := a.p.loadDocument(id)
		if err != nil {
			return nil, err
		}
		if typeTag != "" && doc.info.Type != typeTag {
			return nil, fmt.Errorf("document %s is %s, not %s", id, doc.info.Type, typeTag)
		}
		out = append(out, n)
	}
	return out, nil
}

func (a *projectAccess) ApplyChanges(ctx context.Context, changes []domain.Change) error {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	return a.p.applyChanges(changes, nil)
}

// collectionAccess exposes the documents one enumerable collection owns
type collectionAccess struct {
	p   *Project
	key string
}

func (a *collectionAccess) owns(doc *document) bool {
	return domain.ResolveDescriptor(doc.info.Type).CollectionKey == a.key
}

func (a *collectionAccess) ListUnitInfos(ctx context.Context) ([]domain.DocumentInfo, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	if err := a.p.scan(); err != nil {
		return nil, err
	}
	var out []domain.DocumentInfo
	for _, doc := range a.p.documents {
		if a.owns(doc) {
			out = append(out, doc.info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (a *collectionAccess) LoadAll(ctx context.Context, match func(domain.DocumentInfo) bool, expected int) ([]*domain.Node, error) {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	out := make([]*domain.Node, 0, expected)
	ids := make([]string, 0, expected)
	for id, doc := range a.p.documents {
		if a.owns(doc) && match(doc.info) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		n, _, err := a.p.loadDocument(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (a *collectionAccess) ApplyChanges(ctx context.Context, changes []domain.Change) error {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	return a.p.applyChanges(changes, a.owns)
}
