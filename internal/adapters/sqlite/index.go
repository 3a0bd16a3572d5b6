// Package sqlite stores a project model in a SQLite database and serves it
// back as a host. Writes of one ApplyChanges call share a transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"

	"mxfind/internal/adapters/codec"
	"mxfind/internal/application"
	"mxfind/internal/domain"
	"mxfind/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.ModelIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
}

// Ensure Index implements ModelIndex
var _ ports.ModelIndex = (*Index)(nil)

// Option configures an Index
type Option func(*Index)

// WithLogger sets the logger for import problems
func WithLogger(l *slog.Logger) Option {
	return func(idx *Index) {
		if l != nil {
			idx.logger = l
		}
	}
}

// NewIndex creates a new SQLite index
func NewIndex(opts ...Option) *Index {
	idx := &Index{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Open opens (creating when needed) the database at dbPath
func (idx *Index) Open(dbPath string) error {
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	idx.dbPath = dbPath

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS containers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			container_id TEXT NOT NULL,
			module_name TEXT NOT NULL,
			folder_path TEXT NOT NULL,
			collection_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			hash INTEGER NOT NULL,
			body BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_containers_parent ON containers(parent_id);
		CREATE INDEX IF NOT EXISTS idx_documents_container ON documents(container_id);
		CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection_key);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file
func (idx *Index) Path() string {
	return idx.dbPath
}

// Access returns the access object for modelKey, mirroring a live host:
// "projects" traverses everything, enumerable collections list their own
// documents, other keys have no access object.
func (idx *Index) Access(modelKey string) any {
	if idx.db == nil {
		return nil
	}
	if modelKey == domain.ProjectsKey {
		return &projectView{idx: idx}
	}
	if d, ok := domain.DescriptorByKey(modelKey); ok && d.Enumerable {
		return &collectionView{idx: idx, key: d.CollectionKey}
	}
	return nil
}

const documentColumns = `id, type, name, module_name, folder_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInfo(row rowScanner, extra ...any) (domain.DocumentInfo, error) {
	var info domain.DocumentInfo
	var folders string
	dest := append([]any{&info.ID, &info.Type, &info.Name, &info.ModuleName, &folders}, extra...)
	if err := row.Scan(dest...); err != nil {
		return info, err
	}
	if err := j.Unmarshal([]byte(folders), &info.FolderPath); err != nil {
		return info, fmt.Errorf("folder path of %s: %w", info.ID, err)
	}
	return info, nil
}

func (idx *Index) listContainers(ctx context.Context, parentID string) ([]domain.Container, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, name FROM containers WHERE parent_id = ? ORDER BY position`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Container
	for rows.Next() {
		var c domain.Container
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (idx *Index) containerExists(ctx context.Context, id string) error {
	var one int
	err := idx.db.QueryRowContext(ctx, `SELECT 1 FROM containers WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("unknown container %s", id)
	}
	return err
}

func (idx *Index) queryInfos(ctx context.Context, where string, args ...any) ([]domain.DocumentInfo, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE `+where+` ORDER BY position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DocumentInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// loadBodies decodes the bodies of ids, in the order given
func (idx *Index) loadBodies(ctx context.Context, typeTag string, ids []string) ([]*domain.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, type, body FROM documents
		WHERE id IN (?`+strings.Repeat(", ?", len(ids)-1)+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Node, len(ids))
	for rows.Next() {
		var id, docType string
		var body []byte
		if err := rows.Scan(&id, &docType, &body); err != nil {
			return nil, err
		}
		if typeTag != "" && docType != typeTag {
			return nil, fmt.Errorf("document %s is %s, not %s", id, docType, typeTag)
		}
		n, err := decodeBody(id, body)
		if err != nil {
			return nil, err
		}
		byID[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", application.ErrDocumentNotFound, id)
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeBody(id string, body []byte) (*domain.Node, error) {
	n, err := codec.DecodeBytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", id, err)
	}
	codec.AssignIDs(n, id)
	return n, nil
}

// applyChanges writes every document of the batch in one transaction
func (idx *Index) applyChanges(ctx context.Context, changes []domain.Change, collectionKey string) error {
	tx, err := idx.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order, groups := domain.GroupByDocument(changes)
	for _, id := range order {
		body, key, err := tx.body(id)
		if err != nil {
			return err
		}
		if collectionKey != "" && key != collectionKey {
			return fmt.Errorf("%w: %s", application.ErrDocumentNotFound, id)
		}
		root, err := decodeBody(id, body)
		if err != nil {
			return err
		}
		if err := root.ApplyChanges(groups[id]); err != nil {
			return err
		}
		updated, err := codec.Encode(root)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", id, err)
		}
		if err := tx.updateBody(id, root.String("name"), updated); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// projectView walks the stored module tree
type projectView struct {
	idx *Index
}

func (v *projectView) ListModules(ctx context.Context) ([]domain.Container, error) {
	return v.idx.listContainers(ctx, "")
}

func (v *projectView) ListFolders(ctx context.Context, containerID string) ([]domain.Container, error) {
	if err := v.idx.containerExists(ctx, containerID); err != nil {
		return nil, err
	}
	return v.idx.listContainers(ctx, containerID)
}

func (v *projectView) ListDocumentInfos(ctx context.Context, containerID string) ([]domain.DocumentInfo, error) {
	if err := v.idx.containerExists(ctx, containerID); err != nil {
		return nil, err
	}
	return v.idx.queryInfos(ctx, `container_id = ?`, containerID)
}

func (v *projectView) LoadUnits(ctx context.Context, typeTag string, ids []string) ([]*domain.Node, error) {
	return v.idx.loadBodies(ctx, typeTag, ids)
}

func (v *projectView) ApplyChanges(ctx context.Context, changes []domain.Change) error {
	return v.idx.applyChanges(ctx, changes, "")
}

// collectionView serves the documents of one enumerable collection
type collectionView struct {
	idx *Index
	key string
}

func (v *collectionView) ListUnitInfos(ctx context.Context) ([]domain.DocumentInfo, error) {
	return v.idx.queryInfos(ctx, `collection_key = ?`, v.key)
}

func (v *collectionView) LoadAll(ctx context.Context, match func(domain.DocumentInfo) bool, expected int) ([]*domain.Node, error) {
	rows, err := v.idx.db.QueryContext(ctx, `
		SELECT `+documentColumns+`, body FROM documents
		WHERE collection_key = ? ORDER BY position`, v.key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Node, 0, expected)
	for rows.Next() {
		var body []byte
		info, err := scanInfo(rows, &body)
		if err != nil {
			return nil, err
		}
		if !match(info) {
			continue
		}
		n, err := decodeBody(info.ID, body)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (v *collectionView) ApplyChanges(ctx context.Context, changes []domain.Change) error {
	return v.idx.applyChanges(ctx, changes, v.key)
}
