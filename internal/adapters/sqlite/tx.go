package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	j "github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"mxfind/internal/application"
	"mxfind/internal/domain"
)

// indexTx groups the statements of one import or one change batch
type indexTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (idx *Index) begin(ctx context.Context) (*indexTx, error) {
	if idx.db == nil {
		return nil, errors.New("index is not open")
	}
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &indexTx{ctx: ctx, tx: tx}, nil
}

// hashBody is stored as a signed integer since SQLite has no unsigned type
func hashBody(body []byte) int64 {
	return int64(xxh3.Hash(body))
}

// body returns a stored document body and the collection that owns it
func (t *indexTx) body(id string) ([]byte, string, error) {
	var body []byte
	var key string
	err := t.tx.QueryRowContext(t.ctx, `SELECT body, collection_key FROM documents WHERE id = ?`, id).Scan(&body, &key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s", application.ErrDocumentNotFound, id)
	}
	return body, key, err
}

// updateBody replaces a document body and refreshes its hash. A non-empty
// name also replaces the listed name.
func (t *indexTx) updateBody(id, name string, body []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE documents SET body = ?, hash = ?, name = COALESCE(NULLIF(?, ''), name)
		WHERE id = ?
	`, body, hashBody(body), name, id)
	return err
}

// clearContainers drops the module tree before it is rewritten
func (t *indexTx) clearContainers() error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM containers`)
	return err
}

func (t *indexTx) insertContainer(c storedContainer) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO containers (id, name, parent_id, position)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.parentID, c.position)
	return err
}

// upsertDocument inserts or replaces a document row
func (t *indexTx) upsertDocument(d storedDocument) error {
	folders, err := j.Marshal(folderPath(d.info.FolderPath))
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT OR REPLACE INTO documents
			(id, type, name, container_id, module_name, folder_path, collection_key, position, hash, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.info.ID, d.info.Type, d.info.Name, d.containerID, d.info.ModuleName, string(folders),
		domain.ResolveDescriptor(d.info.Type).CollectionKey, d.position, hashBody(d.body), d.body)
	return err
}

// moveDocument updates listing data of a document whose body is unchanged
func (t *indexTx) moveDocument(d storedDocument) error {
	folders, err := j.Marshal(folderPath(d.info.FolderPath))
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		UPDATE documents SET name = ?, container_id = ?, module_name = ?, folder_path = ?, position = ?
		WHERE id = ?
	`, d.info.Name, d.containerID, d.info.ModuleName, string(folders), d.position, d.info.ID)
	return err
}

func (t *indexTx) deleteDocument(id string) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

func (t *indexTx) setMeta(key, value string) error {
	_, err := t.tx.ExecContext(t.ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}

// folderPath keeps an empty path encoded as [] rather than null
func folderPath(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
