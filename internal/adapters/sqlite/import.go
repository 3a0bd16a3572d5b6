package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mxfind/internal/adapters/codec"
	"mxfind/internal/application"
	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

type storedContainer struct {
	domain.Container
	parentID string
	position int
}

type storedDocument struct {
	info        domain.DocumentInfo
	containerID string
	position    int
	body        []byte
}

type walkFrame struct {
	container  domain.Container
	module     string
	folderPath []string
}

// Import replaces the stored model with source's project. Documents whose
// encoded body hashes the same as the stored one are kept as is. Documents
// that fail to load keep their previous row.
func (idx *Index) Import(ctx context.Context, source ports.Host) (*domain.ImportStats, error) {
	start := time.Now()
	caps := application.Probe(domain.ProjectsKey, source.Access(domain.ProjectsKey))
	if !caps.CanTraverse() {
		return nil, fmt.Errorf("%w: source cannot be traversed", application.ErrHostUnavailable)
	}

	containers, docs, err := walkSource(ctx, caps)
	if err != nil {
		return nil, err
	}
	existing, err := idx.storedHashes(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.ImportStats{Containers: len(containers)}
	loaded := make(map[string][]byte, len(docs))
	loader := commands.NewBatchLoader(commands.DefaultProjectBatchSize, commands.PreferUnits)
	for _, group := range groupByType(docs) {
		typeTag := group[0].info.Type
		diags := loader.Load(ctx, caps, typeTag, typeTag, infosOf(group),
			func(info domain.DocumentInfo, unit *domain.Node) {
				body, err := codec.Encode(unit)
				if err != nil {
					idx.logger.Warn("import.encode.err", "document", info.ID, "err", err)
					return
				}
				loaded[info.ID] = body
			})
		application.LogDiagnostics(ctx, idx.logger, diags)
	}

	tx, err := idx.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.clearContainers(); err != nil {
		return nil, err
	}
	for _, c := range containers {
		if err := tx.insertContainer(c); err != nil {
			return nil, fmt.Errorf("failed to store container %s: %w", c.Name, err)
		}
	}

	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		seen[d.info.ID] = struct{}{}
		body, ok := loaded[d.info.ID]
		if !ok {
			stats.LoadFailures++
			continue
		}
		d.body = body

		prev, stored := existing[d.info.ID]
		switch {
		case stored && prev == hashBody(body):
			err = tx.moveDocument(d)
			stats.DocumentsKept++
		case stored:
			err = tx.upsertDocument(d)
			stats.DocumentsUpdated++
		default:
			err = tx.upsertDocument(d)
			stats.DocumentsAdded++
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store document %s: %w", d.info.Name, err)
		}
	}

	for id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := tx.deleteDocument(id); err != nil {
			return nil, err
		}
		stats.DocumentsGone++
	}

	if err := tx.setMeta("last_import_time", strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// walkSource lists the source's module tree. Listing errors abort the import
// since a partial listing would read as deleted documents.
func walkSource(ctx context.Context, caps application.Capabilities) ([]storedContainer, []storedDocument, error) {
	modules, err := caps.Modules.ListModules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list modules: %w", err)
	}

	var containers []storedContainer
	var docs []storedDocument
	stack := make([]walkFrame, 0, len(modules))
	for i := len(modules) - 1; i >= 0; i-- {
		stack = append(stack, walkFrame{container: modules[i], module: modules[i].Name})
	}
	for i, m := range modules {
		containers = append(containers, storedContainer{Container: m, position: i})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		infos, err := caps.Documents.ListDocumentInfos(ctx, f.container.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list documents of %s: %w", f.container.Name, err)
		}
		for _, info := range infos {
			if info.ModuleName == "" {
				info.ModuleName = f.module
			}
			if info.FolderPath == nil {
				info.FolderPath = f.folderPath
			}
			docs = append(docs, storedDocument{info: info, containerID: f.container.ID, position: len(docs)})
		}

		folders, err := caps.Folders.ListFolders(ctx, f.container.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list folders of %s: %w", f.container.Name, err)
		}
		for i, folder := range folders {
			containers = append(containers, storedContainer{Container: folder, parentID: f.container.ID, position: i})
		}
		for i := len(folders) - 1; i >= 0; i-- {
			path := append(append([]string(nil), f.folderPath...), folders[i].Name)
			stack = append(stack, walkFrame{container: folders[i], module: f.module, folderPath: path})
		}
	}
	return containers, docs, nil
}

func (idx *Index) storedHashes(ctx context.Context) (map[string]int64, error) {
	if idx.db == nil {
		return nil, fmt.Errorf("index is not open")
	}
	rows, err := idx.db.QueryContext(ctx, `SELECT id, hash FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var hash int64
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		out[id] = hash
	}
	return out, rows.Err()
}

// groupByType splits documents by type tag, in first-seen order
func groupByType(docs []storedDocument) [][]storedDocument {
	index := make(map[string]int)
	var groups [][]storedDocument
	for _, d := range docs {
		i, ok := index[d.info.Type]
		if !ok {
			i = len(groups)
			index[d.info.Type] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}

func infosOf(docs []storedDocument) []domain.DocumentInfo {
	out := make([]domain.DocumentInfo, len(docs))
	for i, d := range docs {
		out[i] = d.info
	}
	return out
}
