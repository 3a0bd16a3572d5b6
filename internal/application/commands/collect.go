package commands

import (
	"context"
	"slices"

	"mxfind/internal/application"
	"mxfind/internal/domain"
)

type containerFrame struct {
	id         string
	moduleName string
	folderPath []string
}

// CollectProjectDocuments walks modules and their folders and returns the
// info of every document found. A failing container is reported as a
// diagnostic and its branch abandoned; the walk continues elsewhere.
func CollectProjectDocuments(ctx context.Context, caps application.Capabilities) ([]domain.DocumentInfo, []application.Diagnostic) {
	var diags []application.Diagnostic
	if caps.Modules == nil || caps.Documents == nil {
		return nil, nil
	}

	modules, err := caps.Modules.ListModules(ctx)
	if err != nil {
		return nil, append(diags, application.Diagnostic{Stage: application.StageModules, Subject: caps.ModelKey, Err: err})
	}

	var stack []containerFrame
	for _, m := range modules {
		if m.ID == "" {
			continue
		}
		stack = append(stack, containerFrame{id: m.ID, moduleName: m.Name})
	}

	var docs []domain.DocumentInfo
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		infos, err := caps.Documents.ListDocumentInfos(ctx, cur.id)
		if err != nil {
			diags = append(diags, application.Diagnostic{Stage: application.StageDocuments, Subject: cur.id, Err: err})
		}
		for _, info := range infos {
			if info.ID == "" {
				continue
			}
			if info.ModuleName == "" {
				info.ModuleName = cur.moduleName
			}
			if len(info.FolderPath) == 0 {
				info.FolderPath = slices.Clone(cur.folderPath)
			}
			docs = append(docs, info)
		}

		if caps.Folders == nil {
			continue
		}
		folders, err := caps.Folders.ListFolders(ctx, cur.id)
		if err != nil {
			diags = append(diags, application.Diagnostic{Stage: application.StageFolders, Subject: cur.id, Err: err})
			continue
		}
		for _, f := range folders {
			if f.ID == "" {
				continue
			}
			path := slices.Clone(cur.folderPath)
			if f.Name != "" {
				path = append(path, f.Name)
			}
			stack = append(stack, containerFrame{id: f.ID, moduleName: cur.moduleName, folderPath: path})
		}
	}
	return docs, diags
}

// CollectUnitInfos lists the documents a collection owns
func CollectUnitInfos(ctx context.Context, caps application.Capabilities) ([]domain.DocumentInfo, []application.Diagnostic) {
	if caps.UnitInfos == nil {
		return nil, nil
	}
	infos, err := caps.UnitInfos.ListUnitInfos(ctx)
	if err != nil {
		return nil, []application.Diagnostic{{Stage: application.StageUnits, Subject: caps.ModelKey, Err: err}}
	}
	out := make([]domain.DocumentInfo, 0, len(infos))
	for _, info := range infos {
		if info.ID != "" {
			out = append(out, info)
		}
	}
	return out, nil
}
