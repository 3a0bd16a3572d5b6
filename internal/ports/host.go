package ports

import (
	"context"

	"mxfind/internal/domain"
)

// Host exposes the project model as a set of access objects keyed by model
// key ("projects", "microflows", "pages", ...). Each access object implements
// some subset of the capability interfaces below; callers probe for what
// they need. Access returns nil for unknown keys.
type Host interface {
	Access(modelKey string) any
}

// ModuleLister lists the project's top-level modules
type ModuleLister interface {
	ListModules(ctx context.Context) ([]domain.Container, error)
}

// FolderLister lists the folders directly inside a module or folder
type FolderLister interface {
	ListFolders(ctx context.Context, containerID string) ([]domain.Container, error)
}

// DocumentInfoLister lists the documents directly inside a module or folder
type DocumentInfoLister interface {
	ListDocumentInfos(ctx context.Context, containerID string) ([]domain.DocumentInfo, error)
}

// UnitInfoLister lists every document a collection owns
type UnitInfoLister interface {
	ListUnitInfos(ctx context.Context) ([]domain.DocumentInfo, error)
}

// UnitLoader loads full document bodies of one type by identifier
type UnitLoader interface {
	LoadUnits(ctx context.Context, typeTag string, ids []string) ([]*domain.Node, error)
}

// BulkLoader loads the document bodies whose infos satisfy match. expected is
// a hint of how many documents the caller wants.
type BulkLoader interface {
	LoadAll(ctx context.Context, match func(domain.DocumentInfo) bool, expected int) ([]*domain.Node, error)
}

// ChangeApplier writes a batch of changes. One call must be atomic per
// document: either every change for a document is stored or none is.
type ChangeApplier interface {
	ApplyChanges(ctx context.Context, changes []domain.Change) error
}

// DocumentEditor opens a document in the host's editor
type DocumentEditor interface {
	EditDocument(ctx context.Context, documentID string) error
}
