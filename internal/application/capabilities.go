package application

import (
	"mxfind/internal/ports"
)

// Capabilities records which host operations one access object supports.
// It is computed once per access object; nil fields are unsupported.
type Capabilities struct {
	ModelKey  string
	Modules   ports.ModuleLister
	Folders   ports.FolderLister
	Documents ports.DocumentInfoLister
	UnitInfos ports.UnitInfoLister
	Units     ports.UnitLoader
	Bulk      ports.BulkLoader
	Changes   ports.ChangeApplier
}

// Probe inspects access for every capability interface
func Probe(modelKey string, access any) Capabilities {
	c := Capabilities{ModelKey: modelKey}
	if access == nil {
		return c
	}
	c.Modules, _ = access.(ports.ModuleLister)
	c.Folders, _ = access.(ports.FolderLister)
	c.Documents, _ = access.(ports.DocumentInfoLister)
	c.UnitInfos, _ = access.(ports.UnitInfoLister)
	c.Units, _ = access.(ports.UnitLoader)
	c.Bulk, _ = access.(ports.BulkLoader)
	c.Changes, _ = access.(ports.ChangeApplier)
	return c
}

// CanTraverse reports whether the module/folder walk is possible
func (c Capabilities) CanTraverse() bool {
	return c.Modules != nil && c.Folders != nil && c.Documents != nil && c.Units != nil
}

// CanList reports whether the collection enumerates its own units
func (c Capabilities) CanList() bool {
	return c.UnitInfos != nil
}

// CanLoad reports whether document bodies can be loaded
func (c Capabilities) CanLoad() bool {
	return c.Units != nil || c.Bulk != nil
}

// CanWrite reports whether changes can be written back
func (c Capabilities) CanWrite() bool {
	return c.Changes != nil
}

// ResolveAccess probes the host's access object for modelKey. An empty key
// means the generic projects collection. Access objects that cannot load
// anything are treated as absent.
func ResolveAccess(host ports.Host, modelKey string) (Capabilities, bool) {
	if modelKey == "" {
		modelKey = ProjectsKey
	}
	if host == nil {
		return Capabilities{ModelKey: modelKey}, false
	}
	c := Probe(modelKey, host.Access(modelKey))
	if !c.CanLoad() {
		return c, false
	}
	return c, true
}
