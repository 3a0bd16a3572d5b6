package application

import "mxfind/internal/domain"

// ProjectsKey is the generic collection's model key
const ProjectsKey = domain.ProjectsKey

// Stage names the best-effort step a diagnostic comes from
type Stage string

const (
	StageModules   Stage = "collect.modules"
	StageDocuments Stage = "collect.documents"
	StageFolders   Stage = "collect.folders"
	StageUnits     Stage = "collect.units"
	StageLoad      Stage = "load.batch"
)
