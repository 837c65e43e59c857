package cli

var (
	WriteReport     = writeReport
	GetIndexConfig  = getIndexConfig
	MigrationSteps  = migrationSteps
	ReportAssignees = reportAssignees
)

type MigrationStep = migrationStep
