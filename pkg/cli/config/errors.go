package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrDuplicateAssignee = goerr.New("duplicate assignee ID")
	ErrInvalidSeed       = goerr.New("invalid seed data")
	ErrInvalidBackend    = goerr.New("invalid repository backend")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	AssigneeIDKey = "assignee_id"
	EntryIndexKey = "entry_index"
	BackendKey    = "backend"
)
