package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, baseURL string, directory bool) *Slack {
	return &Slack{
		botToken:     botToken,
		channelID:    channelID,
		baseURL:      baseURL,
		directory:    directory,
		directoryTTL: time.Minute,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, seedPath string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
		seed:      Seed{path: seedPath},
	}
}

// NewPolicyForTest creates a Policy config for testing purposes
func NewPolicyForTest(path string) *Policy {
	return &Policy{path: path}
}
