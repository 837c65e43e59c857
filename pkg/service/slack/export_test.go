package slack

// Export internal functions for testing
var (
	BuildAssignmentBlocks = buildAssignmentBlocks
	TruncateChars         = truncateChars
)
