package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Assignment() AssignmentRepository

	// Close releases backend resources
	Close() error
}
