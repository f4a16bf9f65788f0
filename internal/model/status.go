package model

// Lifecycle represents where a tracked project is in its funding window
type Lifecycle string

const (
	// LifecycleActive means the funding deadline is still in the future
	LifecycleActive Lifecycle = "Active"

	// LifecycleCompleted means the deadline has passed; terminal
	LifecycleCompleted Lifecycle = "Completed"
)

// String returns the string representation of Lifecycle
func (l Lifecycle) String() string {
	return string(l)
}

// IsActive returns true if the project is still collecting pledges
func (l Lifecycle) IsActive() bool {
	return l == LifecycleActive
}

// IsFinished returns true if the project reached its deadline
func (l Lifecycle) IsFinished() bool {
	return l == LifecycleCompleted
}

// Container names one of the two visible collections a project can sit in.
type Container int

const (
	ContainerNone Container = iota
	ContainerActive
	ContainerCompleted
)

// String returns a stable name for logs and tab identifiers.
func (c Container) String() string {
	switch c {
	case ContainerActive:
		return "active"
	case ContainerCompleted:
		return "completed"
	default:
		return "none"
	}
}

// ContainerFor maps a lifecycle state to the container that displays it.
func ContainerFor(l Lifecycle) Container {
	if l.IsFinished() {
		return ContainerCompleted
	}
	return ContainerActive
}

// Field identifies one settable text field of a displayed project entry.
type Field int

const (
	FieldTitle Field = iota
	FieldPledged
	FieldPercent
	FieldBackers
	FieldUpdates
	FieldTimeLeft
)

// String returns the field name
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldPledged:
		return "pledged"
	case FieldPercent:
		return "percent"
	case FieldBackers:
		return "backers"
	case FieldUpdates:
		return "updates"
	case FieldTimeLeft:
		return "time_left"
	default:
		return "unknown"
	}
}
