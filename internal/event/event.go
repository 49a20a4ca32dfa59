package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	PackStarted Type = iota + 1
	FileAdded
	DirAdded
	CycleSkipped
	UnpackStarted
	FileExtracted
	DirCreated
	VerifyStarted
	VerifyOK
	VerifyMismatch
)

var typeNames = [...]string{
	PackStarted:    "PackStarted",
	FileAdded:      "FileAdded",
	DirAdded:       "DirAdded",
	CycleSkipped:   "CycleSkipped",
	UnpackStarted:  "UnpackStarted",
	FileExtracted:  "FileExtracted",
	DirCreated:     "DirCreated",
	VerifyStarted:  "VerifyStarted",
	VerifyOK:       "VerifyOK",
	VerifyMismatch: "VerifyMismatch",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // entry name, or filesystem path for skips
	Size      int64  // entry size in bytes
	Error     error
}
