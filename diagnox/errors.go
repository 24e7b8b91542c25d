package diagnox

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSymptoms is returned when a request carries no symptoms. The
	// classifier is never called for such a request.
	ErrNoSymptoms = errors.New("select at least one symptom")
	// ErrUnknownSeverity is returned for tags outside Mild/Moderate/Severe.
	ErrUnknownSeverity = errors.New("unknown severity")
)

// Artifact names one of the files required at startup.
type Artifact string

const (
	ArtifactConfig      Artifact = "config"
	ArtifactTraining    Artifact = "training table"
	ArtifactSuggestions Artifact = "suggestion table"
	ArtifactClasses     Artifact = "class list"
	ArtifactModel       Artifact = "model"
)

// LoadError reports a startup artifact that could not be loaded.
type LoadError struct {
	Artifact Artifact
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("load %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// InferenceError reports a classifier failure for one request.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
