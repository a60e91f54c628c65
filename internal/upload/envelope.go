package upload

import (
	"encoding/json"
	"fmt"

	"reaper/internal/hierarchy"
	"reaper/internal/textutil"
)

// Envelope is the metadata document sent alongside each archive.
type Envelope struct {
	Group       GroupRef       `json:"group"`
	Project     ProjectRef     `json:"project"`
	Session     SessionRef     `json:"session"`
	Acquisition AcquisitionRef `json:"acquisition"`
}

type GroupRef struct {
	ID string `json:"id"`
}

type ProjectRef struct {
	Label string `json:"label"`
}

type SessionRef struct {
	UID     string     `json:"uid"`
	Label   string     `json:"label"`
	Subject SubjectRef `json:"subject"`
}

type SubjectRef struct {
	Code string `json:"code"`
}

type AcquisitionRef struct {
	UID   string    `json:"uid"`
	Label string    `json:"label"`
	Files []FileRef `json:"files"`
}

// FileRef names the single archive carried by a transfer.
type FileRef struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// NewEnvelope describes one archive built from a dataset of acq in session.
func NewEnvelope(group, project string, session *hierarchy.Session, acq *hierarchy.Acquisition, datasetType, archiveName string) Envelope {
	return Envelope{
		Group:   GroupRef{ID: group},
		Project: ProjectRef{Label: project},
		Session: SessionRef{
			UID:     session.UID,
			Label:   session.Label,
			Subject: SubjectRef{Code: session.SubjectCode},
		},
		Acquisition: AcquisitionRef{
			UID:   acq.Key,
			Label: acq.Label,
			Files: []FileRef{{Type: datasetType, Name: archiveName}},
		},
	}
}

// File returns the envelope's single file descriptor.
func (e Envelope) File() FileRef {
	if len(e.Acquisition.Files) == 0 {
		return FileRef{}
	}
	return e.Acquisition.Files[0]
}

// SidecarSuffix names the metadata file stored next to an archive by the
// object-store and directory backends.
const SidecarSuffix = ".metadata.json"

// MarshalSidecar renders the envelope as indented JSON.
func (e Envelope) MarshalSidecar() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return append(data, '\n'), nil
}

// Segments returns the group/project/session/acquisition path components
// used to lay out stored archives. Components are sanitized for use in
// object keys and directory names.
func (e Envelope) Segments() []string {
	return []string{
		textutil.SanitizeSegment(e.Group.ID),
		textutil.SanitizeSegment(e.Project.Label),
		textutil.SanitizeSegment(e.Session.UID),
		textutil.SanitizeSegment(e.Acquisition.UID),
	}
}
