package hierarchy

// DatasetTypeDICOM is the type tag recorded for datasets built from DICOM files.
const DatasetTypeDICOM = "dicom"

// Hierarchy is the root of the reconstructed tree.
type Hierarchy struct {
	sessions ordered[*Session]
}

// New returns an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{sessions: newOrdered[*Session]()}
}

// UpsertSession returns the session for uid, creating it with the supplied
// subject code and label when it has not been seen before. The boolean is true
// when the session was created by this call.
func (h *Hierarchy) UpsertSession(uid, subjectCode, label string) (*Session, bool) {
	if existing, ok := h.sessions.get(uid); ok {
		return existing, false
	}
	session := &Session{
		UID:          uid,
		SubjectCode:  subjectCode,
		Label:        label,
		acquisitions: newOrdered[*Acquisition](),
	}
	h.sessions.put(uid, session)
	return session, true
}

// Session looks up a session by study instance UID.
func (h *Hierarchy) Session(uid string) (*Session, bool) {
	return h.sessions.get(uid)
}

// Sessions returns all sessions in first-seen order.
func (h *Hierarchy) Sessions() []*Session {
	return h.sessions.values()
}

// Len returns the number of sessions.
func (h *Hierarchy) Len() int {
	return h.sessions.len()
}

// Session groups the acquisitions recorded for one study.
type Session struct {
	UID         string
	SubjectCode string
	Label       string

	acquisitions ordered[*Acquisition]
}

// UpsertAcquisition returns the acquisition for key, creating it with label
// on first sight.
func (s *Session) UpsertAcquisition(key, label string) (*Acquisition, bool) {
	if existing, ok := s.acquisitions.get(key); ok {
		return existing, false
	}
	acq := &Acquisition{
		Key:      key,
		Label:    label,
		datasets: newOrdered[*Dataset](),
	}
	s.acquisitions.put(key, acq)
	return acq, true
}

// Acquisition looks up an acquisition by key.
func (s *Session) Acquisition(key string) (*Acquisition, bool) {
	return s.acquisitions.get(key)
}

// Acquisitions returns the session's acquisitions in first-seen order.
func (s *Session) Acquisitions() []*Acquisition {
	return s.acquisitions.values()
}

// Acquisition groups one or more series captured by a single procedure.
type Acquisition struct {
	Key   string
	Label string

	datasets ordered[*Dataset]
}

// SetLabel replaces the acquisition label.
func (a *Acquisition) SetLabel(label string) {
	a.Label = label
}

// UpsertDataset returns the dataset for seriesUID, creating it with the type
// tag and label on first sight.
func (a *Acquisition) UpsertDataset(seriesUID, datasetType, label string) (*Dataset, bool) {
	if existing, ok := a.datasets.get(seriesUID); ok {
		return existing, false
	}
	ds := &Dataset{
		SeriesUID: seriesUID,
		Type:      datasetType,
		Label:     label,
		images:    newOrdered[string](),
	}
	a.datasets.put(seriesUID, ds)
	return ds, true
}

// Dataset looks up a dataset by series instance UID.
func (a *Acquisition) Dataset(seriesUID string) (*Dataset, bool) {
	return a.datasets.get(seriesUID)
}

// Datasets returns the acquisition's datasets in first-seen order.
func (a *Acquisition) Datasets() []*Dataset {
	return a.datasets.values()
}

// Dataset is one series worth of images, the unit of transfer.
type Dataset struct {
	SeriesUID string
	Type      string
	Label     string

	images ordered[string]
}

// Image is a single image identifier and the file that carries it.
type Image struct {
	ID   string
	Path string
}

// PutImage records path for the image identifier. A repeated identifier
// keeps its position but takes the new path; the return value reports that
// an earlier path was replaced.
func (d *Dataset) PutImage(id, path string) bool {
	return d.images.put(id, path)
}

// Images returns the dataset's images in first-seen order.
func (d *Dataset) Images() []Image {
	out := make([]Image, 0, d.images.len())
	for _, id := range d.images.keys {
		out = append(out, Image{ID: id, Path: d.images.items[id]})
	}
	return out
}

// ImagePaths returns the source paths of the dataset's images.
func (d *Dataset) ImagePaths() []string {
	return d.images.values()
}

// ImageCount returns the number of distinct image identifiers.
func (d *Dataset) ImageCount() int {
	return d.images.len()
}
