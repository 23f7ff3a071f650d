// entities.go defines one plain struct per table.
//
// Entities are what reference data files decode into (see the seed
// command) and what typed callers read back. Each implements Mapper so it
// can be handed to InsertMany without reflection.

package store

import "time"

// Mapper converts an entity into a Record keyed by column name.
type Mapper interface {
	Kind() Kind
	Mapping() Record
}

// Records maps a slice of entities into Records for InsertMany.
func Records[T Mapper](items []T) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.Mapping()
	}
	return out
}

// Info is a key/value row describing the database itself. The most recent
// ModifyTime is shown as the catalog's last update.
type Info struct {
	Key          string    `yaml:"key" json:"key"`
	Value        string    `yaml:"value" json:"value"`
	Notes        string    `yaml:"notes,omitempty" json:"notes,omitempty"`
	ModifyTime   time.Time `yaml:"modify_time" json:"modify_time"`
	CreateTime   time.Time `yaml:"create_time" json:"create_time"`
	DisplayOrder int64     `yaml:"display_order" json:"display_order"`
}

func (Info) Kind() Kind { return KindInfo }

func (i Info) Mapping() Record {
	return Record{
		"key":           i.Key,
		"value":         i.Value,
		"notes":         i.Notes,
		"modify_time":   i.ModifyTime,
		"create_time":   i.CreateTime,
		"display_order": i.DisplayOrder,
	}
}

// Named is the shape shared by runs, beamlines, techniques, stations and
// process statuses.
type Named struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	kind Kind
}

// NewNamed returns a Named entity of kind k.
func NewNamed(k Kind, id int64, name string) Named {
	return Named{ID: id, Name: name, kind: k}
}

func (n Named) Kind() Kind { return n.kind }

func (n Named) Mapping() Record {
	return Record{"id": n.ID, "name": n.Name}
}

// WithKind returns named entities tagged with k. YAML decoding cannot set
// the unexported kind, so loaders call this after decoding.
func WithKind(k Kind, items []Named) []Named {
	out := make([]Named, len(items))
	for i, n := range items {
		n.kind = k
		out[i] = n
	}
	return out
}

// Acknowledgment is a funding or facility acknowledgment text.
type Acknowledgment struct {
	ID    int64  `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

func (Acknowledgment) Kind() Kind { return KindAcknowledgment }

func (a Acknowledgment) Mapping() Record {
	return Record{"id": a.ID, "title": a.Title, "text": a.Text}
}

// Person is a facility user or staff member.
type Person struct {
	ID            int64  `yaml:"id" json:"id"`
	Badge         int64  `yaml:"badge" json:"badge"`
	FirstName     string `yaml:"first_name" json:"first_name"`
	LastName      string `yaml:"last_name" json:"last_name"`
	Email         string `yaml:"email,omitempty" json:"email,omitempty"`
	ORCID         string `yaml:"orcid,omitempty" json:"orcid,omitempty"`
	AffiliationID *int64 `yaml:"affiliation_id,omitempty" json:"affiliation_id,omitempty"`
	UserLevelID   *int64 `yaml:"user_level_id,omitempty" json:"user_level_id,omitempty"`
}

func (Person) Kind() Kind { return KindPerson }

func (p Person) Mapping() Record {
	return Record{
		"id":             p.ID,
		"badge":          p.Badge,
		"first_name":     p.FirstName,
		"last_name":      p.LastName,
		"email":          p.Email,
		"orcid":          p.ORCID,
		"affiliation_id": ptr(p.AffiliationID),
		"user_level_id":  ptr(p.UserLevelID),
	}
}

// Experiment is a scheduled beamtime experiment.
type Experiment struct {
	ID                int64      `yaml:"id" json:"id"`
	TimeRequest       *int64     `yaml:"time_request,omitempty" json:"time_request,omitempty"`
	RunID             *int64     `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	ESAFTypeID        *int64     `yaml:"esaf_type_id,omitempty" json:"esaf_type_id,omitempty"`
	ESAFStatusID      *int64     `yaml:"esaf_status_id,omitempty" json:"esaf_status_id,omitempty"`
	BeamlineID        *int64     `yaml:"beamline_id,omitempty" json:"beamline_id,omitempty"`
	ProposalID        *int64     `yaml:"proposal_id,omitempty" json:"proposal_id,omitempty"`
	SpokespersonID    *int64     `yaml:"spokesperson_id,omitempty" json:"spokesperson_id,omitempty"`
	BeamlineContactID *int64     `yaml:"beamline_contact_id,omitempty" json:"beamline_contact_id,omitempty"`
	Title             *string    `yaml:"title,omitempty" json:"title,omitempty"`
	Description       *string    `yaml:"description,omitempty" json:"description,omitempty"`
	StartDate         *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate           *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	UserFolder        *string    `yaml:"user_folder,omitempty" json:"user_folder,omitempty"`
	DataDOI           *string    `yaml:"data_doi,omitempty" json:"data_doi,omitempty"`
	ESAFPDFFile       *string    `yaml:"esaf_pdf_file,omitempty" json:"esaf_pdf_file,omitempty"`
	ProposalPDFFile   *string    `yaml:"proposal_pdf_file,omitempty" json:"proposal_pdf_file,omitempty"`
	FolderStatusID    *int64     `yaml:"folder_status_id,omitempty" json:"folder_status_id,omitempty"`
	ProcessStatusID   *int64     `yaml:"process_status_id,omitempty" json:"process_status_id,omitempty"`
}

func (Experiment) Kind() Kind { return KindExperiment }

func (e Experiment) Mapping() Record {
	return Record{
		"id":                  e.ID,
		"time_request":        ptr(e.TimeRequest),
		"run_id":              ptr(e.RunID),
		"esaf_type_id":        ptr(e.ESAFTypeID),
		"esaf_status_id":      ptr(e.ESAFStatusID),
		"beamline_id":         ptr(e.BeamlineID),
		"proposal_id":         ptr(e.ProposalID),
		"spokesperson_id":     ptr(e.SpokespersonID),
		"beamline_contact_id": ptr(e.BeamlineContactID),
		"title":               ptr(e.Title),
		"description":         ptr(e.Description),
		"start_date":          ptr(e.StartDate),
		"end_date":            ptr(e.EndDate),
		"user_folder":         ptr(e.UserFolder),
		"data_doi":            ptr(e.DataDOI),
		"esaf_pdf_file":       ptr(e.ESAFPDFFile),
		"proposal_pdf_file":   ptr(e.ProposalPDFFile),
		"folder_status_id":    ptr(e.FolderStatusID),
		"process_status_id":   ptr(e.ProcessStatusID),
	}
}

// Queue is a row waiting for downstream processing. ID is assigned by the
// database; Acknowledgments is a comma separated list.
type Queue struct {
	ID               int64   `json:"id"`
	ExperimentNumber *int64  `json:"experiment_number"`
	Title            *string `json:"title"`
	DataPath         *string `json:"data_path"`
	PVLogPath        *string `json:"pvlog_path"`
	DOI              *bool   `json:"doi"`
	ProposalNumber   *int64  `json:"proposal_number"`
	Acknowledgments  *string `json:"acknowledgments"`
}

func (Queue) Kind() Kind { return KindQueue }

// Mapping omits id when it is zero so the database assigns one.
func (q Queue) Mapping() Record {
	r := Record{
		"experiment_number": ptr(q.ExperimentNumber),
		"title":             ptr(q.Title),
		"data_path":         ptr(q.DataPath),
		"pvlog_path":        ptr(q.PVLogPath),
		"doi":               ptr(q.DOI),
		"proposal_number":   ptr(q.ProposalNumber),
		"acknowledgments":   ptr(q.Acknowledgments),
	}
	if q.ID != 0 {
		r["id"] = q.ID
	}
	return r
}

// QueueFromRecord reads a queue Record back into a Queue.
func QueueFromRecord(r Record) Queue {
	q := Queue{}
	if id, ok := r["id"].(int64); ok {
		q.ID = id
	}
	q.ExperimentNumber = intPtr(r["experiment_number"])
	q.Title = strPtr(r["title"])
	q.DataPath = strPtr(r["data_path"])
	q.PVLogPath = strPtr(r["pvlog_path"])
	if b, ok := r["doi"].(bool); ok {
		q.DOI = &b
	}
	q.ProposalNumber = intPtr(r["proposal_number"])
	q.Acknowledgments = strPtr(r["acknowledgments"])
	return q
}

// DataPath is the path template for a station and technique pair.
type DataPath struct {
	ID           int64  `yaml:"id" json:"id"`
	PathTemplate string `yaml:"path_template" json:"path_template"`
	StationID    int64  `yaml:"station_id" json:"station_id"`
	TechniqueID  int64  `yaml:"technique_id" json:"technique_id"`
}

func (DataPath) Kind() Kind { return KindDataPath }

func (d DataPath) Mapping() Record {
	return Record{
		"id":            d.ID,
		"path_template": d.PathTemplate,
		"station_id":    d.StationID,
		"technique_id":  d.TechniqueID,
	}
}

// ptr dereferences p, or returns untyped nil so the driver writes NULL.
func ptr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(v any) *int64 {
	if n, ok := v.(int64); ok {
		return &n
	}
	return nil
}

func strPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}
