package entity

import "time"

// ResultHeader represents the header block printed above a result grid.
// DeclaredDate is nil when the page never carried a usable date.
type ResultHeader struct {
	ProgrammeCode string     `json:"prgCode"`
	Programme     string     `json:"programme"`
	Semester      int        `json:"sem"`
	Batch         int        `json:"batch"`
	Examination   string     `json:"exam"`
	DeclaredDate  *time.Time `json:"resultDate,omitempty"`
}

// SubjectMark represents one student's marks in one subject.
// Total is numeric or one of the ABS/CAN sentinels.
type SubjectMark struct {
	Internal   string `json:"internal"`
	External   string `json:"external"`
	Total      string `json:"total"`
	TotalGrade string `json:"totalGrade"`
}

// StudentIdentity is the four-line identity block of a result row group.
type StudentIdentity struct {
	Enrollment string `json:"enrollment"`
	Name       string `json:"name"`
	SID        string `json:"sid"`
	SchemeID   string `json:"schemeID"`
}

// StudentResult represents one student on one examination page.
// Institute comes from the result table body, not the page header.
type StudentResult struct {
	StudentIdentity
	Institute     Institute              `json:"institute"`
	Batch         int                    `json:"batch"`
	ProgrammeCode string                 `json:"prgCode"`
	Programme     string                 `json:"programme"`
	Subjects      map[string]SubjectMark `json:"subjects"`
	Header        ResultHeader           `json:"resultHeader"`
}
