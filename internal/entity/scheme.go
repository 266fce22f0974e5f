package entity

// Institute represents an institution for data transfer between layers.
type Institute struct {
	Code int    `json:"instCode"`
	Name string `json:"instName"`
}

// SubjectDefinition represents one row of a scheme subject table.
type SubjectDefinition struct {
	PaperID   string `json:"paperID"`
	PaperName string `json:"paperName"`
	Credits   string `json:"credits"`
	Type      string `json:"type"`
	Exam      string `json:"exam"`
	Mode      string `json:"mode"`
	Kind      string `json:"kind"`
	Minor     string `json:"minor"`
	Major     string `json:"major"`
	MaxMarks  string `json:"maxMarks"`
	PassMarks string `json:"passMarks"`
}

// SchemeRecord represents a scheme of examinations keyed by SchemeID.
// Subjects are keyed by paper code; paper IDs carry inconsistent leading zeros.
type SchemeRecord struct {
	ProgrammeCode string                       `json:"prgCode"`
	Programme     string                       `json:"programme"`
	SchemeID      string                       `json:"schemeID"`
	Semester      int                          `json:"sem"`
	Institutes    []Institute                  `json:"institutes"`
	Subjects      map[string]SubjectDefinition `json:"subjects"`
}

// HasInstitute reports whether the same code+name pair is already listed.
func (s *SchemeRecord) HasInstitute(inst Institute) bool {
	for _, existing := range s.Institutes {
		if existing == inst {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so merged records never share slices or maps.
func (s *SchemeRecord) Clone() *SchemeRecord {
	if s == nil {
		return nil
	}
	out := *s
	out.Institutes = append([]Institute(nil), s.Institutes...)
	out.Subjects = make(map[string]SubjectDefinition, len(s.Subjects))
	for code, subj := range s.Subjects {
		out.Subjects[code] = subj
	}
	return &out
}
