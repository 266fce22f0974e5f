package patterns

// ResultHeader is the header block printed above a result grid.
// DeclaredDate is nil when the page has no declared date field at all,
// and points at the raw (possibly empty or garbled) text otherwise.
type ResultHeader struct {
	ProgrammeCode string
	Programme     string
	SemesterLabel string
	Batch         string
	Examination   string
	DeclaredDate  *string
}

const resultLead = `Programme\s+Code:\s*(?P<prgCode>\d+)\s{2,}` +
	`Programme\s+Name:\s*(?P<programme>.*?)\s{2,}` +
	`Sem\./(?:Year|Annual)(?:/EU)?:\s*(?P<sem>.*?)\s{2,}` +
	`Batch:\s*(?P<batch>\d+)\s{2,}`

// Samples:
//
//	Programme Code: 027      Programme Name: BACHELOR OF ...      Sem./Year/EU: THIRD SEMESTER      Batch: 2021      Examination: REAPPEAR DEC, 2023    Result Declared Date :08-FEB-24\n
//	Programme Code: 027      ...      Examination: REGULAR DEC, 2022\nResult Declared Date :08-FEB-24\n
//	Result of Programme Code: 049     Programme Name: BACHELOR OF ...     Sem./Year: 06 SEMESTER     Batch: 2020     Examination: RECHECKING REGULAR July, 2023\n
var (
	resultDeclared = compile(
		resultLead,
		`Examination:\s*(?P<exam>.*?)(?:\s{2,}|[ \t]*\n[ \t]*)`,
		`Result\s+Declared\s+Date[ \t]*:[ \t]*(?P<resultDate>[^\n]*?)[ \t]*(?:\n|$)`,
	)
	resultUndeclared = compile(
		resultLead,
		`Examination:[ \t]*(?P<exam>.*?)(?:\s{2,}|[ \t]*(?:\n|$))`,
	)
)

func buildResultHeader(g Groups) (ResultHeader, bool) {
	h := ResultHeader{
		ProgrammeCode: g.Get("prgCode"),
		Programme:     g.Get("programme"),
		SemesterLabel: g.Get("sem"),
		Batch:         g.Get("batch"),
		Examination:   g.Get("exam"),
	}
	if raw, ok := g.Lookup("resultDate"); ok {
		h.DeclaredDate = &raw
	}
	return h, h.Programme != ""
}

// ResultHeaders lists the known result header formats; the declared-date
// format is tried first so its date is not lost to the shorter format.
var ResultHeaders = Candidates[ResultHeader]{
	{Name: "declared-date", Re: resultDeclared, Build: buildResultHeader},
	{Name: "no-date", Re: resultUndeclared, Build: buildResultHeader},
}
