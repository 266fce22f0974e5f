package patterns

// SchemeHeader is the header block of a scheme of examinations page.
type SchemeHeader struct {
	ProgrammeCode string
	Programme     string
	SchemeID      string
	SemesterLabel string
	InstituteCode string
	InstituteName string
}

// Fragments shared by both scheme header formats.
const (
	schemeTitle     = `\(?SCHEME\s+OF\s+EXAMINATIONS\)?[ \t]*\n`
	schemeIDField   = `SchemeID:\s*(?P<schemeID>\d+)\s{2,}`
	schemeSemField  = `Sem\./(?:Annual|Year)(?:/EU)?:\s*(?P<sem>.*?)[ \t]*\n`
	schemeInstField = `Institution\s+Code:\s*'?(?P<instCode>\d+)'?\s{2,}` +
		`Institution:\s*(?P<instName>.*?)[ \t]*(?:\n|$)`
)

// Samples:
//
//	SCHEME OF EXAMINATIONS\nPrg. Code: 027      Programme: BACHELOR OF ...      SchemeID: 190272021001      Sem./Annual: THIRD SEMESTER\nInstitution Code: 115      Institution: ...\n
//	(SCHEME OF EXAMINATIONS)\nScheme of Programme Code: 027     Programme Name: BACHELOR OF ...      SchemeID: 190272016001     Sem./Year: 06 SEMESTER\nInstitution Code: 115     Institution: ...\n
var (
	schemeCurrent = compile(
		schemeTitle,
		`(?:Scheme\s+of\s+)?Prg\.?\s*Code:\s*(?P<prgCode>\d+)\s{2,}`,
		`Programme(?:\s+Name)?:\s*(?P<programme>.*?)\s{2,}`,
		schemeIDField,
		schemeSemField,
		schemeInstField,
	)
	schemeLegacy = compile(
		schemeTitle,
		`(?:Scheme\s+of\s+)?Programme\s+Code:\s*(?P<prgCode>\d+)\s{2,}`,
		`Programme(?:\s+Name)?:\s*(?P<programme>.*?)\s{2,}`,
		schemeIDField,
		schemeSemField,
		schemeInstField,
	)
)

func buildSchemeHeader(g Groups) (SchemeHeader, bool) {
	h := SchemeHeader{
		ProgrammeCode: g.Get("prgCode"),
		Programme:     g.Get("programme"),
		SchemeID:      g.Get("schemeID"),
		SemesterLabel: g.Get("sem"),
		InstituteCode: g.Get("instCode"),
		InstituteName: g.Get("instName"),
	}
	return h, h.SchemeID != "" && h.Programme != ""
}

// SchemeHeaders lists the known scheme header formats, newest first.
var SchemeHeaders = Candidates[SchemeHeader]{
	{Name: "prg-code", Re: schemeCurrent, Build: buildSchemeHeader},
	{Name: "programme-code", Re: schemeLegacy, Build: buildSchemeHeader},
}
