package extract

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

//go:embed dump_schema.json
var dumpSchemaJSON []byte

var dumpSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("dump_schema.json", bytes.NewReader(dumpSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("dump_schema.json")
})

type dumpFile struct {
	Source string     `json:"source"`
	Pages  []dumpPage `json:"pages"`
}

type dumpPage struct {
	Num        int    `json:"number"`
	Text       string `json:"text"`
	Grid       Table  `json:"table"`
	TunedTable Table  `json:"tuned_table"`
}

func (p *dumpPage) Number() int { return p.Num }

func (p *dumpPage) PlainText(context.Context) (string, error) { return p.Text, nil }

// Table returns the tuned grid when settings are given and one was captured.
func (p *dumpPage) Table(_ context.Context, settings *TableSettings) (Table, error) {
	if settings != nil && p.TunedTable != nil {
		return p.TunedTable, nil
	}
	return p.Grid, nil
}

// DumpSource serves pages from a JSON page dump written by the extraction primitive.
type DumpSource struct {
	name  string
	pages map[int]*dumpPage
	count int
}

// LoadDump opens and validates the dump at path.
func LoadDump(path string) (*DumpSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()
	src, err := ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if src.name == "" {
		src.name = path
	}
	return src, nil
}

// ReadDump decodes a dump and validates it against the dump schema.
func ReadDump(r io.Reader) (*DumpSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	schema, err := dumpSchema()
	if err != nil {
		return nil, fmt.Errorf("compile dump schema: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode dump: %v", common.ErrInvalidInput, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: dump does not match schema: %v", common.ErrInvalidInput, err)
	}

	var df dumpFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("%w: decode dump: %v", common.ErrInvalidInput, err)
	}
	src := &DumpSource{name: df.Source, pages: make(map[int]*dumpPage, len(df.Pages))}
	for i := range df.Pages {
		p := &df.Pages[i]
		if _, dup := src.pages[p.Num]; dup {
			return nil, fmt.Errorf("%w: page %d listed twice", common.ErrInvalidInput, p.Num)
		}
		src.pages[p.Num] = p
		src.count = max(src.count, p.Num)
	}
	return src, nil
}

// Name is the document the dump was taken from.
func (s *DumpSource) Name() string { return s.name }

// PageCount is the highest page number in the dump.
func (s *DumpSource) PageCount(context.Context) (int, error) { return s.count, nil }

// Numbers lists the page numbers present, ascending.
func (s *DumpSource) Numbers() []int {
	out := make([]int, 0, len(s.pages))
	for n := range s.pages {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Page returns page n. Pages missing from the dump are extractor failures.
func (s *DumpSource) Page(_ context.Context, n int) (Page, error) {
	p, ok := s.pages[n]
	if !ok {
		return nil, fmt.Errorf("%w: page %d not in dump", common.ErrExtractorFailure, n)
	}
	return p, nil
}
