package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// Record kinds on NDJSON lines.
const (
	KindScheme = "scheme"
	KindResult = "result"
)

// toStruct converts a record to a protobuf Struct, which only admits
// nested maps, lists, strings, numbers, booleans and nulls.
func toStruct(kind string, v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{"kind": kind, "record": m})
}

// WriteNDJSON writes one JSON object per line: schemes first, then results.
func (s *Service) WriteNDJSON(w io.Writer, schemes []*entity.SchemeRecord, results []entity.StudentResult) error {
	bw := bufio.NewWriter(w)
	opts := protojson.MarshalOptions{UseProtoNames: true}

	line := func(kind string, v any) error {
		st, err := toStruct(kind, v)
		if err != nil {
			return fmt.Errorf("convert %s record: %w", kind, err)
		}
		b, err := opts.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", kind, err)
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	}

	for _, sc := range schemes {
		if err := line(KindScheme, sc); err != nil {
			return err
		}
	}
	for i := range results {
		if err := line(KindResult, &results[i]); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ndjson: %w", err)
	}
	s.logger.Debug("export.ndjson.ok", "schemes", len(schemes), "students", len(results))
	return nil
}
