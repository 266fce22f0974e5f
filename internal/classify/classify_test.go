package classify

import (
	"testing"

	"github.com/joseph-ayodele/results-parser/constants"
)

const resultHeader = "Programme Code: 027      Programme Name: B.TECH      Sem./Year/EU: THIRD SEMESTER      Batch: 2021      Examination: REGULAR DEC, 2022    Result Declared Date :08-FEB-24\n"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.PageType
	}{
		{"scheme title", "(SCHEME OF EXAMINATIONS)\nPrg. Code: 027", constants.PageTypeScheme},
		{"scheme wins over result header", "SCHEME OF EXAMINATIONS\n" + resultHeader, constants.PageTypeScheme},
		{"result header", "RESULT TABULATION SHEET\n" + resultHeader, constants.PageTypeResult},
		{"cover page", "GURU GOBIND SINGH INDRAPRASTHA UNIVERSITY\nNOTICE", constants.PageTypeUnknown},
		{"blank", "", constants.PageTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}
