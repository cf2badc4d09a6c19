package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/scatter"
)

func TestReadFileCSV(t *testing.T) {
	records, err := ReadFile(filepath.Join("testdata", "frameworks.csv"))
	require.NoError(t, err)
	require.Len(t, records, 4)

	lc := records[0]
	assert.Equal(t, "LangChain", lc.Name)
	assert.Equal(t, CategoryAgentFramework, lc.Category)
	require.NotNil(t, lc.CodeLevel)
	assert.Equal(t, 0.8, *lc.CodeLevel)
	assert.Equal(t, "Python and JS libraries, code-first", lc.CodeLevelJustification)
	assert.Equal(t, "https://www.langchain.com", lc.URL)
	assert.Empty(t, lc.LogoURL)
	assert.Nil(t, lc.LearningCurve)

	assert.Equal(t, "Zapier", records[3].Name, "blank lines are skipped")
	assert.Equal(t, 0.0, *records[3].CodeLevel)
	assert.NoError(t, Validate(records))
}

func TestReadFileJSONAndYAML(t *testing.T) {
	records, err := ReadFile(filepath.Join("testdata", "frameworks.json"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[1].Complexity, "null is missing")
	assert.Equal(t, "Python API", records[0].Justification(scatter.CodeLevel))

	records, err = ReadFile(filepath.Join("testdata", "frameworks.yaml"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].LearningCurve)
	assert.Equal(t, 0.5, *records[0].LearningCurve)
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join("testdata", "missing.csv"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	_, err = ReadFile(filepath.Join("testdata", "frameworks.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty input", "", 0, false},
		{"header only", "name,code_level\n", 0, false},
		{"case-insensitive header", "Name,Code_Level\nA,0.5\n", 1, false},
		{"BOM header", "\ufeffname\nA\n", 1, false},
		{"short row", "name,category,code_level\nA\n", 1, false},
		{"unknown columns ignored", "name,stars\nA,1000\n", 1, false},
		{"no name column", "title,code_level\nA,0.5\n", 0, true},
		{"bad number", "name,complexity\nA,high\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidDataset))
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestReadCSVMissingValues(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("name,code_level,complexity\nA,,NaN\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].CodeLevel)
	assert.Nil(t, records[0].Complexity)

	e := records[0].Entity()
	_, ok := e.Value(scatter.CodeLevel)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr string
	}{
		{"valid", Record{Name: "A", CodeLevel: Float(0.5), URL: "https://a.dev"}, ""},
		{"missing values are fine", Record{Name: "A"}, ""},
		{"empty name", Record{Name: ""}, "name"},
		{"above range", Record{Name: "A", Complexity: Float(1.5)}, "complexity: must be between 0 and 1"},
		{"below range", Record{Name: "A", CodeLevel: Float(-0.1)}, "code_level"},
		{"relative url", Record{Name: "A", URL: "example.com"}, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]Record{tt.record})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidDataset))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUniqueNames(t *testing.T) {
	in := []Record{{Name: "A"}, {Name: "B"}, {Name: "A"}, {Name: "A (2)"}, {Name: "A"}}
	out := UniqueNames(in)

	names := make([]string, len(out))
	for i, r := range out {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"A", "B", "A (3)", "A (2)", "A (4)"}, names)
	assert.Equal(t, "A", in[2].Name, "input is not modified")
	assert.Empty(t, Duplicates(out))
	assert.Equal(t, []string{"A"}, Duplicates(in))
}

func TestFilter(t *testing.T) {
	records := []Record{
		{Name: "LangChain", Category: CategoryAgentFramework, Description: "Composable LLM apps"},
		{Name: "n8n", Category: CategoryOrchestration, Description: "Workflow automation with AI agents"},
		{Name: "CrewAI", Category: CategoryAgentFramework, Description: "Multi-agent crews"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero", Filter{}, []string{"LangChain", "n8n", "CrewAI"}},
		{"all", Filter{Category: CategoryAll}, []string{"LangChain", "n8n", "CrewAI"}},
		{"category", Filter{Category: CategoryOrchestration}, []string{"n8n"}},
		{"query on name", Filter{Query: "CHAIN"}, []string{"LangChain"}},
		{"query on description", Filter{Query: "agent"}, []string{"n8n", "CrewAI"}},
		{"both", Filter{Category: CategoryAgentFramework, Query: "agent"}, []string{"CrewAI"}},
		{"unknown category", Filter{Category: "Tooling"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range tt.filter.Apply(records) {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategories(t *testing.T) {
	records := []Record{
		{Name: "a", Category: CategoryOrchestration},
		{Name: "b"},
		{Name: "c", Category: CategoryAgentFramework},
		{Name: "d", Category: CategoryOrchestration},
	}
	cats := Categories(records)
	assert.Equal(t, []string{CategoryOrchestration, CategoryAgentFramework}, cats)

	assert.Equal(t, CategoryOrchestration, NextCategory("", cats))
	assert.Equal(t, CategoryAgentFramework, NextCategory(CategoryOrchestration, cats))
	assert.Equal(t, CategoryAll, NextCategory(CategoryAgentFramework, cats))
	assert.Equal(t, CategoryAll, NextCategory("gone", cats))
}

func TestEntityAndFind(t *testing.T) {
	r := Record{Name: "A", CodeLevel: Float(0.3), LearningCurve: Float(0.9)}
	e := r.Entity()
	assert.Equal(t, "A", e.Name)
	assert.Equal(t, map[scatter.AxisKey]float64{scatter.CodeLevel: 0.3, scatter.LearningCurve: 0.9}, e.Attributes)

	got, ok := Find([]Record{{Name: "x"}, r}, "A")
	assert.True(t, ok)
	assert.Equal(t, r, got)
	_, ok = Find(nil, "A")
	assert.False(t, ok)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	in := []Record{{Name: "A", Category: "c", CodeLevel: Float(0.25), Description: "d"}}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, in))

	out, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
