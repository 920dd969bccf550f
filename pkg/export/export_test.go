package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Columns: []Column{{Key: "data", Label: "Data"}, {Key: "nome", Label: "Aluno"}, {Key: "modalidade"}},
		Rows: []map[string]string{
			{"data": "2024-06-03", "nome": "João", "modalidade": "Jiu-Jitsu"},
			{"data": "2024-06-04", "nome": "Ana", "modalidade": "Muay Thai"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Data,Aluno,modalidade\n2024-06-03,João,Jiu-Jitsu\n2024-06-04,Ana,Muay Thai\n", string(out))
}

func TestCSVExporterCustomDelimiter(t *testing.T) {
	out, err := (&CSVExporter{Comma: ';'}).Render(sampleDataset())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Data;Aluno;modalidade")
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "x", "")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	e := &PDFExporter{now: func() time.Time { return time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC) }}
	out, err := e.Render(sampleDataset(), "Relatório de presenças", "2024-06-01 a 2024-06-30")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := e.Render(Dataset{Columns: sampleDataset().Columns}, "Relatório", "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}
