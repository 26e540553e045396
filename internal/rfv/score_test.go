package rfv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segmetrics/rfv-cli/internal/model"
)

func TestActionMap_KnownScores(t *testing.T) {
	m := NewActionMap(nil)

	for _, score := range []string{"AAA", "AAB", "AAC", "ABA", "ABB", "ABC", "BAA", "BAD", "DDD"} {
		action := m.Lookup(score)
		assert.NotEmpty(t, action, "score %s", score)
		assert.NotEqual(t, DefaultAction, action, "score %s", score)
	}
}

func TestActionMap_DefaultFallback(t *testing.T) {
	m := NewActionMap(nil)

	assert.Equal(t, DefaultAction, m.Lookup("CCC"))
	assert.Equal(t, DefaultAction, m.Lookup("ZZZ"))
	assert.Equal(t, DefaultAction, m.Lookup(""))
}

func TestActionMap_TotalOverAlphabet(t *testing.T) {
	m := NewActionMap(nil)
	grades := []model.Grade{model.GradeA, model.GradeB, model.GradeC, model.GradeD}

	for _, r := range grades {
		for _, f := range grades {
			for _, v := range grades {
				assert.NotEmpty(t, m.Lookup(Compose(r, f, v)))
			}
		}
	}
}

func TestActionMap_Overrides(t *testing.T) {
	m := NewActionMap(map[string]string{
		"AAA": "replaced",
		"CCC": "added",
	})

	assert.Equal(t, "replaced", m.Lookup("AAA"))
	assert.Equal(t, "added", m.Lookup("CCC"))
	assert.Equal(t, DefaultAction, m.Lookup("CCD"))
}

func TestLoadActionOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("AAA: vip outreach\nCCC: nudge\n"), 0o644))

	overrides, err := LoadActionOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAA": "vip outreach", "CCC": "nudge"}, overrides)
}

func TestLoadActionOverrides_BadFile(t *testing.T) {
	_, err := LoadActionOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCountSegments(t *testing.T) {
	rows := []model.SegmentRow{
		{CustomerID: "A", Score: "AAA", Action: "x"},
		{CustomerID: "B", Score: "AAA", Action: "x"},
		{CustomerID: "C", Score: "DDD", Action: "y"},
		{CustomerID: "D", Score: "BBB", Action: "z"},
		{CustomerID: "E", Score: "AAA", Action: "x"},
	}

	counts := CountSegments(rows)
	require.Len(t, counts, 3)

	assert.Equal(t, model.SegmentCount{Score: "AAA", Action: "x", Count: 3}, counts[0])
	// Ties on count break by score.
	assert.Equal(t, "BBB", counts[1].Score)
	assert.Equal(t, "DDD", counts[2].Score)
}

func TestApplyActions(t *testing.T) {
	rows := []model.SegmentRow{
		{CustomerID: "A", Score: "AAA"},
		{CustomerID: "B", Score: "CCC"},
	}

	ApplyActions(rows, NewActionMap(nil))

	assert.NotEqual(t, DefaultAction, rows[0].Action)
	assert.Equal(t, DefaultAction, rows[1].Action)
}
