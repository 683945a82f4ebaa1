package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkillLabels(t *testing.T) {
	got := NormalizeSkillLabels([]string{"JS", "js ", "  Python", "", "   ", "python"})
	assert.Equal(t, []string{"js", "python"}, got)

	assert.Empty(t, NormalizeSkillLabels(nil))
	assert.Empty(t, NormalizeSkillLabels([]string{" "}))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"tutor", "lab"}, SplitCSV(" tutor, ,lab,"))
	assert.Nil(t, SplitCSV("   "))
	assert.Equal(t, []string{"full-time"}, LowerAll([]string{"Full-Time"}))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%sam%", ContainsPattern("sam"))
	assert.Equal(t, `%50\%\_off\\%`, ContainsPattern(`50%_off\`))
}

func TestParseSubmittedAt(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	got, err := ParseSubmittedAt("", now)
	require.NoError(t, err)
	assert.Equal(t, fixed, got)

	got, err = ParseSubmittedAt("2025-05-04T10:30:00+10:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 4, 0, 30, 0, 0, time.UTC), got)

	_, err = ParseSubmittedAt("yesterday", now)
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
