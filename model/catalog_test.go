package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_MovesLabelLast(t *testing.T) {
	csv := "course_name,budget,experience\nWelding NC II,free,beginner\nCookery NC II,paid,basic\n"
	c, err := ReadCSV(strings.NewReader(csv), "course_name")
	require.NoError(t, err)

	assert.Equal(t, []string{"budget", "experience", "course_name"}, c.Columns)
	assert.Equal(t, "course_name", c.LabelColumn())
	assert.Equal(t, []string{"free", "beginner", "Welding NC II"}, c.Rows[0])
}

func TestReadCSV_MissingLabel(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n"), "course_name")
	assert.Error(t, err)
}

func TestCatalog_FirstByLabel(t *testing.T) {
	c := careerCatalog()

	rec := c.FirstByLabel("Backend Developer")
	assert.Equal(t, "problem-solving", rec["primary_skills"], "first matching row wins")
	assert.Equal(t, "High", rec["growth"])
	assert.Equal(t, "Backend Developer", rec["job_title"])

	assert.Empty(t, c.FirstByLabel("Astronaut"))
}

func TestNewCatalog_RaggedRow(t *testing.T) {
	_, err := NewCatalog([]string{"a", "b"}, [][]string{{"1"}}, "")
	assert.Error(t, err)
}
