package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrain_Career(t *testing.T) {
	b := careerBundle()

	assert.Equal(t, "career", b.Pathway)
	assert.Equal(t, []string{"primary_skills", "industry", "salary", "work_environment"}, b.FeatureOrder)
	assert.Equal(t, b.LabelEncoder.Len(), b.Classifier.NumClasses())
	assert.True(t, b.LabelEncoder.Contains("Backend Developer"))
	assert.Equal(t, "job_title", b.Catalog.LabelColumn())
	require.NoError(t, b.Validate())

	enc, ok := b.Encoder("work_environment")
	require.True(t, ok)
	assert.Equal(t, []string{"field", "hybrid", "office", "remote"}, enc.Classes())
}

func TestTrain_MissingFeatureColumn(t *testing.T) {
	csv := "budget,course_name\nfree,Welding NC II\n,Cookery NC II\n"
	c, err := ReadCSV(strings.NewReader(csv), "course_name")
	require.NoError(t, err)

	b, err := Train(c, DefaultTrainSpecs["tesda"])
	require.NoError(t, err)

	enc, ok := b.Encoder("location")
	require.True(t, ok)
	assert.Equal(t, []string{MissingValue}, enc.Classes())

	enc, _ = b.Encoder("budget")
	assert.Equal(t, []string{MissingValue, "free"}, enc.Classes())
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(nil, DefaultTrainSpecs["career"])
	assert.Error(t, err)

	_, err = Train(careerCatalog(), TrainSpec{Pathway: "career", LabelColumn: "job_title"})
	assert.Error(t, err)

	_, err = Train(careerCatalog(), TrainSpec{
		Pathway:        "career",
		FeatureColumns: []string{"industry"},
		LabelColumn:    "program_name",
	})
	assert.Error(t, err)
}

func TestTrain_RelabelsCatalog(t *testing.T) {
	// 训练时指定的标签列与目录当前标签列不同
	c, err := NewCatalog([]string{"job_title", "industry", "growth"}, [][]string{
		{"Nurse", "health", "High"},
		{"Chef", "hospitality", "Low"},
	}, "growth")
	require.NoError(t, err)

	b, err := Train(c, TrainSpec{Pathway: "career", FeatureColumns: []string{"industry"}, LabelColumn: "job_title"})
	require.NoError(t, err)
	assert.Equal(t, "job_title", b.Catalog.LabelColumn())
	assert.Equal(t, []string{"Chef", "Nurse"}, b.LabelEncoder.Classes())
}
