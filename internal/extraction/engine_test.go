package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRecognizer returns canned text or an error and records Close calls.
type stubRecognizer struct {
	text   string
	err    error
	closed int
}

func (s *stubRecognizer) Recognize(ctx context.Context, doc []byte) (string, error) {
	return s.text, s.err
}

func (s *stubRecognizer) Close() error {
	s.closed++
	return nil
}

func TestExtractSampleReferral(t *testing.T) {
	stub := &stubRecognizer{text: SampleReferralText}
	engine := NewEngine(func() TextRecognizer { return stub })

	result, err := engine.Extract(context.Background(), []byte("document"))
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, SampleReferralText, result.RawText)

	data := result.Data
	assert.Contains(t, data.Name, "Dempster")
	assert.Equal(t, "1938-01-24", data.DOB)
	assert.Equal(t, GenderFemale, data.Gender)
	assert.Equal(t, "2286533TB", data.MedicareNumber)
	assert.Contains(t, data.CurrentConditions, "Hypertension")
	assert.Contains(t, data.PastMedicalHistory, "hip replacement")
	assert.Contains(t, data.Allergies, "Penicillin")

	require.NotEmpty(t, data.Medications)
	var inderal *Medication
	for i := range data.Medications {
		if data.Medications[i].Name == "Inderal" {
			inderal = &data.Medications[i]
		}
	}
	require.NotNil(t, inderal, "expected an Inderal entry, got %+v", data.Medications)
	assert.Contains(t, inderal.Dosage, "40mg")
	assert.Contains(t, strings.ToLower(inderal.Frequency), "morning")

	assert.Equal(t, 1, stub.closed, "recognizer must be released after extraction")
}

func TestExtractFallsBackOnRecognitionError(t *testing.T) {
	stub := &stubRecognizer{err: errors.New("ocr backend unavailable")}
	engine := NewEngine(func() TextRecognizer { return stub })

	result, err := engine.Extract(context.Background(), []byte("unreadable"))
	require.NoError(t, err, "extraction must not fail for unreadable input")
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Data.Name, "Dempster", "fallback sample should still parse")
	assert.Equal(t, 1, stub.closed, "recognizer must be released on the error path")
}

func TestExtractFallsBackOnEmptyText(t *testing.T) {
	stub := &stubRecognizer{text: "   \n  "}
	engine := NewEngine(func() TextRecognizer { return stub })

	result, err := engine.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
}

func TestExtractConfigurableFallback(t *testing.T) {
	stub := &stubRecognizer{err: errors.New("boom")}
	engine := NewEngine(
		func() TextRecognizer { return stub },
		WithFallbackText("Patient: Mr Test Person\nDOB: 01/02/1950\n"),
	)

	result, err := engine.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, "Test Person", result.Data.Name)
	assert.Equal(t, "1950-02-01", result.Data.DOB)
}

func TestExtractDisabledFallback(t *testing.T) {
	stub := &stubRecognizer{err: errors.New("boom")}
	engine := NewEngine(func() TextRecognizer { return stub }, WithFallbackText(""))

	result, err := engine.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Data.Name)
	assert.Empty(t, result.Data.Medications)
}

func TestMedicationConfidencesWithinBoundsForSample(t *testing.T) {
	data := ParseReferral(SampleReferralText)
	require.NotEmpty(t, data.Medications)
	for _, med := range data.Medications {
		assert.GreaterOrEqual(t, med.Confidence, 0.5, "medication %q", med.Name)
		assert.LessOrEqual(t, med.Confidence, 1.0, "medication %q", med.Name)
		assert.GreaterOrEqual(t, len(med.Name), 2)
	}
}
