package templates

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemedreview/hmr-platform/internal/report"
)

func fixedResolver() Resolver {
	return Resolver{
		PharmacistEmail: "reports@homemedreview.example",
		Now:             func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	}
}

func sampleReport() report.ReportData {
	return report.ReportData{
		Patient: report.Patient{
			Name:            "Margaret Dempster",
			DOB:             "1938-01-24",
			Address:         "7 Banksia Court, Greenvale VIC 3059",
			Phone:           "(03) 9333 7745",
			ReferringDoctor: "Dr Sarah Mitchell",
		},
		Medications: []report.MedicationRecord{
			{Name: "Inderal", Strength: "40mg", Dosage: "One tablet", Frequency: "in the morning", Compliance: "Good"},
			{Name: "Coumadin", Strength: "1mg", Compliance: "Poor"},
			{Name: "Panadol Osteo", Compliance: "Good"},
		},
		Interview: report.Interview{
			InterviewDate:  "2026-03-01",
			PharmacistName: "A. Chen",
			NextReviewDate: "2026-09-01",
		},
		Recommendations: []report.Recommendation{
			{Issue: "Possible interaction between warfarin and NSAID", Action: "Discuss alternative analgesia with GP", PriorityLevel: "High"},
			{Issue: "Expired salbutamol inhaler", Action: "Replace inhaler", PriorityLevel: "Low"},
		},
	}
}

func TestResolveCanonicalKeys(t *testing.T) {
	values := fixedResolver().Resolve(sampleReport())

	assert.Equal(t, "Margaret Dempster", values["patient.name"])
	assert.Equal(t, "1938-01-24", values["patient.dob"])
	assert.Equal(t, "3", values["medications.count"])
	assert.Equal(t, "2", values["recommendations.count"])
	assert.Equal(t, "1", values["recommendations.high_priority"])
	assert.Equal(t, "14 March 2026", values["report.generated_date"])
	assert.Equal(t, "reports@homemedreview.example", values["report.pharmacist_email"])
}

func TestResolveMedicationList(t *testing.T) {
	values := fixedResolver().Resolve(sampleReport())

	want := "Inderal 40mg - One tablet in the morning\n" +
		"Coumadin 1mg\n" +
		"Panadol Osteo"
	assert.Equal(t, want, values["medications.list"])
}

func TestResolveComplianceSummary(t *testing.T) {
	values := fixedResolver().Resolve(sampleReport())
	assert.Equal(t, "2 taken as prescribed, 1 with compliance concerns", values["medications.compliance_summary"])
}

func TestResolveRecommendationSummary(t *testing.T) {
	values := fixedResolver().Resolve(sampleReport())

	want := "1. Possible interaction between warfarin and NSAID\n" +
		"Action: Discuss alternative analgesia with GP\n" +
		"\n" +
		"2. Expired salbutamol inhaler\n" +
		"Action: Replace inhaler"
	assert.Equal(t, want, values["recommendations.summary"])
}

func TestResolveLegacyAliases(t *testing.T) {
	values := fixedResolver().Resolve(sampleReport())

	for alias, canonical := range legacyAliases {
		assert.Equal(t, values[canonical], values[alias], "alias %q should mirror %q", alias, canonical)
	}
	assert.Equal(t, "Margaret Dempster", values["patient_name"])
	assert.Equal(t, "1938-01-24", values["date_of_birth"])
	assert.Equal(t, values["medications.list"], values["medications_list"])
}

func TestResolveEmptyReport(t *testing.T) {
	values := fixedResolver().Resolve(report.ReportData{})

	assert.Equal(t, "0", values["medications.count"])
	assert.Equal(t, "", values["medications.list"])
	assert.Equal(t, "0 taken as prescribed, 0 with compliance concerns", values["medications.compliance_summary"])
	assert.Equal(t, "0", values["recommendations.count"])
	assert.Equal(t, "", values["recommendations.summary"])
	assert.Equal(t, "", values["patient.name"])
}

func TestResolveMedicationCountMatchesLength(t *testing.T) {
	for _, n := range []int{0, 1, 5, 12} {
		data := report.ReportData{}
		for i := 0; i < n; i++ {
			data.Medications = append(data.Medications, report.MedicationRecord{Name: "Med"})
		}
		values := fixedResolver().Resolve(data)
		require.Equal(t, strconv.Itoa(n), values["medications.count"], "n=%d", n)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := fixedResolver()
	first := r.Resolve(sampleReport())
	second := r.Resolve(sampleReport())
	assert.Equal(t, first, second)
}
