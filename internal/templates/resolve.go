package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/homemedreview/hmr-platform/internal/report"
)

// ValueTable is the flattened projection of a report: dotted key to string
// value, plus legacy unqualified aliases for older templates.
type ValueTable map[string]string

// Resolver turns report data into a ValueTable. Pure function of its inputs;
// Now is injectable so tests can pin the generated date.
type Resolver struct {
	// PharmacistEmail is the operator contact injected as
	// report.pharmacist_email.
	PharmacistEmail string
	// Now supplies the report.generated_date clock; defaults to time.Now.
	Now func() time.Time
}

// legacyAliases maps unqualified keys used by templates authored before the
// dotted-key convention onto their canonical counterparts. Applied as a
// post-processing step so the canonical flattening stays the single source
// of truth.
var legacyAliases = map[string]string{
	"patient_name":     "patient.name",
	"date_of_birth":    "patient.dob",
	"address":          "patient.address",
	"phone":            "patient.phone",
	"email":            "patient.email",
	"referring_doctor": "patient.referring_doctor",
	"interview_date":   "interview.interview_date",
	"pharmacist_name":  "interview.pharmacist_name",
	"medications_list": "medications.list",
	"recommendations":  "recommendations.summary",
	"next_review_date": "interview.next_review_date",
}

// Resolve flattens the report into a value table. Every key is always
// present; missing source fields resolve to empty strings, never errors.
func (r Resolver) Resolve(data report.ReportData) ValueTable {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	values := ValueTable{
		"patient.name":             data.Patient.Name,
		"patient.dob":              data.Patient.DOB,
		"patient.address":          data.Patient.Address,
		"patient.phone":            data.Patient.Phone,
		"patient.email":            data.Patient.Email,
		"patient.medicare_number":  data.Patient.MedicareNumber,
		"patient.referring_doctor": data.Patient.ReferringDoctor,
		"patient.doctor_email":     data.Patient.DoctorEmail,

		"interview.interview_date":     data.Interview.InterviewDate,
		"interview.pharmacist_name":    data.Interview.PharmacistName,
		"interview.living_situation":   data.Interview.LivingSituation,
		"interview.medication_storage": data.Interview.MedicationStorage,
		"interview.adherence_notes":    data.Interview.AdherenceNotes,
		"interview.next_review_date":   data.Interview.NextReviewDate,

		"medications.count":              strconv.Itoa(len(data.Medications)),
		"medications.list":               medicationList(data.Medications),
		"medications.compliance_summary": complianceSummary(data.Medications),

		"recommendations.count":         strconv.Itoa(len(data.Recommendations)),
		"recommendations.high_priority": strconv.Itoa(highPriorityCount(data.Recommendations)),
		"recommendations.summary":       recommendationSummary(data.Recommendations),

		"report.generated_date":   now().Format("2 January 2006"),
		"report.pharmacist_email": r.PharmacistEmail,
	}

	for alias, canonical := range legacyAliases {
		values[alias] = values[canonical]
	}
	return values
}

// medicationList renders one line per medication: name, optional strength,
// optional dosage prefixed with " - ", optional frequency.
func medicationList(meds []report.MedicationRecord) string {
	lines := make([]string, 0, len(meds))
	for _, m := range meds {
		var sb strings.Builder
		sb.WriteString(m.Name)
		if m.Strength != "" {
			sb.WriteString(" ")
			sb.WriteString(m.Strength)
		}
		if m.Dosage != "" {
			sb.WriteString(" - ")
			sb.WriteString(m.Dosage)
		}
		if m.Frequency != "" {
			sb.WriteString(" ")
			sb.WriteString(m.Frequency)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func complianceSummary(meds []report.MedicationRecord) string {
	good, poor := 0, 0
	for _, m := range meds {
		switch m.Compliance {
		case "Good":
			good++
		case "Poor":
			poor++
		}
	}
	return fmt.Sprintf("%d taken as prescribed, %d with compliance concerns", good, poor)
}

func highPriorityCount(recs []report.Recommendation) int {
	n := 0
	for _, rec := range recs {
		if rec.PriorityLevel == "High" {
			n++
		}
	}
	return n
}

// recommendationSummary renders a numbered list, one blank line between
// entries: "{n}. {issue}\nAction: {action}".
func recommendationSummary(recs []report.Recommendation) string {
	blocks := make([]string, 0, len(recs))
	for i, rec := range recs {
		blocks = append(blocks, fmt.Sprintf("%d. %s\nAction: %s", i+1, rec.Issue, rec.Action))
	}
	return strings.Join(blocks, "\n\n")
}
