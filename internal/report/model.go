// Package report defines the populated HMR report shape produced by the
// review workflow and consumed by the template filler.
package report

// ReportData is the populated report for a completed Home Medicines Review.
// The template filler treats it as read-only.
type ReportData struct {
	Patient         Patient            `json:"patient"`
	Medications     []MedicationRecord `json:"medications"`
	Interview       Interview          `json:"interview"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Patient holds the demographics section of a report.
type Patient struct {
	Name            string `json:"name"`
	DOB             string `json:"dob"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	MedicareNumber  string `json:"medicare_number"`
	ReferringDoctor string `json:"referring_doctor"`
	DoctorEmail     string `json:"doctor_email"`
}

// MedicationRecord is a single dosing/compliance record in a report.
type MedicationRecord struct {
	Name      string `json:"name"`
	Strength  string `json:"strength"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	// Compliance is the pharmacist's assessment, "Good" or "Poor".
	Compliance string `json:"compliance"`
}

// Interview holds the lifestyle and adherence answers captured during the
// home visit.
type Interview struct {
	InterviewDate     string `json:"interview_date"`
	PharmacistName    string `json:"pharmacist_name"`
	LivingSituation   string `json:"living_situation"`
	MedicationStorage string `json:"medication_storage"`
	AdherenceNotes    string `json:"adherence_notes"`
	NextReviewDate    string `json:"next_review_date"`
}

// Recommendation is a single issue/action pair raised by the review.
type Recommendation struct {
	Issue  string `json:"issue"`
	Action string `json:"action"`
	// PriorityLevel is "High", "Medium" or "Low".
	PriorityLevel string `json:"priority_level"`
}
