// Package extraction turns scanned GP referral documents into structured
// patient and medication records. Output is best-effort and always subject to
// human review before anything is persisted.
package extraction

// Gender is the detected patient gender.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// PRNStatus classifies how a medication is taken.
type PRNStatus string

const (
	PRNRegular  PRNStatus = "Regular"
	PRNAsNeeded PRNStatus = "PRN"
	PRNLimited  PRNStatus = "Limited Duration"
)

// Medication is one medication line recovered from a referral.
type Medication struct {
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage,omitempty"`
	Frequency string    `json:"frequency,omitempty"`
	PRNStatus PRNStatus `json:"prn_status"`
	// Confidence reflects how many corroborating textual signals were
	// found for the line. Accepted lines score between 0.5 and 1.0.
	Confidence float64 `json:"confidence"`
}

// PatientData is the structured best-effort output of an extraction.
// Absent fields are left empty, never errored.
type PatientData struct {
	Name               string       `json:"name,omitempty"`
	DOB                string       `json:"dob,omitempty"`
	Gender             Gender       `json:"gender"`
	MedicareNumber     string       `json:"medicare_number,omitempty"`
	Address            string       `json:"address,omitempty"`
	Phone              string       `json:"phone,omitempty"`
	ReferringDoctor    string       `json:"referring_doctor,omitempty"`
	DoctorEmail        string       `json:"doctor_email,omitempty"`
	CurrentConditions  string       `json:"current_conditions,omitempty"`
	PastMedicalHistory string       `json:"past_medical_history,omitempty"`
	Allergies          string       `json:"allergies,omitempty"`
	Medications        []Medication `json:"medications"`
}

// Result is the outcome of one extraction request.
type Result struct {
	Data    PatientData `json:"data"`
	RawText string      `json:"raw_text"`
	// Degraded is true when text recognition failed and the engine parsed
	// the configured fallback sample instead of the uploaded document.
	Degraded bool `json:"degraded"`
}
