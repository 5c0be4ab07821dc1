package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var courtesyTitleRe = regexp.MustCompile(`(?i)^(?:mr|mrs|ms|miss|dr|prof)\.?\s+`)

// stripTitle removes a leading courtesy title and any trailing parenthetical
// (referral "RE:" lines often carry the DOB in parentheses).
func stripTitle(m []string) string {
	v := group1(m)
	if i := strings.Index(v, "("); i >= 0 {
		v = v[:i]
	}
	return courtesyTitleRe.ReplaceAllString(strings.TrimSpace(v), "")
}

var namePatterns = []fieldPattern{
	{regexp.MustCompile(`(?im)^\s*RE:\s*([^\n]+)`), stripTitle},
	{regexp.MustCompile(`(?im)\bPatient(?:\s+Name)?\s*:\s*([^\n]+)`), stripTitle},
	{regexp.MustCompile(`(?im)^\s*Name\s*:\s*([^\n]+)`), stripTitle},
}

var dobPatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)\bDOB\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), group1},
	{regexp.MustCompile(`(?i)\bDate of Birth\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), group1},
	{regexp.MustCompile(`(?i)\bBorn\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), group1},
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var dmyDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)

// NormalizeDate converts a day/month/year date string to ISO YYYY-MM-DD.
// Two-digit years are read as 20xx. Already-ISO input is returned unchanged,
// making the function idempotent. Unrecognised input is returned as-is.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if isoDateRe.MatchString(s) {
		return s
	}
	m := dmyDateRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

var (
	femaleTitleRe = regexp.MustCompile(`(?i)\b(?:Mrs|Ms|Miss)\.?\s`)
	maleTitleRe   = regexp.MustCompile(`(?i)\bMr\.?\s`)
	malePronounRe = regexp.MustCompile(`(?i)\b(?:he|him|his)\b`)
	femPronounRe  = regexp.MustCompile(`(?i)\b(?:she|her|hers)\b`)
)

// detectGender applies title evidence first, then falls back to a pronoun
// majority count. Ties and absence of evidence yield Unknown.
func detectGender(text string) Gender {
	if femaleTitleRe.MatchString(text) {
		return GenderFemale
	}
	if maleTitleRe.MatchString(text) {
		return GenderMale
	}

	male := len(malePronounRe.FindAllString(text, -1))
	female := len(femPronounRe.FindAllString(text, -1))
	switch {
	case male > female:
		return GenderMale
	case female > male:
		return GenderFemale
	default:
		return GenderUnknown
	}
}

var medicarePatterns = []fieldPattern{
	{regexp.MustCompile(`(?i)\bMedicare\s*(?:No|Number|#)?\s*[:.]?\s*(\d[\d ]{5,11}[A-Za-z]{0,2})\b`), group1},
	{regexp.MustCompile(`(?i)\bMedicare\b[^\n]*?(\d{7,10}[A-Za-z]{0,2})\b`), group1},
}

var addressPatterns = []fieldPattern{
	{regexp.MustCompile(`(?im)^\s*Address\s*:\s*([^\n]+)`), group1},
	{regexp.MustCompile(`(?im)^\s*(\d+[A-Za-z]?[/ ]?\d*\s+[A-Za-z][A-Za-z' ]+\s(?:Street|St|Road|Rd|Avenue|Ave|Drive|Dr|Court|Ct|Place|Pl|Crescent|Cres|Close|Cl|Lane|Ln|Parade|Pde|Way)\b[^\n]*)`), group1},
}

var phonePatterns = []fieldPattern{
	{regexp.MustCompile(`(?im)^\s*(?:Phone|Ph|Tel|Telephone|Mobile|Mob)\s*[:.]?\s*([\d()+][\d()+\- ]{6,})`), group1},
	{regexp.MustCompile(`(\(0\d\)\s?\d{4}\s?\d{4})`), group1},
	{regexp.MustCompile(`(\b04\d{2}\s?\d{3}\s?\d{3}\b)`), group1},
}

var doctorPatterns = []fieldPattern{
	{regexp.MustCompile(`(?im)^\s*(?:Referring Doctor|Referrer|From)\s*:\s*((?:Dr\.?\s*)?[^\n]+)`), group1},
	{regexp.MustCompile(`(?is)\bYours\s+(?:sincerely|faithfully),?\s*\n+\s*((?:Dr\.?\s*)?[A-Z][^\n]*)`), group1},
	{regexp.MustCompile(`(?m)^\s*(Dr\.?\s+[A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)*)\s*$`), group1},
}

var emailPatterns = []fieldPattern{
	{regexp.MustCompile(`(?im)^\s*E-?mail\s*:\s*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`), group1},
	{regexp.MustCompile(`([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`), group1},
}

// ParseReferral runs the field-pattern cascades and section captures over an
// OCR text block. Absent fields are left empty; it never fails.
func ParseReferral(text string) PatientData {
	data := PatientData{
		Name:            firstMatch(text, namePatterns),
		MedicareNumber:  strings.ReplaceAll(firstMatch(text, medicarePatterns), " ", ""),
		Address:         firstMatch(text, addressPatterns),
		Phone:           firstMatch(text, phonePatterns),
		ReferringDoctor: firstMatch(text, doctorPatterns),
		DoctorEmail:     firstMatch(text, emailPatterns),
		Gender:          detectGender(text),

		CurrentConditions:  sectionBlock(text, []string{"current conditions", "current medical conditions", "medical conditions"}),
		PastMedicalHistory: sectionBlock(text, []string{"past medical history", "medical history"}),
		Allergies:          sectionBlock(text, []string{"allergies", "allergies and adverse drug reactions"}),
	}

	if dob := firstMatch(text, dobPatterns); dob != "" {
		data.DOB = NormalizeDate(dob)
	}

	data.Medications = extractMedications(text)
	return data
}
