package extraction

import (
	"regexp"
	"strings"
)

// Signals used by the medication-line classifier. A line is accepted when any
// one of them fires; unknown drug names are fine as long as the line looks
// like a dosing instruction.
var (
	doseUnitRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|mcg|microg(?:rams?)?|g|iu|units?|m?L|g/mL|mg/mL)\b|\d+(?:\.\d+)?\s*%`)

	formWordRe = regexp.MustCompile(`(?i)\b(?:tablets?|capsules?|caplets?|creams?|ointments?|gels?|injections?|pessar(?:y|ies)|drops?|patch(?:es)?|inhalers?|sprays?|suppositor(?:y|ies)|syrups?|solutions?|lotions?|wafers?)\b`)

	frequencyKeywordRe = regexp.MustCompile(`(?i)\b(?:daily|twice|three times|four times|morning|night|evening|mane|nocte|bd|tds|qid|weekly|monthly|prn|as needed|as required|if needed|when required|with meals?|before (?:meals?|food|bed)|after (?:meals?|food)|every \d+ hours?)\b`)

	instructionVerbRe = regexp.MustCompile(`(?i)\b(?:apply|take|insert|use|inject|inhale|instill?|chew|dissolve)\b|\binj\b`)
)

// knownMedications is a small allowlist used as a confidence booster, not a
// requirement. Covers drugs common in elderly HMR referrals.
var knownMedications = []string{
	"inderal", "propranolol", "panadol", "paracetamol", "panadol osteo",
	"coumadin", "warfarin", "lasix", "frusemide", "furosemide",
	"ventolin", "salbutamol", "nexium", "esomeprazole", "somac", "pantoprazole",
	"lipitor", "atorvastatin", "crestor", "rosuvastatin",
	"metformin", "diabex", "aspirin", "cartia", "plavix", "clopidogrel",
	"ovestin", "estriol", "mobic", "meloxicam", "celebrex", "celecoxib",
	"prednisolone", "amoxicillin", "amoxil", "cephalexin", "keflex",
	"digoxin", "lanoxin", "perindopril", "coversyl", "amlodipine", "norvasc",
	"atenolol", "metoprolol", "betaloc", "temazepam", "normison",
	"oxazepam", "serepax", "sertraline", "zoloft", "mirtazapine", "avanza",
	"thyroxine", "oroxine", "allopurinol", "zyloprim", "fosamax", "alendronate",
}

func containsKnownMedication(line string) bool {
	lower := strings.ToLower(line)
	for _, name := range knownMedications {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// isMedicationLine is the heuristic disjunction accepting a line as a
// medication entry.
func isMedicationLine(line string) bool {
	return doseUnitRe.MatchString(line) ||
		formWordRe.MatchString(line) ||
		frequencyKeywordRe.MatchString(line) ||
		instructionVerbRe.MatchString(line) ||
		containsKnownMedication(line)
}

// Name parsing: concentration-style ("Ovestin 0.05% Cream") is tried before
// plain-dose ("Inderal 40mg Tablet"); first word is the last resort.
var (
	concentrationNameRe = regexp.MustCompile(`^([A-Za-z][A-Za-z'\- ]*?)\s+\d+(?:\.\d+)?\s*%`)
	plainDoseNameRe     = regexp.MustCompile(`^([A-Za-z][A-Za-z'\- ]*?)\s+\d`)
	firstWordRe         = regexp.MustCompile(`^([A-Za-z][A-Za-z'\-]*)`)

	dosageRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*(?:mg|mcg|microg(?:rams?)?|g|iu|units?|m?L|%)(?:/\s*m?L)?)\s*([A-Za-z]+)?`)
)

// frequencyPatterns are tried in order; the whole first match becomes the
// frequency string.
var frequencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:once|twice|three times|four times)\s+(?:a\s+day|daily|a\s+week|weekly)\b`),
	regexp.MustCompile(`(?i)\b(?:one|two|three|\d+)\s+(?:in|at)\s+the\s+(?:morning|evening|night)\b`),
	regexp.MustCompile(`(?i)\b(?:in|at)\s+the\s+(?:morning|evening|night)\b`),
	regexp.MustCompile(`(?i)\bevery\s+\d+\s+hours?\b`),
	regexp.MustCompile(`(?i)\b(?:mane|nocte|bd|tds|qid)\b`),
	regexp.MustCompile(`(?i)\b(?:daily|weekly|monthly)\b`),
	regexp.MustCompile(`(?i)\bwith\s+meals?\b`),
	regexp.MustCompile(`(?i)\bbefore\s+(?:meals?|food|bed)\b`),
	regexp.MustCompile(`(?i)\bas\s+(?:needed|required|directed)\b`),
}

var (
	prnKeywordRe     = regexp.MustCompile(`(?i)\bprn\b|\bas needed\b|\bif needed\b|\bas required\b|\bwhen required\b`)
	limitedKeywordRe = regexp.MustCompile(`(?i)\bfor\s+\d+\s+days?\b|\buntil\s+(?:resolution|resolved|review)\b|\blimited\b`)
)

func parseMedicationName(line string) string {
	for _, re := range []*regexp.Regexp{concentrationNameRe, plainDoseNameRe, firstWordRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return ""
}

// parseDosage returns the formatted strength+form substring, e.g. "40mg
// Tablet" or "0.05% Cream".
func parseDosage(line string) string {
	m := dosageRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	strength := strings.TrimSpace(m[1])
	if form := strings.TrimSpace(m[2]); form != "" && formWordRe.MatchString(form) {
		return strength + " " + form
	}
	return strength
}

func parseFrequency(line string) string {
	for _, re := range frequencyPatterns {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

func parsePRNStatus(line string) PRNStatus {
	switch {
	case prnKeywordRe.MatchString(line):
		return PRNAsNeeded
	case limitedKeywordRe.MatchString(line):
		return PRNLimited
	default:
		return PRNRegular
	}
}

// scoreConfidence derives the confidence monotonically from independent
// signals: base 0.5, +0.2 dose unit, +0.2 frequency keyword, +0.1 form word,
// +0.1 instruction verb, capped at 1.0.
func scoreConfidence(line string) float64 {
	score := 0.5
	if doseUnitRe.MatchString(line) {
		score += 0.2
	}
	if frequencyKeywordRe.MatchString(line) {
		score += 0.2
	}
	if formWordRe.MatchString(line) {
		score += 0.1
	}
	if instructionVerbRe.MatchString(line) {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// parseMedicationLine classifies and parses one line. The second return is
// false for lines that are not medication entries or whose name is too short
// to be a plausible drug name.
func parseMedicationLine(line string) (Medication, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !isMedicationLine(line) {
		return Medication{}, false
	}

	name := parseMedicationName(line)
	if len(strings.TrimSpace(name)) < 2 {
		return Medication{}, false
	}

	return Medication{
		Name:       name,
		Dosage:     parseDosage(line),
		Frequency:  parseFrequency(line),
		PRNStatus:  parsePRNStatus(line),
		Confidence: scoreConfidence(line),
	}, true
}

// medicationSectionHeaders isolate the medication list; when none is present
// the whole document is scanned instead.
var medicationSectionHeaders = []string{
	"current medications", "current medication", "medications", "medication list",
}

// extractMedications returns the ordered medication list found in the text.
// Order reflects document order and entries are not deduplicated.
func extractMedications(text string) []Medication {
	section := sectionBlock(text, medicationSectionHeaders)
	if section == "" {
		section = text
	}

	var meds []Medication
	for _, line := range strings.Split(section, "\n") {
		if med, ok := parseMedicationLine(line); ok {
			meds = append(meds, med)
		}
	}
	return meds
}
