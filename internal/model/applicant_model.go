package model

// Supported standardized test types.
const (
	TestTypeGRE   = "GRE"
	TestTypeGMAT  = "GMAT"
	TestTypeTOEFL = "TOEFL"
	TestTypeIELTS = "IELTS"
)

type TestScore struct {
	Type         string  `json:"type"`
	Total        float64 `json:"total,omitempty"`
	Verbal       float64 `json:"verbal,omitempty"`
	Quantitative float64 `json:"quantitative,omitempty"`
	Writing      float64 `json:"writing,omitempty"`
}

// ApplicantProfile is the caller-owned applicant record. It is immutable once
// submitted for an evaluation; the engine never writes back to it.
type ApplicantProfile struct {
	GPA                  float64     `json:"gpa"`
	GPAScale             float64     `json:"gpa_scale"`
	TestScores           []TestScore `json:"test_scores,omitempty"`
	Publications         int         `json:"publications"`
	ConferencePapers     int         `json:"conference_papers"`
	Patents              int         `json:"patents"`
	WorkMonths           int         `json:"work_experience_months"`
	RelevantWorkMonths   int         `json:"relevant_experience_months"`
	Internships          int         `json:"internships"`
	LeadershipPositions  int         `json:"leadership_positions"`
	AcademicAwards       int         `json:"academic_awards"`
	Certifications       int         `json:"certifications"`
	VolunteerHours       int         `json:"volunteer_hours"`
	UndergradRanking     *int        `json:"undergrad_ranking,omitempty"`
	UndergradInstitution string      `json:"undergrad_institution,omitempty"`
}

// Test returns the first score of the given type, if any.
func (p *ApplicantProfile) Test(testType string) (TestScore, bool) {
	for _, ts := range p.TestScores {
		if ts.Type == testType {
			return ts, true
		}
	}
	return TestScore{}, false
}

// ProgramDescriptor is immutable reference data about a target program.
type ProgramDescriptor struct {
	University       string   `json:"university"`
	Name             string   `json:"name"`
	Ranking          *int     `json:"ranking,omitempty"`
	AcceptanceRate   *float64 `json:"acceptance_rate,omitempty"`
	AverageGPA       *float64 `json:"average_gpa,omitempty"`
	AverageGREQuant  *float64 `json:"average_gre_quant,omitempty"`
	AverageGREVerbal *float64 `json:"average_gre_verbal,omitempty"`
	STEM             bool     `json:"stem"`
}
