package config

// Application constants for the NYC school-data analysis pipeline
const (
	// Application Info
	AppName    = "nycsat"
	AppVersion = "1.0.0"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"

	// Well-known report file names
	CombinedCSVName      = "combined.csv"
	CorrelationsCSVName  = "correlations.csv"
	CorrelationsJSONName = "correlations.json"
	DistrictsCSVName     = "districts.csv"

	// Canonical join key column shared by every source table
	KeyColumn = "DBN"

	// Derived column names
	SATScoreColumn       = "sat_score"
	SchoolDistrictColumn = "school_dist"
	APShareColumn        = "ap_per"
	LatitudeColumn       = "lat"
	LongitudeColumn      = "lon"
	PaddedDistrictColumn = "padded_csd"

	// Width of the zero-padded district component of a DBN
	DistrictCodeWidth = 2
)

// DefaultSurveyFields returns the survey columns carried into the combined
// table: the join key, response rates and counts, and the 2011 safety,
// communication, engagement and academic scores for parents, teachers,
// students and the total.
func DefaultSurveyFields() []string {
	return []string{
		"dbn",
		"rr_s", "rr_t", "rr_p",
		"N_s", "N_t", "N_p",
		"saf_p_11", "com_p_11", "eng_p_11", "aca_p_11",
		"saf_t_11", "com_t_11", "eng_t_11", "aca_t_11",
		"saf_s_11", "com_s_11", "eng_s_11", "aca_s_11",
		"saf_tot_11", "com_tot_11", "eng_tot_11", "aca_tot_11",
	}
}
