package dataset

// Format identifies the on-disk layout of a source file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// Encoding identifies the character encoding of a delimited source file.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf8"
	EncodingWindows1252 Encoding = "windows1252"
)

// Canonical table names used throughout the pipeline
const (
	TableSATResults   = "sat_results"
	TableAP2010       = "ap_2010"
	TableClassSize    = "class_size"
	TableDemographics = "demographics"
	TableGraduation   = "graduation"
	TableHSDirectory  = "hs_directory"
	TableSurveyAll    = "survey_all"
	TableSurveyD75    = "survey_d75"

	// TableSurvey is the concatenation of the two survey sources
	TableSurvey = "survey"
)

// Source describes one input table: where it lives, how it is encoded, and
// which columns survive the load.
type Source struct {
	Name     string   `validate:"required"`
	File     string   `validate:"required"`
	Format   Format   `validate:"oneof=csv tsv xlsx"`
	Encoding Encoding `validate:"oneof=utf8 windows1252"`

	// Columns, when non-empty, projects the table to exactly these columns
	// immediately after load. A named column absent from the file is fatal.
	Columns []string
}

// DefaultSources returns the eight canonical inputs of the analysis. The
// two survey files are tab-delimited windows-1252 exports and are projected
// to the given field list; everything else is a plain CSV.
func DefaultSources(surveyFields []string) []Source {
	return []Source{
		{Name: TableSATResults, File: "sat_results.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableAP2010, File: "ap_2010.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableClassSize, File: "class_size.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableDemographics, File: "demographics.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableGraduation, File: "graduation.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableHSDirectory, File: "hs_directory.csv", Format: FormatCSV, Encoding: EncodingUTF8},
		{Name: TableSurveyAll, File: "survey_all.txt", Format: FormatTSV, Encoding: EncodingWindows1252, Columns: surveyFields},
		{Name: TableSurveyD75, File: "survey_d75.txt", Format: FormatTSV, Encoding: EncodingWindows1252, Columns: surveyFields},
	}
}
