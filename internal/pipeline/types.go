package pipeline

// Stage identifiers, in canonical execution order
const (
	StageIDLoad        = "load"
	StageIDNormalize   = "normalize"
	StageIDCoerce      = "coerce"
	StageIDCoordinates = "coordinates"
	StageIDCondense    = "condense"
	StageIDMerge       = "merge"
	StageIDImpute      = "impute"
	StageIDDerive      = "derive"
	StageIDAnalyze     = "analyze"
	StageIDDistricts   = "districts"
	StageIDExport      = "export"
)

// Stage display names
const (
	StageNameLoad        = "Source Loading"
	StageNameNormalize   = "Key Normalization"
	StageNameCoerce      = "Score Coercion"
	StageNameCoordinates = "Coordinate Extraction"
	StageNameCondense    = "Row Condensing"
	StageNameMerge       = "Table Merging"
	StageNameImpute      = "Missing Value Imputation"
	StageNameDerive      = "Derived Columns"
	StageNameAnalyze     = "Correlation Analysis"
	StageNameDistricts   = "District Aggregation"
	StageNameExport      = "Report Export"
)
