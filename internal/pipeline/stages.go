package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"nycsat/internal/analysis"
	"nycsat/internal/config"
	"nycsat/internal/dataset"
	"nycsat/internal/exporter"
	"nycsat/internal/frame"
	"nycsat/internal/infrastructure"
)

// Column names fixed by the source file schemas. The trailing spaces in
// "GRADE " and "AP Test Takers " are part of the published headers.
const (
	colCSD             = "CSD"
	colSchoolCode      = "SCHOOL CODE"
	colGrade           = "GRADE "
	colProgramType     = "PROGRAM TYPE"
	colSchoolYear      = "schoolyear"
	colCohort          = "Cohort"
	colDemographic     = "Demographic"
	colLocation        = "Location 1"
	colLowerDBN        = "dbn"
	colTotalEnrollment = "total_enrollment"
	colAPTakers        = "AP Test Takers "
	colTotalExams      = "Total Exams Taken"
	colHighExams       = "Number of Exams with scores 3 4 or 5"
	colSATMath         = "SAT Math Avg. Score"
	colSATReading      = "SAT Critical Reading Avg. Score"
	colSATWriting      = "SAT Writing Avg. Score"
)

// mergeOrder is the fold order of the combined table: sat_results is the
// base, every other table joins onto it by DBN.
var mergeOrder = []string{
	dataset.TableAP2010,
	dataset.TableGraduation,
	dataset.TableClassSize,
	dataset.TableDemographics,
	dataset.TableSurvey,
	dataset.TableHSDirectory,
}

// requireTables reports the first named table missing from the state
func requireTables(stage string, state *State, names ...string) error {
	for _, name := range names {
		if _, ok := state.Table(name); !ok {
			return NewMissingInputError(stage, name)
		}
	}
	return nil
}

// LoadStage reads every source file and concatenates the two survey
// exports into the single survey table.
type LoadStage struct {
	BaseStep
	loader  *dataset.Loader
	dataDir string
	sources []dataset.Source
	logger  *slog.Logger
}

// NewLoadStage creates the load stage
func NewLoadStage(loader *dataset.Loader, dataDir string, sources []dataset.Source, logger *slog.Logger) *LoadStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStage{
		BaseStep: NewBaseStep(StageIDLoad, StageNameLoad),
		loader:   loader,
		dataDir:  dataDir,
		sources:  sources,
		logger:   logger.With(slog.String("stage", StageIDLoad)),
	}
}

// Validate checks the stage configuration
func (s *LoadStage) Validate(state *State) error {
	if s.dataDir == "" {
		return fmt.Errorf("data directory not configured")
	}
	if len(s.sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	return nil
}

// Execute loads the sources and stores them on the state
func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	tables, err := s.loader.Load(ctx, s.dataDir, s.sources)
	if err != nil {
		return err
	}

	all, okAll := tables[dataset.TableSurveyAll]
	d75, okD75 := tables[dataset.TableSurveyD75]
	if !okAll || !okD75 {
		return NewMissingInputError(s.ID(), dataset.TableSurvey)
	}
	if err := all.Append(d75); err != nil {
		return fmt.Errorf("concatenating survey tables: %w", err)
	}
	all.Name = dataset.TableSurvey
	delete(tables, dataset.TableSurveyAll)
	delete(tables, dataset.TableSurveyD75)
	tables[dataset.TableSurvey] = all

	for name, table := range tables {
		state.SetTable(name, table)
	}

	s.logger.InfoContext(ctx, "sources loaded",
		slog.Int("tables", len(tables)),
		slog.Int("survey_rows", all.NumRows()))
	return nil
}

// NormalizeStage gives every table the canonical DBN join key: the survey
// key is renamed, the directory key is copied, and class_size builds its
// key from the zero-padded district and the school code.
type NormalizeStage struct {
	BaseStep
	logger *slog.Logger
}

// NewNormalizeStage creates the normalize stage
func NewNormalizeStage(logger *slog.Logger) *NormalizeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &NormalizeStage{
		BaseStep: NewBaseStep(StageIDNormalize, StageNameNormalize),
		logger:   logger.With(slog.String("stage", StageIDNormalize)),
	}
}

// Validate checks that every table arrived
func (s *NormalizeStage) Validate(state *State) error {
	return requireTables(s.ID(), state,
		dataset.TableSATResults, dataset.TableAP2010, dataset.TableClassSize,
		dataset.TableDemographics, dataset.TableGraduation,
		dataset.TableHSDirectory, dataset.TableSurvey)
}

// Execute normalizes the join key on every table
func (s *NormalizeStage) Execute(ctx context.Context, state *State) error {
	survey, _ := state.Table(dataset.TableSurvey)
	if err := survey.RenameColumn(colLowerDBN, config.KeyColumn); err != nil {
		return fmt.Errorf("normalizing survey key: %w", err)
	}

	directory, _ := state.Table(dataset.TableHSDirectory)
	if err := copyColumn(directory, colLowerDBN, config.KeyColumn); err != nil {
		return fmt.Errorf("normalizing directory key: %w", err)
	}

	classSize, _ := state.Table(dataset.TableClassSize)
	if err := buildClassSizeKey(classSize); err != nil {
		return err
	}

	for _, name := range state.TableNames() {
		table, _ := state.Table(name)
		if !table.HasColumn(config.KeyColumn) {
			return fmt.Errorf("table %s has no %s column after normalization", name, config.KeyColumn)
		}
	}

	s.logger.InfoContext(ctx, "join keys normalized",
		slog.Int("tables", len(state.TableNames())))
	return nil
}

// copyColumn duplicates a column under a new name
func copyColumn(t *frame.Table, from, to string) error {
	src, ok := t.Column(from)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", from, t.Name)
	}
	values := make([]frame.Value, len(src.Values))
	copy(values, src.Values)
	return t.AddColumn(frame.NewColumn(to, src.Type, values))
}

// buildClassSizeKey derives padded_csd and DBN on the class_size table.
// A district code wider than two digits means the file is malformed and
// fails the run.
func buildClassSizeKey(t *frame.Table) error {
	csd, ok := t.Column(colCSD)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", colCSD, t.Name)
	}
	code, ok := t.Column(colSchoolCode)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", colSchoolCode, t.Name)
	}

	n := t.NumRows()
	padded := make([]frame.Value, n)
	key := make([]frame.Value, n)
	for i := 0; i < n; i++ {
		cv, sv := csd.Values[i], code.Values[i]
		if cv.IsMissing() || sv.IsMissing() {
			padded[i] = frame.MissingValue()
			key[i] = frame.MissingValue()
			continue
		}
		p, err := padDistrict(cv.String())
		if err != nil {
			return fmt.Errorf("class_size row %d: %w", i, err)
		}
		padded[i] = frame.StringValue(p)
		key[i] = frame.StringValue(p + sv.String())
	}

	if err := t.AddColumn(frame.NewColumn(config.PaddedDistrictColumn, frame.TypeString, padded)); err != nil {
		return err
	}
	return t.AddColumn(frame.NewColumn(config.KeyColumn, frame.TypeString, key))
}

// padDistrict left-pads a district code with zeros to the canonical width
func padDistrict(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > config.DistrictCodeWidth {
		return "", fmt.Errorf("district code %q wider than %d digits", raw, config.DistrictCodeWidth)
	}
	return strings.Repeat("0", config.DistrictCodeWidth-len(raw)) + raw, nil
}

// CoerceStage turns the score columns numeric and derives the strict-sum
// composite SAT score.
type CoerceStage struct {
	BaseStep
	logger *slog.Logger
}

// NewCoerceStage creates the coerce stage
func NewCoerceStage(logger *slog.Logger) *CoerceStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoerceStage{
		BaseStep: NewBaseStep(StageIDCoerce, StageNameCoerce),
		logger:   logger.With(slog.String("stage", StageIDCoerce)),
	}
}

// Validate checks the score tables arrived
func (s *CoerceStage) Validate(state *State) error {
	return requireTables(s.ID(), state, dataset.TableSATResults, dataset.TableAP2010)
}

// Execute coerces the score columns and builds sat_score
func (s *CoerceStage) Execute(ctx context.Context, state *State) error {
	sat, _ := state.Table(dataset.TableSATResults)
	for _, name := range []string{colSATReading, colSATMath, colSATWriting} {
		if err := sat.CoerceNumeric(name); err != nil {
			return err
		}
	}
	if err := addCompositeScore(sat); err != nil {
		return err
	}

	ap, _ := state.Table(dataset.TableAP2010)
	for _, name := range []string{colAPTakers, colTotalExams, colHighExams} {
		if err := ap.CoerceNumeric(name); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "score columns coerced",
		slog.Int("sat_rows", sat.NumRows()),
		slog.Int("ap_rows", ap.NumRows()))
	return nil
}

// addCompositeScore sums the three section scores into sat_score. A school
// missing any section has no composite; a partial sum would misrank it.
func addCompositeScore(t *frame.Table) error {
	sections := make([]*frame.Column, 0, 3)
	allInt := true
	for _, name := range []string{colSATReading, colSATMath, colSATWriting} {
		c, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("column %q not found in table %s", name, t.Name)
		}
		sections = append(sections, c)
		if c.Type != frame.TypeInt {
			allInt = false
		}
	}

	typ := frame.TypeFloat
	if allInt {
		typ = frame.TypeInt
	}

	values := make([]frame.Value, t.NumRows())
	for i := range values {
		sum := 0.0
		complete := true
		for _, c := range sections {
			f, ok := c.Values[i].Float64()
			if !ok {
				complete = false
				break
			}
			sum += f
		}
		if !complete {
			values[i] = frame.MissingValue()
			continue
		}
		if allInt {
			values[i] = frame.IntValue(int64(sum))
			continue
		}
		values[i] = frame.FloatValue(sum)
	}

	return t.AddColumn(frame.NewColumn(config.SATScoreColumn, typ, values))
}

// coordsPattern matches the "(lat, lon)" tail of a directory address
var coordsPattern = regexp.MustCompile(`\(.+, .+\)`)

// CoordinatesStage extracts lat and lon from the directory's free-text
// address field. Rows without a parseable pair get missing coordinates;
// extraction never fails the run.
type CoordinatesStage struct {
	BaseStep
	logger *slog.Logger
}

// NewCoordinatesStage creates the coordinates stage
func NewCoordinatesStage(logger *slog.Logger) *CoordinatesStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoordinatesStage{
		BaseStep: NewBaseStep(StageIDCoordinates, StageNameCoordinates),
		logger:   logger.With(slog.String("stage", StageIDCoordinates)),
	}
}

// Validate checks the directory table arrived
func (s *CoordinatesStage) Validate(state *State) error {
	return requireTables(s.ID(), state, dataset.TableHSDirectory)
}

// Execute adds lat and lon columns to the directory table
func (s *CoordinatesStage) Execute(ctx context.Context, state *State) error {
	directory, _ := state.Table(dataset.TableHSDirectory)
	loc, ok := directory.Column(colLocation)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", colLocation, directory.Name)
	}

	n := directory.NumRows()
	lat := make([]frame.Value, n)
	lon := make([]frame.Value, n)
	extracted := 0
	for i := 0; i < n; i++ {
		la, lo, ok := extractCoordinates(loc.Values[i])
		if !ok {
			lat[i] = frame.MissingValue()
			lon[i] = frame.MissingValue()
			continue
		}
		lat[i] = frame.FloatValue(la)
		lon[i] = frame.FloatValue(lo)
		extracted++
	}

	if err := directory.AddColumn(frame.NewColumn(config.LatitudeColumn, frame.TypeFloat, lat)); err != nil {
		return err
	}
	if err := directory.AddColumn(frame.NewColumn(config.LongitudeColumn, frame.TypeFloat, lon)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "coordinates extracted",
		slog.Int("rows", n),
		slog.Int("extracted", extracted))
	return nil
}

// extractCoordinates pulls the "(lat, lon)" pair out of an address value
func extractCoordinates(v frame.Value) (float64, float64, bool) {
	if v.IsMissing() {
		return 0, 0, false
	}
	match := coordsPattern.FindString(v.String())
	if match == "" {
		return 0, 0, false
	}

	parts := strings.SplitN(match, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	rawLat := strings.TrimSpace(strings.TrimPrefix(parts[0], "("))
	rawLon := strings.TrimSpace(strings.TrimSuffix(parts[1], ")"))

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// CondenseStage narrows the multi-row tables to one row per school: the
// class sizes collapse to per-school means, demographics keeps one school
// year, graduation keeps one cohort.
type CondenseStage struct {
	BaseStep
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewCondenseStage creates the condense stage
func NewCondenseStage(cfg config.PipelineConfig, logger *slog.Logger) *CondenseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CondenseStage{
		BaseStep: NewBaseStep(StageIDCondense, StageNameCondense),
		cfg:      cfg,
		logger:   logger.With(slog.String("stage", StageIDCondense)),
	}
}

// Validate checks the multi-row tables arrived
func (s *CondenseStage) Validate(state *State) error {
	return requireTables(s.ID(), state,
		dataset.TableClassSize, dataset.TableDemographics, dataset.TableGraduation)
}

// Execute filters and condenses the multi-row tables in place
func (s *CondenseStage) Execute(ctx context.Context, state *State) error {
	classSize, _ := state.Table(dataset.TableClassSize)
	filtered, err := filterRows(classSize, map[string]string{
		colGrade:       s.cfg.ClassSizeGrade,
		colProgramType: s.cfg.ClassSizeProgram,
	})
	if err != nil {
		return err
	}
	condensed, err := filtered.GroupMeanBy(config.KeyColumn)
	if err != nil {
		return fmt.Errorf("condensing class_size: %w", err)
	}
	state.SetTable(dataset.TableClassSize, condensed)

	demographics, _ := state.Table(dataset.TableDemographics)
	filtered, err = filterRows(demographics, map[string]string{
		colSchoolYear: s.cfg.DemographicsYear,
	})
	if err != nil {
		return err
	}
	state.SetTable(dataset.TableDemographics, filtered)

	graduation, _ := state.Table(dataset.TableGraduation)
	filtered, err = filterRows(graduation, map[string]string{
		colCohort:      s.cfg.GraduationCohort,
		colDemographic: s.cfg.GraduationDemographic,
	})
	if err != nil {
		return err
	}
	state.SetTable(dataset.TableGraduation, filtered)

	s.logger.InfoContext(ctx, "tables condensed",
		slog.Int("class_size_rows", condensed.NumRows()),
		slog.Int("graduation_rows", filtered.NumRows()))
	return nil
}

// filterRows keeps the rows matching every column/value pair exactly
func filterRows(t *frame.Table, want map[string]string) (*frame.Table, error) {
	cols := make(map[*frame.Column]string, len(want))
	for name, value := range want {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("filter column %q not found in table %s", name, t.Name)
		}
		cols[c] = value
	}

	return t.Filter(func(row int) bool {
		for c, value := range cols {
			v := c.Values[row]
			if v.IsMissing() || v.String() != value {
				return false
			}
		}
		return true
	}), nil
}

// MergeStage folds every table onto sat_results by DBN, keeping all
// sat_results rows throughout.
type MergeStage struct {
	BaseStep
	logger *slog.Logger
}

// NewMergeStage creates the merge stage
func NewMergeStage(logger *slog.Logger) *MergeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &MergeStage{
		BaseStep: NewBaseStep(StageIDMerge, StageNameMerge),
		logger:   logger.With(slog.String("stage", StageIDMerge)),
	}
}

// Validate checks every table arrived
func (s *MergeStage) Validate(state *State) error {
	tables := append([]string{dataset.TableSATResults}, mergeOrder...)
	return requireTables(s.ID(), state, tables...)
}

// Execute builds the combined table
func (s *MergeStage) Execute(ctx context.Context, state *State) error {
	combined, _ := state.Table(dataset.TableSATResults)

	for _, name := range mergeOrder {
		right, _ := state.Table(name)
		merged, err := frame.Join(combined, right, config.KeyColumn, frame.LeftJoin)
		if err != nil {
			return fmt.Errorf("merging %s: %w", name, err)
		}
		s.logger.DebugContext(ctx, "table merged",
			slog.String("table", name),
			slog.Int("rows", merged.NumRows()),
			slog.Int("columns", merged.NumCols()))
		combined = merged
	}

	combined.Name = "combined"
	state.Combined = combined

	s.logger.InfoContext(ctx, "combined table built",
		slog.Int("rows", combined.NumRows()),
		slog.Int("columns", combined.NumCols()))
	return nil
}

// ImputeStage fills missing numeric cells with the column mean so sparse
// columns still participate in the correlation pass.
type ImputeStage struct {
	BaseStep
	enabled bool
	logger  *slog.Logger
}

// NewImputeStage creates the impute stage
func NewImputeStage(enabled bool, logger *slog.Logger) *ImputeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImputeStage{
		BaseStep: NewBaseStep(StageIDImpute, StageNameImpute),
		enabled:  enabled,
		logger:   logger.With(slog.String("stage", StageIDImpute)),
	}
}

// Validate checks the combined table exists
func (s *ImputeStage) Validate(state *State) error {
	if state.Combined == nil {
		return fmt.Errorf("combined table not built")
	}
	return nil
}

// Execute fills the combined table's missing numeric cells
func (s *ImputeStage) Execute(ctx context.Context, state *State) error {
	if !s.enabled {
		if step := state.Step(s.ID()); step != nil {
			step.Skip("imputation disabled")
		}
		s.logger.InfoContext(ctx, "imputation disabled")
		return nil
	}

	state.Combined.ImputeMissingNumeric()
	s.logger.InfoContext(ctx, "missing values imputed",
		slog.Int("rows", state.Combined.NumRows()))
	return nil
}

// DeriveStage adds the analysis columns that exist only on the combined
// table: the two-digit school district and the AP participation share.
type DeriveStage struct {
	BaseStep
	logger *slog.Logger
}

// NewDeriveStage creates the derive stage
func NewDeriveStage(logger *slog.Logger) *DeriveStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeriveStage{
		BaseStep: NewBaseStep(StageIDDerive, StageNameDerive),
		logger:   logger.With(slog.String("stage", StageIDDerive)),
	}
}

// Validate checks the combined table exists
func (s *DeriveStage) Validate(state *State) error {
	if state.Combined == nil {
		return fmt.Errorf("combined table not built")
	}
	return nil
}

// Execute adds school_dist and ap_per to the combined table
func (s *DeriveStage) Execute(ctx context.Context, state *State) error {
	combined := state.Combined

	key, ok := combined.Column(config.KeyColumn)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", config.KeyColumn, combined.Name)
	}
	districts := make([]frame.Value, combined.NumRows())
	for i, v := range key.Values {
		if v.IsMissing() {
			districts[i] = frame.MissingValue()
			continue
		}
		code := v.String()
		if len(code) > config.DistrictCodeWidth {
			code = code[:config.DistrictCodeWidth]
		}
		districts[i] = frame.StringValue(code)
	}
	if err := combined.AddColumn(frame.NewColumn(config.SchoolDistrictColumn, frame.TypeString, districts)); err != nil {
		return err
	}

	if err := addAPShare(combined); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "derived columns added",
		slog.String("columns", config.SchoolDistrictColumn+","+config.APShareColumn))
	return nil
}

// addAPShare derives ap_per as AP test takers over total enrollment. A
// missing or zero enrollment yields a missing share, not an infinity.
func addAPShare(t *frame.Table) error {
	takers, ok := t.Column(colAPTakers)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", colAPTakers, t.Name)
	}
	enrollment, ok := t.Column(colTotalEnrollment)
	if !ok {
		return fmt.Errorf("column %q not found in table %s", colTotalEnrollment, t.Name)
	}

	values := make([]frame.Value, t.NumRows())
	for i := range values {
		num, nok := takers.Values[i].Float64()
		den, dok := enrollment.Values[i].Float64()
		if !nok || !dok || den == 0 {
			values[i] = frame.MissingValue()
			continue
		}
		values[i] = frame.FloatValue(num / den)
	}
	return t.AddColumn(frame.NewColumn(config.APShareColumn, frame.TypeFloat, values))
}

// AnalyzeStage computes the correlation of every numeric column against
// the target score.
type AnalyzeStage struct {
	BaseStep
	analyzer *analysis.Analyzer
	target   string
	logger   *slog.Logger
}

// NewAnalyzeStage creates the analyze stage
func NewAnalyzeStage(analyzer *analysis.Analyzer, target string, logger *slog.Logger) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{
		BaseStep: NewBaseStep(StageIDAnalyze, StageNameAnalyze),
		analyzer: analyzer,
		target:   target,
		logger:   logger.With(slog.String("stage", StageIDAnalyze)),
	}
}

// Validate checks the combined table exists
func (s *AnalyzeStage) Validate(state *State) error {
	if state.Combined == nil {
		return fmt.Errorf("combined table not built")
	}
	if s.target == "" {
		return fmt.Errorf("correlation target not configured")
	}
	return nil
}

// Execute computes and stores the correlations
func (s *AnalyzeStage) Execute(ctx context.Context, state *State) error {
	correlations, err := s.analyzer.Correlations(state.Combined, s.target)
	if err != nil {
		return err
	}
	state.Correlations = correlations

	s.logger.InfoContext(ctx, "correlations computed",
		slog.String("target", s.target),
		slog.Int("columns", len(correlations)))
	return nil
}

// DistrictsStage aggregates the combined table to one row per district
type DistrictsStage struct {
	BaseStep
	analyzer *analysis.Analyzer
	logger   *slog.Logger
}

// NewDistrictsStage creates the districts stage
func NewDistrictsStage(analyzer *analysis.Analyzer, logger *slog.Logger) *DistrictsStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DistrictsStage{
		BaseStep: NewBaseStep(StageIDDistricts, StageNameDistricts),
		analyzer: analyzer,
		logger:   logger.With(slog.String("stage", StageIDDistricts)),
	}
}

// Validate checks the combined table carries the district column
func (s *DistrictsStage) Validate(state *State) error {
	if state.Combined == nil {
		return fmt.Errorf("combined table not built")
	}
	if !state.Combined.HasColumn(config.SchoolDistrictColumn) {
		return fmt.Errorf("combined table has no %s column", config.SchoolDistrictColumn)
	}
	return nil
}

// Execute aggregates and stores the district table
func (s *DistrictsStage) Execute(ctx context.Context, state *State) error {
	districts, err := s.analyzer.Districts(state.Combined, config.SchoolDistrictColumn)
	if err != nil {
		return err
	}
	districts.Name = "districts"
	state.Districts = districts

	s.logger.InfoContext(ctx, "districts aggregated",
		slog.Int("districts", districts.NumRows()))
	return nil
}

// ExportStage writes the combined table, the correlation reports and the
// district aggregates to the reports directory.
type ExportStage struct {
	BaseStep
	writer *exporter.CSVWriter
	target string
	logger *slog.Logger
}

// NewExportStage creates the export stage
func NewExportStage(writer *exporter.CSVWriter, target string, logger *slog.Logger) *ExportStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStage{
		BaseStep: NewBaseStep(StageIDExport, StageNameExport),
		writer:   writer,
		target:   target,
		logger:   logger.With(slog.String("stage", StageIDExport)),
	}
}

// Validate checks every result is present
func (s *ExportStage) Validate(state *State) error {
	if state.Combined == nil {
		return fmt.Errorf("combined table not built")
	}
	if state.Correlations == nil {
		return fmt.Errorf("correlations not computed")
	}
	if state.Districts == nil {
		return fmt.Errorf("districts not aggregated")
	}
	return nil
}

// Execute writes all reports
func (s *ExportStage) Execute(ctx context.Context, state *State) error {
	if err := s.writer.WriteTable(state.Combined, config.CombinedCSVName); err != nil {
		return fmt.Errorf("exporting combined table: %w", err)
	}

	sorted := analysis.SortByStrength(state.Correlations)
	if err := s.writer.WriteCorrelations(sorted, config.CorrelationsCSVName); err != nil {
		return fmt.Errorf("exporting correlations: %w", err)
	}

	report := exporter.NewCorrelationReport(s.target, state.Combined.NumRows(), sorted)
	report.TraceID = infrastructure.GetTraceID(ctx)
	if err := s.writer.WriteCorrelationReport(report, config.CorrelationsJSONName); err != nil {
		return fmt.Errorf("exporting correlation report: %w", err)
	}

	if err := s.writer.WriteTable(state.Districts, config.DistrictsCSVName); err != nil {
		return fmt.Errorf("exporting districts: %w", err)
	}

	s.logger.InfoContext(ctx, "reports written",
		slog.Int("correlations", len(sorted)),
		slog.Int("combined_rows", state.Combined.NumRows()),
		slog.Int("district_rows", state.Districts.NumRows()))
	return nil
}
