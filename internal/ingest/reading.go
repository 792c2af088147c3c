package ingest

import "slices"

// Column keys for the text fields of a reading.
const (
	KeyDate HeaderKey = "date"
	KeyTime HeaderKey = "time"
)

// SensorReading is one validated row of the air-quality file.
//
// Date always matches YYYY-MM-DD and Time matches HH:MM:SS (format only, no
// calendar check). Numeric fields are always finite.
type SensorReading struct {
	Date string `json:"date"`
	Time string `json:"time"`

	COGT       float64 `json:"co_gt"`
	PT08S1CO   float64 `json:"pt08_s1_co"`
	NMHCGT     float64 `json:"nmhc_gt"`
	C6H6GT     float64 `json:"c6h6_gt"`
	PT08S2NMHC float64 `json:"pt08_s2_nmhc"`
	NOxGT      float64 `json:"nox_gt"`
	PT08S3NOx  float64 `json:"pt08_s3_nox"`
	NO2GT      float64 `json:"no2_gt"`
	PT08S4NO2  float64 `json:"pt08_s4_no2"`
	PT08S5O3   float64 `json:"pt08_s5_o3"`
	T          float64 `json:"t"`
	RH         float64 `json:"rh"`
	AH         float64 `json:"ah"`

	// Defaulted lists, in NumericFields order, the canonical keys whose value
	// was missing, empty or unparsable and was therefore set to 0.
	Defaulted []HeaderKey `json:"defaulted,omitempty"`
}

// WasDefaulted reports whether the numeric field with the given canonical key
// was substituted with 0.
func (r SensorReading) WasDefaulted(key HeaderKey) bool {
	return slices.Contains(r.Defaulted, key)
}

// HasDefaults reports whether any numeric field of the reading was defaulted.
func (r SensorReading) HasDefaults() bool {
	return len(r.Defaulted) > 0
}

// NumericField describes one numeric column of a reading.
type NumericField struct {
	Key   HeaderKey // Canonical key: "co_gt"
	Alias HeaderKey // Key the UCI header normalizes to: "CO(GT)" -> "cogt"
	Label string    // Column name in the UCI dataset

	ptr func(*SensorReading) *float64
}

// NumericFields lists every numeric field of SensorReading in column order.
var NumericFields = []NumericField{
	{Key: "co_gt", Alias: "cogt", Label: "CO(GT)", ptr: func(r *SensorReading) *float64 { return &r.COGT }},
	{Key: "pt08_s1_co", Alias: "pt08_s1co", Label: "PT08.S1(CO)", ptr: func(r *SensorReading) *float64 { return &r.PT08S1CO }},
	{Key: "nmhc_gt", Alias: "nmhcgt", Label: "NMHC(GT)", ptr: func(r *SensorReading) *float64 { return &r.NMHCGT }},
	{Key: "c6h6_gt", Alias: "c6h6gt", Label: "C6H6(GT)", ptr: func(r *SensorReading) *float64 { return &r.C6H6GT }},
	{Key: "pt08_s2_nmhc", Alias: "pt08_s2nmhc", Label: "PT08.S2(NMHC)", ptr: func(r *SensorReading) *float64 { return &r.PT08S2NMHC }},
	{Key: "nox_gt", Alias: "noxgt", Label: "NOx(GT)", ptr: func(r *SensorReading) *float64 { return &r.NOxGT }},
	{Key: "pt08_s3_nox", Alias: "pt08_s3nox", Label: "PT08.S3(NOx)", ptr: func(r *SensorReading) *float64 { return &r.PT08S3NOx }},
	{Key: "no2_gt", Alias: "no2gt", Label: "NO2(GT)", ptr: func(r *SensorReading) *float64 { return &r.NO2GT }},
	{Key: "pt08_s4_no2", Alias: "pt08_s4no2", Label: "PT08.S4(NO2)", ptr: func(r *SensorReading) *float64 { return &r.PT08S4NO2 }},
	{Key: "pt08_s5_o3", Alias: "pt08_s5o3", Label: "PT08.S5(O3)", ptr: func(r *SensorReading) *float64 { return &r.PT08S5O3 }},
	{Key: "t", Alias: "t", Label: "T", ptr: func(r *SensorReading) *float64 { return &r.T }},
	{Key: "rh", Alias: "rh", Label: "RH", ptr: func(r *SensorReading) *float64 { return &r.RH }},
	{Key: "ah", Alias: "ah", Label: "AH", ptr: func(r *SensorReading) *float64 { return &r.AH }},
}

// Value returns the field's value in r.
func (f NumericField) Value(r SensorReading) float64 {
	return *f.ptr(&r)
}
