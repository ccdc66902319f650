package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDelimiter   = "delimiter"
	FieldCount       = "count"
	FieldTranscript  = "transcript"
	FieldAmount      = "amount"
	FieldCategory    = "category_id"
	FieldSubcategory = "subcategory_id"
	FieldScore       = "score"
	FieldThreshold   = "threshold"
	FieldWorkers     = "workers"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
)
