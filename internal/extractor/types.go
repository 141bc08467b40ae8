package extractor

// Occurrence is one localization call found in a source file.
type Occurrence struct {
	// Key is the literal argument, verbatim (placeholders stay in the key).
	Key string `json:"key"`
	// FilePath is the workspace-relative path of the source file.
	FilePath string `json:"file"`
	// Line is the 1-based line of the match start.
	Line int `json:"line"`
	// Column is the 1-based column of the match start.
	Column int `json:"column"`
	// FullMatch is the complete matched call text.
	FullMatch string `json:"match"`
}

// Result holds the output of one extraction call.
type Result struct {
	// LanguageCode is the locale the extraction ran for.
	LanguageCode string `json:"language"`
	// Translations holds the first occurrence of every distinct key, in
	// first-seen order across files.
	Translations []Occurrence `json:"translations"`
	// Occurrences holds every match, duplicates included, in scan order.
	Occurrences []Occurrence `json:"-"`
	// TotalFiles counts the files of the requested dialect.
	TotalFiles int `json:"total_files"`
	// TotalMatches counts every occurrence before deduplication.
	TotalMatches int `json:"total_matches"`
}

// Keys returns the deduplicated keys in first-seen order.
func (r *Result) Keys() []string {
	keys := make([]string, len(r.Translations))
	for i, t := range r.Translations {
		keys[i] = t.Key
	}
	return keys
}
