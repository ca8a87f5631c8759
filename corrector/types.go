package corrector

// IssueKind identifies a class of OCR damage detected in a paragraph.
type IssueKind string

const (
	// IssueSpacing covers missing or duplicated whitespace between words.
	IssueSpacing IssueKind = "spacing"
	// IssueCharSubstitution covers digit/letter visual confusions (0/o, 5/s...).
	IssueCharSubstitution IssueKind = "char_substitution"
	// IssueDate covers malformed date tokens.
	IssueDate IssueKind = "date"
	// IssueSpelling covers dictionary-confirmed misspellings.
	IssueSpelling IssueKind = "spelling"
)

// DocumentRow is one scanned paragraph as delivered by the row source.
// Rows are immutable inputs; the pipeline derives a CorrectionRecord and
// never writes back into the row.
type DocumentRow struct {
	RowID    string `json:"rowId"`
	DocID    string `json:"docId"`
	ParaID   string `json:"ocrParaId"`
	ParaType string `json:"ocrParaType"`
	ParaText string `json:"ocrParaText"`
}

// CorrectionRecord is the per-row output of the pipeline.
type CorrectionRecord struct {
	RowID          string      `json:"rowId"`
	OriginalText   string      `json:"originalText"`
	CleanedText    string      `json:"cleanedText"`
	DetectedIssues []IssueKind `json:"detectedIssues,omitempty"`
	Confidence     float64     `json:"confidence"`
}

// Token is a surface word occurrence with byte offsets into its source text.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Verdict is the classifier's label for one unknown word occurrence.
type Verdict string

const (
	// VerdictMisspelling marks a token eligible for spelling correction.
	VerdictMisspelling Verdict = "misspelling"
	// VerdictEntity marks a token confirmed as a named entity; it is never corrected.
	VerdictEntity Verdict = "entity"
	// VerdictProtected marks a token from the protected set; it is never corrected.
	VerdictProtected Verdict = "ambiguous-protected"
)

// ClassifiedToken pairs an unknown token occurrence with its verdict.
type ClassifiedToken struct {
	Token   Token   `json:"token"`
	Verdict Verdict `json:"verdict"`
}

// EntitySpan is one entity reported by a tagging collaborator.
type EntitySpan struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
