package domain

// Trial represents a clinical-trial record returned by the search endpoint
type Trial struct {
	NCTID         string   `json:"nctId"`
	BriefTitle    string   `json:"briefTitle"`
	OfficialTitle string   `json:"officialTitle,omitempty"`
	Conditions    []string `json:"conditions,omitempty"`
	OverallStatus string   `json:"overallStatus"`
}

// IndexInfo describes the backing search index
type IndexInfo struct {
	DocCount    int64 `json:"doc_count"`
	SizeInBytes int64 `json:"size_in_bytes"`
}
