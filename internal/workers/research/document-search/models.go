// internal/workers/research/document-search/models.go
package documentsearch

type Input struct {
	Query      string `json:"query"`
	MissionID  string `json:"mission_id,omitempty"`
	MaxResults *int   `json:"max_results,omitempty"`
}

type DocumentResult struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

type Output struct {
	Results   []DocumentResult `json:"results"`
	TotalHits int              `json:"total_hits"`
	Took      int              `json:"took"`
}
