package api

import "github.com/jrsteele09/go-consulta/users"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

// LoginResponse is the backend's answer to a login attempt.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *users.Info `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query           string `json:"query"`
	IncludeWorkflow bool   `json:"include_workflow,omitempty"`
}

// SQLQuery describes one query the backend executed while answering.
type SQLQuery struct {
	Query           string `json:"query"`
	Success         bool   `json:"success"`
	RowCount        *int   `json:"row_count,omitempty"`
	Error           string `json:"error,omitempty"`
	TaskDescription string `json:"task_description"`
}

// QueryResult is one of possibly several result sets produced for a query.
// Exactly one entry carries IsPrimary (the backend marks the last set).
type QueryResult struct {
	Description string           `json:"description"`
	Data        []map[string]any `json:"data"`
	RowCount    int              `json:"row_count"`
	IsPrimary   bool             `json:"is_primary"`
}

// QueryResponse is the structured answer to a natural-language query. The
// client renders it and never mutates it.
type QueryResponse struct {
	Success           bool               `json:"success"`
	ExecutiveResponse string             `json:"executive_response"`
	FinalResponse     string             `json:"final_response"`
	AgentsUsed        []string           `json:"agents_used"`
	Data              []map[string]any   `json:"data,omitempty"`
	QueryResults      []QueryResult      `json:"query_results,omitempty"`
	VisualizationData []map[string]any   `json:"visualization_data,omitempty"`
	SQLQueries        []SQLQuery         `json:"sql_queries,omitempty"`
	Error             string             `json:"error,omitempty"`
	WorkflowData      map[string]any     `json:"workflow_data,omitempty"`
}

// Primary returns the rows of the primary result set. When the backend sent
// no per-query breakdown, the top-level data acts as the primary set.
func (r *QueryResponse) Primary() []map[string]any {
	for i := range r.QueryResults {
		if r.QueryResults[i].IsPrimary {
			return r.QueryResults[i].Data
		}
	}
	return r.Data
}

// HealthResponse is the answer of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// ViewCountInfo reports how many records one queryable view holds.
type ViewCountInfo struct {
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// ViewCountsResponse is the answer of GET /views/counts.
type ViewCountsResponse struct {
	Success bool            `json:"success"`
	Views   []ViewCountInfo `json:"views"`
}
