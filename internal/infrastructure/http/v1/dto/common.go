// Package dto defines request and response payloads for the v1 API.
package dto

// SuccessResponse is a generic success acknowledgment with bilingual text.
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MessageZH string `json:"message_zh,omitempty"`
}

// CodeSuggestion is one autocomplete match.
type CodeSuggestion struct {
	Code string `json:"code"`
}
