package generation

import "github.com/inkwell-app/core/internal/models"

// Payload is the task payload for a generation run.
type Payload struct {
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"`
	Prompt     string `json:"prompt"`
	DocType    string `json:"doc_type"`
	Format     string `json:"format"`
}

type generateDTO struct {
	Prompt string `json:"prompt" binding:"required"`
	UserID string `json:"userId"`
	Format string `json:"format"`
}

type cancelDTO struct {
	DocumentID string `json:"documentId" binding:"required"`
}

type generateResponse struct {
	DocumentID string `json:"documentId"`
	TaskID     string `json:"taskId"`
}

// ProgressEvent is published on the per-document progress channel.
type ProgressEvent struct {
	DocumentID   string `json:"documentId"`
	Status       string `json:"status"`
	ChapterCount int    `json:"chapterCount"`
	ChapterTotal int    `json:"chapterTotal"`
	Unit         string `json:"unit,omitempty"`
	Error        string `json:"error,omitempty"`
}

// plan describes how a document type is assembled.
type plan struct {
	Units     int
	UnitLabel string
	Research  bool
}

var plans = map[string]plan{
	models.DocTypeBookSmall:    {Units: 5, UnitLabel: "Chapter"},
	models.DocTypeBookMedium:   {Units: 10, UnitLabel: "Chapter"},
	models.DocTypeBookLong:     {Units: 15, UnitLabel: "Chapter"},
	models.DocTypeResearchLong: {Units: len(researchSections), UnitLabel: "Section", Research: true},
}

// researchSections is the fixed structure used for research papers.
var researchSections = []string{
	"Abstract",
	"Introduction",
	"Literature Review",
	"Methodology",
	"Results and Analysis",
	"Discussion",
	"Conclusion and References",
}

// outline is the parsed result of the outline call.
type outline struct {
	Title    string   `json:"title"`
	Chapters []string `json:"chapters"`
}
