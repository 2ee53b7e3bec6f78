package dto

import (
	"time"

	"github.com/noah-isme/gema-arena-api/internal/grading"
	"github.com/noah-isme/gema-arena-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// SubmissionListRequest defines paging for the submission history.
type SubmissionListRequest struct {
	Page     int
	PageSize int
}

// SubmissionSummaryResponse condenses the test results of a submission.
type SubmissionSummaryResponse struct {
	Status      string  `json:"status"`
	TestsTotal  int     `json:"testes_totais"`
	TestsPassed int     `json:"testes_passados"`
	Percent     float64 `json:"percentual"`
	Message     *string `json:"mensagem"`
}

// TestResultResponse describes the judge verdict on one test case.
type TestResultResponse struct {
	ID         uint      `json:"id"`
	TestCaseID uint      `json:"caso"`
	Status     string    `json:"status"`
	Output     string    `json:"output"`
	Message    string    `json:"mensagem"`
	Time       *float64  `json:"tempo"`
	CreatedAt  time.Time `json:"criado_em"`
}

// SubmissionResponse represents a submission with its summary and per-test results.
type SubmissionResponse struct {
	ID            uint                      `json:"id"`
	QuestionID    uint                      `json:"questao"`
	QuestionTitle string                    `json:"questao_titulo"`
	Code          string                    `json:"codigo,omitempty"`
	Language      string                    `json:"linguagem"`
	SubmittedAt   time.Time                 `json:"enviada_em"`
	Score         *float64                  `json:"pontuacao"`
	Attempt       uint                      `json:"tentativa_num"`
	Status        string                    `json:"status"`
	Summary       SubmissionSummaryResponse `json:"resultado"`
	Results       []TestResultResponse      `json:"resultados"`
}

// SubmissionListResponse is a page of the submission history.
type SubmissionListResponse struct {
	Items      []SubmissionResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// SubmitSolutionRequest carries the source code a user submits for a question.
type SubmitSolutionRequest struct {
	Code     string `json:"codigo" validate:"required"`
	Language string `json:"linguagem" validate:"required,max=30"`
}

// JudgeResultItem is the verdict reported by the judge for one test case.
type JudgeResultItem struct {
	TestCaseID uint     `json:"test_case_id" validate:"required,gt=0"`
	Status     string   `json:"status" validate:"required,max=50"`
	Output     string   `json:"output"`
	Message    string   `json:"message"`
	Time       *float64 `json:"time" validate:"omitempty,gte=0"`
}

// JudgeResultsRequest is posted by the judge once a submission has been run.
type JudgeResultsRequest struct {
	Status  string            `json:"status" validate:"omitempty,oneof=done error"`
	Error   string            `json:"error"`
	Results []JudgeResultItem `json:"results" validate:"dive"`
}

// Outcomes converts the reported verdicts for summarizing.
func (r JudgeResultsRequest) Outcomes() []grading.Outcome {
	outcomes := make([]grading.Outcome, 0, len(r.Results))
	for _, item := range r.Results {
		outcomes = append(outcomes, grading.Outcome{Status: item.Status, Output: item.Output, Message: item.Message})
	}
	return outcomes
}

// NewSubmissionSummaryResponse converts a grading summary into a DTO.
func NewSubmissionSummaryResponse(summary grading.Summary) SubmissionSummaryResponse {
	return SubmissionSummaryResponse{
		Status:      summary.Status,
		TestsTotal:  summary.TestsTotal,
		TestsPassed: summary.TestsPassed,
		Percent:     summary.Percent,
		Message:     summary.Message,
	}
}

// SummarizeSubmission summarizes the stored results of a submission.
func SummarizeSubmission(submission models.Submission) grading.Summary {
	outcomes := make([]grading.Outcome, 0, len(submission.Results))
	for _, result := range submission.Results {
		outcomes = append(outcomes, grading.Outcome{Status: result.Status, Output: result.Output, Message: result.Message})
	}
	return grading.Summarize(outcomes, submission.Status)
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission, includeCode bool) SubmissionResponse {
	response := SubmissionResponse{
		ID:            submission.ID,
		QuestionID:    submission.QuestionID,
		QuestionTitle: submission.Question.Title,
		Language:      submission.Language,
		SubmittedAt:   submission.SubmittedAt,
		Score:         submission.Score,
		Attempt:       submission.Attempt,
		Status:        submission.Status,
		Summary:       NewSubmissionSummaryResponse(SummarizeSubmission(submission)),
		Results:       make([]TestResultResponse, 0, len(submission.Results)),
	}

	if includeCode {
		response.Code = submission.Code
	}

	for _, result := range submission.Results {
		response.Results = append(response.Results, TestResultResponse{
			ID:         result.ID,
			TestCaseID: result.TestCaseID,
			Status:     result.Status,
			Output:     result.Output,
			Message:    result.Message,
			Time:       result.Time,
			CreatedAt:  result.CreatedAt,
		})
	}

	return response
}
