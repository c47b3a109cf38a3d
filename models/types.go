// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Question kind constants
const (
	KindChoice = "mc"
	KindText   = "text"
	KindImage  = "image"
)

// Reconsider status constants
const (
	StatusUnchanged = "unchanged"
	StatusSwitched  = "switched"
)

// Self-assessment constants
const (
	AssessCorrect   = "correct"
	AssessClose     = "close"
	AssessDifferent = "different"
)

// Request types

type LoginRequest struct {
	UID      int    `json:"uid"`
	Username string `json:"username"`
}

type RegisterRequest struct {
	UID      int    `json:"uid"`
	UIDAgain int    `json:"uid_again"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type AnswerRequest struct {
	Choice     *int   `json:"choice,omitempty"`
	Text       string `json:"text,omitempty"`
	ImagePath  string `json:"image_path,omitempty"`
	Confidence *int   `json:"confidence"`
}

type ReconsiderRequest struct {
	Status     string `json:"status"`
	Reasons    string `json:"reasons"`
	Partner    string `json:"partner,omitempty"`
	Confidence *int   `json:"confidence"`
}

type AssessRequest struct {
	Assessment   string `json:"assessment"`
	ErrorChoices []int  `json:"error_choices,omitempty"`
	Differences  string `json:"differences,omitempty"`
}

// A nil Match means "none of the above".
type ClusterRequest struct {
	Match        *int   `json:"match"`
	SlateVersion uint64 `json:"slate_version"`
}

type VoteRequest struct {
	Choice       int    `json:"choice"`
	Confidence   *int   `json:"confidence"`
	SlateVersion uint64 `json:"slate_version"`
}

// A nil Choice critiques the student's own answer.
type CritiqueRequest struct {
	Choice       *int   `json:"choice,omitempty"`
	Criticisms   string `json:"criticisms"`
	SlateVersion uint64 `json:"slate_version"`
}

type QuizRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

type CreateQuestionRequest struct {
	Kind          string   `json:"kind"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	Explanation   string   `json:"explanation,omitempty"`
	Choices       []string `json:"choices,omitempty"`
	CorrectChoice *int     `json:"correct_choice,omitempty"`
	CorrectText   string   `json:"correct_text,omitempty"`
	CorrectFile   string   `json:"correct_file,omitempty"`
	ErrorModels   []string `json:"error_models,omitempty"`
}

type ServeQuestionRequest struct {
	QuestionID int64 `json:"question_id"`
}

type AddPrototypesRequest struct {
	UIDs []int `json:"uids"`
}

type MarkCorrectRequest struct {
	Choice       int    `json:"choice"`
	SlateVersion uint64 `json:"slate_version"`
}

type QuizModeRequest struct {
	Title        string  `json:"title"`
	Instructions string  `json:"instructions"`
	QuestionIDs  []int64 `json:"question_ids"`
}

// Response types

type LoginResponse struct {
	Token    string `json:"token"`
	UID      int    `json:"uid"`
	Fullname string `json:"fullname"`
	Code     int    `json:"code"`
}

type SubmitResponse struct {
	Message string `json:"message"`
}

type VoteResponse struct {
	Message      string `json:"message"`
	SelfCritique bool   `json:"self_critique"`
}

type CreateQuestionResponse struct {
	QuestionID int64 `json:"question_id"`
}

type SaveResponse struct {
	Saved int `json:"saved"`
}

// Domain types

// QuestionView is what a student sees for the current question.
type QuestionView struct {
	ID      int64    `json:"id"`
	Kind    string   `json:"kind"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Choices []string `json:"choices,omitempty"`
}

// SlateView is the published category list students choose among during
// the cluster and vote stages. Clients echo Version back on submission.
type SlateView struct {
	Version    uint64         `json:"version"`
	Categories []CategoryView `json:"categories"`
}

type CategoryView struct {
	Index   int      `json:"index"`
	Answer  string   `json:"answer"`
	Count   int      `json:"count"`
	Correct *bool    `json:"correct,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

type QuestionState struct {
	Question    *QuestionView `json:"question,omitempty"`
	Quiz        *QuizView     `json:"quiz,omitempty"`
	Slate       *SlateView    `json:"slate,omitempty"`
	ClusterOpen bool          `json:"cluster_open"`
	VoteOpen    bool          `json:"vote_open"`
}

// QuizView is what a student sees in quiz mode.
type QuizView struct {
	Title        string         `json:"title"`
	Instructions string         `json:"instructions"`
	Questions    []QuestionView `json:"questions"`
}

type AdminConsole struct {
	Serving    *QuestionView `json:"serving,omitempty"`
	Responses  int           `json:"responses"`
	Logins     int           `json:"logins"`
	Elapsed    string        `json:"elapsed,omitempty"`
	QuizMode   bool          `json:"quiz_mode"`
	QuestionDB []QuestionRef `json:"questions"`
}

type QuestionRef struct {
	ID    int64  `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
