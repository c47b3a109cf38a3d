// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: uid, username
  - RegisterRequest: uid, uid_again, username, fullname
  - AnswerRequest: choice or text or image_path, confidence
  - ReconsiderRequest: status, reasons, partner, confidence
  - AssessRequest: assessment, error_choices, differences
  - ClusterRequest: match (nil means none of the above), slate_version
  - VoteRequest: choice, confidence, slate_version
  - CritiqueRequest: choice (nil critiques own answer), criticisms, slate_version
  - QuizRequest: answers, one per sub-question in serving order
  - CreateQuestionRequest, ServeQuestionRequest, AddPrototypesRequest,
    MarkCorrectRequest, QuizModeRequest: instructor console inputs

# Response Types

Types for JSON responses:

  - LoginResponse: token, uid, fullname, code
  - SubmitResponse: message
  - VoteResponse: message, self_critique
  - QuestionState: question or quiz, slate, cluster_open, vote_open
  - AdminConsole: instructor console summary
  - ErrorResponse: error, message

Instructor reports (status, assess-status, cluster report, analysis) are
serialized straight from the question package's report types.

# Constants

Question kinds ("mc", "text", "image"), reconsider statuses ("unchanged",
"switched"), self-assessments ("correct", "close", "different").

Slate-carrying stages (cluster, vote, critique, mark-correct) echo the
slate_version from the QuestionState they rendered; a mismatch on submission
means the category list changed underneath the client and the server asks
for a fresh view.
*/
package models
