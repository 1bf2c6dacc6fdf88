package client

import (
	"encoding/json"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

// envelope is the server's uniform JSON response body for mutating
// requests. "data" is shape-shifting: a fieldName->message map on
// validation failure, arbitrary payload (threadId, thread, topics) on
// success.
type envelope struct {
	Status      string                     `json:"status"`
	Type        string                     `json:"type"`
	Message     string                     `json:"message"`
	RedirectURL string                     `json:"redirectUrl"`
	Data        map[string]json.RawMessage `json:"data"`
}

// ResultKind tags a SubmissionResult.
type ResultKind int

const (
	// ResultSuccess means the server accepted the submission. A
	// redirect target may accompany it; if not, the caller refreshes
	// its local view.
	ResultSuccess ResultKind = iota
	// ResultFieldErrors means the server rejected individual field
	// values. Fields holds the per-field messages.
	ResultFieldErrors
	// ResultFailure covers everything else: transport problems,
	// non-2xx statuses, malformed bodies, and business-rule
	// rejections without a field map.
	ResultFailure
)

// SubmissionResult is the classified outcome of one form submission.
// Exactly one classification function (Classify) produces it, so the
// rest of the pipeline switches on Kind instead of probing optional
// response fields.
type SubmissionResult struct {
	Kind        ResultKind
	Severity    model.Severity
	Message     string
	RedirectURL string
	Fields      map[string]string
}

// Classify turns a raw response into a SubmissionResult. A transport
// error, non-2xx status, or unparseable body becomes ResultFailure
// with the fixed fallback message; raw transport detail never reaches
// the user.
func Classify(statusCode int, body []byte, transportErr error, msgs *messages.Bundle) SubmissionResult {
	fallback := SubmissionResult{
		Kind:     ResultFailure,
		Severity: model.SeverityError,
		Message:  msgs.Get(messages.TransportFailure),
	}

	if transportErr != nil || statusCode < 200 || statusCode >= 300 {
		return fallback
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}

	severity := model.ParseSeverity(env.Type)

	if env.Status == "ok" {
		return SubmissionResult{
			Kind:        ResultSuccess,
			Severity:    model.SeveritySuccess,
			Message:     env.Message,
			RedirectURL: env.RedirectURL,
		}
	}

	// Rejected. A data map whose values are strings is the per-field
	// validation breakdown; anything else is a plain domain failure.
	// A rejection never navigates, whatever redirectUrl says.
	if fields := fieldErrors(env.Data); len(fields) > 0 {
		return SubmissionResult{
			Kind:     ResultFieldErrors,
			Severity: severity,
			Message:  env.Message,
			Fields:   fields,
		}
	}

	message := env.Message
	if message == "" {
		message = msgs.Get(messages.TransportFailure)
	}
	return SubmissionResult{
		Kind:     ResultFailure,
		Severity: model.SeverityError,
		Message:  message,
	}
}

// fieldErrors extracts the fieldName->message entries from a response
// data map. Non-string values are skipped; the success payloads
// (threadId and friends) are numeric and must not read as errors.
func fieldErrors(data map[string]json.RawMessage) map[string]string {
	if len(data) == 0 {
		return nil
	}
	fields := make(map[string]string)
	for name, raw := range data {
		var message string
		if err := json.Unmarshal(raw, &message); err == nil {
			fields[name] = message
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
