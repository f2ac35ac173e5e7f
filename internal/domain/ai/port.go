package ai

import "context"

// Each port is a leaf agent: one external AI capability, no retries,
// no internal state.

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Evaluator returns the evaluation as a JSON document string.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript string) (string, error)
}

// Recommender takes the transcript plus the evaluation JSON when one is
// available (empty string otherwise).
type Recommender interface {
	Recommend(ctx context.Context, transcript, evaluationJSON string) (string, error)
}
