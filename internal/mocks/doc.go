// Package mocks provides shared test doubles for the pipeline's interfaces.
//
// Two kinds of doubles live here:
//
//   - function-field mocks with call recording (MockGenerationClient,
//     MockTxManager, RecordingEmitter), for tests that script one
//     collaborator's responses
//   - in-memory stores (TaskStore, HeadlineStore, ArticleStore) that honor
//     the same conditional transitions and uniqueness rules as the postgres
//     stores, for tests that drive the whole pipeline
//
// Usage:
//
//	client := &mocks.MockGenerationClient{
//	    ChatFn: func(ctx context.Context, req generation.ChatRequest) (string, error) {
//	        return `{"data": []}`, nil
//	    },
//	}
//	headlines := mocks.NewHeadlineStore()
package mocks
