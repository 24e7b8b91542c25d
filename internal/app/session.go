package app

import (
	"context"
	"sync"

	"yashubustudio/diagnox/diagnox"
)

// Analyzer is the part of diagnox.Service a session needs.
type Analyzer interface {
	Analyze(ctx context.Context, req diagnox.AnalysisRequest) (diagnox.AnalysisResult, error)
}

// Session keeps the last analysis of one user. Each user gets their own
// Session; the analyzer behind it is shared.
type Session struct {
	analyzer Analyzer

	mu   sync.Mutex
	last *diagnox.AnalysisResult
}

// NewSession binds a session to an analyzer.
func NewSession(analyzer Analyzer) *Session {
	return &Session{analyzer: analyzer}
}

// Submit runs one analysis. On success the result replaces the previous one;
// on any error the previous result is dropped.
func (s *Session) Submit(ctx context.Context, req diagnox.AnalysisRequest) (diagnox.AnalysisResult, error) {
	res, err := s.analyzer.Analyze(ctx, req)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.last = nil
		return diagnox.AnalysisResult{}, err
	}
	s.last = &res
	return res, nil
}

// Last returns the stored result, if any.
func (s *Session) Last() (diagnox.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return diagnox.AnalysisResult{}, false
	}
	return *s.last, true
}

// Reset drops the stored result.
func (s *Session) Reset() {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
}
