package diagnox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service runs the encode, infer and lookup pipeline. All of its fields are
// read-only after construction, so one Service may serve concurrent requests.
type Service struct {
	catalog     *Catalog
	classifier  Classifier
	classes     []string
	suggestions *SuggestionTable
	cfg         Config
	logger      zerolog.Logger

	now   func() time.Time
	newID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the generator used for result ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the loaded artifacts into a pipeline.
func NewService(catalog *Catalog, classifier Classifier, suggestions *SuggestionTable, cfg Config, logger zerolog.Logger, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if suggestions == nil {
		return nil, errors.New("suggestion table is required")
	}
	classes := classifier.Classes()
	if len(classes) == 0 {
		return nil, errors.New("classifier has no classes")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		catalog:     catalog,
		classifier:  classifier,
		classes:     classes,
		suggestions: suggestions,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases classifier resources.
func (s *Service) Close() error {
	if s.classifier != nil {
		return s.classifier.Close()
	}
	return nil
}

// Catalog returns the symptom catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Config returns a copy of the configuration.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// Classes returns the classifier labels in probability order.
func (s *Service) Classes() []string {
	return cloneStrings(s.classes)
}

// Suggestions looks up advice for a disease.
func (s *Service) Suggestions(disease string) Suggestions {
	return s.suggestions.Lookup(disease)
}

// Predict runs the single-label pipeline.
func (s *Service) Predict(ctx context.Context, symptoms []string) (SimpleResult, error) {
	selection, err := s.selection(symptoms)
	if err != nil {
		return SimpleResult{}, err
	}
	vec := Encode(s.catalog, selection)
	label, err := s.predict(ctx, vec)
	if err != nil {
		s.logger.Warn().Err(err).Int("symptoms", len(selection)).Msg("prediction failed")
		return SimpleResult{}, err
	}
	res := SimpleResult{
		Symptoms:    Decode(s.catalog, vec),
		Label:       label,
		Suggestions: s.suggestions.Lookup(label),
	}
	s.logger.Debug().
		Str("label", label).
		Int("symptoms", len(res.Symptoms)).
		Bool("fallback", res.Suggestions.Fallback).
		Msg("prediction")
	return res, nil
}

// Analyze runs the ranked pipeline and returns the top-K differential diagnosis.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	if req.Severity < SeverityMild || req.Severity > SeveritySevere {
		return AnalysisResult{}, fmt.Errorf("%w: %d", ErrUnknownSeverity, int(req.Severity))
	}
	selection, err := s.selection(req.Symptoms)
	if err != nil {
		return AnalysisResult{}, err
	}
	k := req.TopK
	if k <= 0 {
		k = s.cfg.TopK
	}
	vec := Encode(s.catalog, selection)
	probs, err := s.predictProba(ctx, vec)
	if err != nil {
		s.logger.Warn().Err(err).Int("symptoms", len(selection)).Msg("analysis failed")
		return AnalysisResult{}, err
	}
	top := TopK(probs, s.classes, k)
	res := AnalysisResult{
		ID:          s.newID(),
		Symptoms:    Decode(s.catalog, vec),
		Severity:    req.Severity,
		Predictions: make([]Diagnosis, len(top)),
		GeneratedAt: s.now(),
	}
	for i, p := range top {
		res.Predictions[i] = Diagnosis{Prediction: p, Suggestions: s.suggestions.Lookup(p.Label)}
	}
	ev := s.logger.Debug().Str("id", res.ID).Int("symptoms", len(res.Symptoms)).Stringer("severity", res.Severity)
	if best, ok := res.Top(); ok {
		ev = ev.Str("label", best.Label).Float64("probability", best.Probability)
	}
	ev.Msg("analysis")
	return res, nil
}

// selection trims and deduplicates the requested names. It fails with
// ErrNoSymptoms before anything reaches the classifier.
func (s *Service) selection(symptoms []string) ([]string, error) {
	out := make([]string, 0, len(symptoms))
	slots := make(map[int]struct{}, len(symptoms))
	seen := make(map[string]struct{})
	var unknown []string
	for _, name := range symptoms {
		key := SymptomKey(name)
		if key == "" {
			continue
		}
		if idx, ok := s.catalog.Index(name); ok {
			if _, dup := slots[idx]; dup {
				continue
			}
			slots[idx] = struct{}{}
		} else {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unknown = append(unknown, strings.TrimSpace(name))
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, ErrNoSymptoms
	}
	if len(unknown) > 0 {
		s.logger.Debug().Strs("ignored", unknown).Msg("symptoms not in catalog")
	}
	return out, nil
}

func (s *Service) predict(ctx context.Context, vec FeatureVector) (label string, err error) {
	defer recoverInference("predict", &err)
	label, err = s.classifier.Predict(ctx, vec)
	if err != nil {
		return "", &InferenceError{Op: "predict", Err: err}
	}
	if strings.TrimSpace(label) == "" {
		return "", &InferenceError{Op: "predict", Err: errors.New("empty label")}
	}
	return label, nil
}

func (s *Service) predictProba(ctx context.Context, vec FeatureVector) (probs []float64, err error) {
	defer recoverInference("predict_proba", &err)
	probs, err = s.classifier.PredictProba(ctx, vec)
	if err != nil {
		return nil, &InferenceError{Op: "predict_proba", Err: err}
	}
	if err := ValidateProbabilities(probs, len(s.classes)); err != nil {
		return nil, &InferenceError{Op: "predict_proba", Err: err}
	}
	return probs, nil
}

func recoverInference(op string, err *error) {
	if r := recover(); r != nil {
		*err = &InferenceError{Op: op, Err: fmt.Errorf("classifier panic: %v", r)}
	}
}
