package diagnox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const defaultProbabilityOutput = "probabilities"

var (
	ortEnvMu   sync.Mutex
	ortEnvRefs int
	// ortOwnsEnv is set when this package initialized the environment and
	// so is responsible for destroying it.
	ortOwnsEnv bool

	ortIsInitialized = ort.IsInitialized
	ortSetLibrary    = ort.SetSharedLibraryPath
	ortInitialize    = func() error { return ort.InitializeEnvironment() }
	ortDestroy       = func() error { return ort.DestroyEnvironment() }
)

// OrtClassifier runs a scikit-learn model exported to ONNX with zipmap
// disabled, so the probability output is a float tensor of shape [1, C].
type OrtClassifier struct {
	session    *ort.DynamicAdvancedSession
	classes    []string
	width      int
	inputName  string
	outputName string

	// mu guards session against Close while runs are in flight.
	mu     sync.RWMutex
	closed bool
}

// NewOrtClassifier loads the model and checks it against the catalog width
// and class list.
func NewOrtClassifier(cfg ModelConfig, width int, classes []string) (*OrtClassifier, error) {
	if cfg.Path == "" {
		return nil, errors.New("model path is required")
	}
	if len(classes) == 0 {
		return nil, errors.New("class list is required")
	}
	if err := acquireOrtEnv(cfg.OrtLib); err != nil {
		return nil, err
	}
	inputName, outputName, err := resolveOrtIO(cfg, width, len(classes))
	if err != nil {
		releaseOrtEnv()
		return nil, err
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.Path, []string{inputName}, []string{outputName}, nil)
	if err != nil {
		releaseOrtEnv()
		return nil, fmt.Errorf("create ort session: %w", err)
	}
	return &OrtClassifier{
		session:    session,
		classes:    cloneStrings(classes),
		width:      width,
		inputName:  inputName,
		outputName: outputName,
	}, nil
}

// Classes returns the class labels in probability order.
func (o *OrtClassifier) Classes() []string {
	return cloneStrings(o.classes)
}

// Predict returns the most probable label.
func (o *OrtClassifier) Predict(ctx context.Context, vec FeatureVector) (string, error) {
	probs, err := o.PredictProba(ctx, vec)
	if err != nil {
		return "", err
	}
	return predictFromProba(probs, o.classes)
}

// PredictProba runs the model on a single feature vector.
func (o *OrtClassifier) PredictProba(ctx context.Context, vec FeatureVector) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vec) != o.width {
		return nil, fmt.Errorf("feature vector has %d slots, model expects %d", len(vec), o.width)
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return nil, errors.New("classifier is closed")
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(o.width)), []float32(vec))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(o.classes))))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := o.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	data := output.GetData()
	probs := make([]float64, len(data))
	for i, p := range data {
		probs[i] = float64(p)
	}
	return probs, nil
}

// Close releases ORT resources.
func (o *OrtClassifier) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	err := o.session.Destroy()
	releaseOrtEnv()
	return err
}

func resolveOrtIO(cfg ModelConfig, width, classes int) (string, string, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.Path)
	if err != nil {
		return "", "", fmt.Errorf("inspect model: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return "", "", errors.New("model has no inputs or outputs")
	}

	in := inputs[0]
	if cfg.InputName != "" {
		found := false
		for _, info := range inputs {
			if info.Name == cfg.InputName {
				in = info
				found = true
				break
			}
		}
		if !found {
			return "", "", fmt.Errorf("model has no input %q", cfg.InputName)
		}
	}
	if dims := in.Dimensions; len(dims) > 0 {
		if last := dims[len(dims)-1]; last > 0 && int(last) != width {
			return "", "", fmt.Errorf("model input %q expects %d features, catalog has %d", in.Name, last, width)
		}
	}

	outName := cfg.OutputName
	if outName == "" {
		outName = pickProbabilityOutput(outputs, classes)
	}
	if outName == "" {
		return "", "", errors.New("model has no probability output")
	}
	for _, info := range outputs {
		if info.Name != outName {
			continue
		}
		if dims := info.Dimensions; len(dims) > 0 {
			if last := dims[len(dims)-1]; last > 0 && int(last) != classes {
				return "", "", fmt.Errorf("model output %q has %d classes, class list has %d", outName, last, classes)
			}
		}
		return in.Name, outName, nil
	}
	return "", "", fmt.Errorf("model has no output %q", outName)
}

func pickProbabilityOutput(outputs []ort.InputOutputInfo, classes int) string {
	for _, info := range outputs {
		if info.Name == defaultProbabilityOutput {
			return info.Name
		}
	}
	for _, info := range outputs {
		if info.DataType != ort.TensorElementDataTypeFloat {
			continue
		}
		if dims := info.Dimensions; len(dims) == 2 && int(dims[1]) == classes {
			return info.Name
		}
	}
	return ""
}

func acquireOrtEnv(libPath string) error {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()
	if ortEnvRefs == 0 && !ortIsInitialized() {
		if libPath != "" {
			ortSetLibrary(libPath)
		}
		if err := ortInitialize(); err != nil {
			return fmt.Errorf("init onnxruntime: %w", err)
		}
		ortOwnsEnv = true
	}
	ortEnvRefs++
	return nil
}

func releaseOrtEnv() {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()
	if ortEnvRefs == 0 {
		return
	}
	ortEnvRefs--
	if ortEnvRefs > 0 || !ortOwnsEnv {
		return
	}
	ortOwnsEnv = false
	if ortIsInitialized() {
		_ = ortDestroy()
	}
}
