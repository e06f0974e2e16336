package regressor

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX scores vectors through an ONNX Runtime session. Sessions allow
// concurrent Run calls, so no locking is needed around Score.
type ONNX struct {
	name         string
	session      *ort.DynamicAdvancedSession
	inputName    string
	outputName   string
	featureCount int
}

// loadONNX loads an exported regression graph and validates its tensor
// layout: exactly one [batch, featureCount] float input and one output
// carrying the predicted value per batch row.
func loadONNX(_ context.Context, modelPath, libPath string) (*ONNX, error) {
	// The ONNX Runtime shared library ships alongside the model files unless
	// configuration points elsewhere.
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("regressor: initialize onnx runtime: %w", err)
	}

	// Inspect the graph to discover tensor names and shapes.
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("regressor: read model info: %w", err)
	}

	if len(inputs) != 1 {
		return nil, fmt.Errorf("%w: expected a single input tensor, got %d", ErrArtifactInvalid, len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 2 {
		return nil, fmt.Errorf("%w: expected 2D input tensor, got %v", ErrArtifactInvalid, in.Dimensions)
	}
	featureCount := int(in.Dimensions[1])
	if featureCount <= 0 {
		return nil, fmt.Errorf("%w: input feature dimension must be fixed, got %v", ErrArtifactInvalid, in.Dimensions)
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: model has no outputs", ErrArtifactInvalid)
	}
	out := outputs[0]

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("regressor: create session options: %w", err)
	}
	defer opts.Destroy()
	// Scoring a single 8-feature row; intra-op parallelism buys nothing.
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{in.Name},
		[]string{out.Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("regressor: create session: %w", err)
	}

	return &ONNX{
		name:         filepath.Base(modelPath),
		session:      session,
		inputName:    in.Name,
		outputName:   out.Name,
		featureCount: featureCount,
	}, nil
}

// Name returns the artifact file name.
func (m *ONNX) Name() string { return m.name }

// Backend returns the scoring implementation identifier.
func (m *ONNX) Backend() string { return "onnx" }

// FeatureCount returns the trained feature arity.
func (m *ONNX) FeatureCount() int { return m.featureCount }

// Score runs a single-row inference call.
func (m *ONNX) Score(ctx context.Context, features []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("regressor: %w", err)
	}
	if len(features) != m.featureCount {
		return 0, fmt.Errorf("%w: expected %d features, got %d",
			ErrFeatureCountMismatch, m.featureCount, len(features))
	}

	input := make([]float32, len(features))
	for i, v := range features {
		input[i] = float32(v)
	}

	tIn, err := ort.NewTensor(ort.NewShape(1, int64(m.featureCount)), input)
	if err != nil {
		return 0, fmt.Errorf("regressor: create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return 0, fmt.Errorf("regressor: create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := m.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return 0, fmt.Errorf("regressor: inference failed: %w", err)
	}

	// Copy the value out before the tensor is destroyed.
	data := tOut.GetData()
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty output tensor", ErrArtifactInvalid)
	}
	return float64(data[0]), nil
}

// Close releases the ONNX session resources.
func (m *ONNX) Close() error {
	return m.session.Destroy()
}
