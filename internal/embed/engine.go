// ABOUTME: Local embedding engine: HuggingFace tokenizer + ONNX inference
// ABOUTME: Mean-pools token embeddings under the attention mask, L2-normalizes
package embed

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Dimension is the output dimension of multi-qa-mpnet-base-cos-v1.
const Dimension = 768

// ErrNotInitialized is returned by Embed before a successful Init.
var ErrNotInitialized = errors.New("embedding engine not initialized")

// maskEpsilon floors the mean-pooling denominator so an all-zero attention
// mask cannot divide by zero.
const maskEpsilon = 1e-9

// Embedder turns text into a fixed-length vector. Implemented by the local
// Engine and the optional remote OpenAI backend.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// The ONNX runtime environment is process-wide and initialized once.
var (
	ortOnce    sync.Once
	ortInitErr error
)

func initRuntime() error {
	ortOnce.Do(func() {
		if lib := os.Getenv("STACKS_ORT_LIB"); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Engine is the shared local embedding model handle. Access to the
// underlying session is serialized on its own lock, independent of the
// storage lock, so a sync run and the background embedder can both use it.
type Engine struct {
	mu      sync.Mutex
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// NewEngine returns an unloaded engine; call Init before Embed.
func NewEngine() *Engine {
	return &Engine{}
}

// ModelAvailable reports whether the required model files exist. Absence is
// a recoverable "skip embedding" condition, not fatal to sync.
func ModelAvailable(modelDir string) bool {
	if _, err := os.Stat(filepath.Join(modelDir, "tokenizer.json")); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(modelDir, "model.onnx")); err != nil {
		return false
	}
	return true
}

// Init loads the tokenizer and inference model exactly once. Repeated calls
// after success are no-ops.
func (e *Engine) Init(modelDir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return nil
	}

	tokenizerPath := filepath.Join(modelDir, "tokenizer.json")
	modelPath := filepath.Join(modelDir, "model.onnx")
	if !ModelAvailable(modelDir) {
		return fmt.Errorf("model not found at %s: expected tokenizer.json and model.onnx", modelDir)
	}

	if err := initRuntime(); err != nil {
		return fmt.Errorf("initializing onnx runtime: %w", err)
	}

	tk, err := pretrained.FromFile(tokenizerPath)
	if err != nil {
		return fmt.Errorf("loading tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	e.tk = tk
	e.session = session
	return nil
}

// Close releases the inference session.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		e.tk = nil
		return err
	}
	return nil
}

// Embed tokenizes text with special tokens, runs inference, and returns the
// attention-mask-weighted mean of the token embeddings, L2-normalized.
func (e *Engine) Embed(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNotInitialized
	}

	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenizing: %w", err)
	}

	seqLen := len(encoding.Ids)
	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	for i, id := range encoding.Ids {
		ids[i] = int64(id)
	}
	for i, m := range encoding.AttentionMask {
		mask[i] = int64(m)
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = idsTensor.Destroy() }()

	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = maskTensor.Destroy() }()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	tokenEmbs, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer func() { _ = tokenEmbs.Destroy() }()

	return meanPool(tokenEmbs.GetData(), encoding.AttentionMask, Dimension), nil
}

// meanPool computes the attention-mask-weighted mean over the [seq, dim]
// token embedding matrix and L2-normalizes the result. Normalization is
// skipped when the norm is exactly zero.
func meanPool(tokens []float32, mask []int, dim int) []float32 {
	sum := make([]float32, dim)
	maskSum := float32(0)

	for i, m := range mask {
		if m == 0 {
			continue
		}
		maskSum += float32(m)
		row := tokens[i*dim : (i+1)*dim]
		for j, v := range row {
			sum[j] += v * float32(m)
		}
	}

	denom := maskSum
	if denom < maskEpsilon {
		denom = maskEpsilon
	}
	for j := range sum {
		sum[j] /= denom
	}

	return l2Normalize(sum)
}

// l2Normalize scales the vector to unit length, leaving a zero vector
// untouched.
func l2Normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
