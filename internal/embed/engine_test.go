// ABOUTME: Tests for mean pooling, normalization, and model availability
// ABOUTME: Pooling math is exercised directly, without a model on disk
package embed

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestMeanPoolWeightsByMask(t *testing.T) {
	// Two tokens, dim 2; second token masked out.
	tokens := []float32{2, 4, 100, 100}
	got := meanPool(tokens, []int{1, 0}, 2)

	// Mean is (2, 4); normalized to unit length.
	norm := float32(math.Sqrt(2*2 + 4*4))
	want := []float32{2 / norm, 4 / norm}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMeanPoolAveragesTokens(t *testing.T) {
	tokens := []float32{1, 0, 3, 0}
	got := meanPool(tokens, []int{1, 1}, 2)

	// Mean (2, 0) normalizes to (1, 0).
	if math.Abs(float64(got[0]-1)) > 1e-6 || math.Abs(float64(got[1])) > 1e-6 {
		t.Errorf("meanPool() = %v, want [1 0]", got)
	}
}

func TestMeanPoolAllZeroMask(t *testing.T) {
	// An all-zero mask must not divide by zero; result stays a zero vector.
	tokens := []float32{5, 5, 5, 5}
	got := meanPool(tokens, []int{0, 0}, 2)
	for i, v := range got {
		if v != 0 {
			t.Errorf("got[%d] = %v, want 0", i, v)
		}
	}
}

func TestL2NormalizeUnitLength(t *testing.T) {
	vec := l2Normalize([]float32{3, 4})
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("norm^2 = %v, want 1", norm)
	}
}

func TestL2NormalizeZeroVectorUnchanged(t *testing.T) {
	vec := l2Normalize([]float32{0, 0, 0})
	for i, v := range vec {
		if v != 0 {
			t.Errorf("vec[%d] = %v, want 0", i, v)
		}
	}
}

func TestModelAvailable(t *testing.T) {
	dir := t.TempDir()

	if ModelAvailable(dir) {
		t.Error("ModelAvailable() = true for empty dir")
	}

	if err := os.WriteFile(filepath.Join(dir, "tokenizer.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if ModelAvailable(dir) {
		t.Error("ModelAvailable() = true without model.onnx")
	}

	if err := os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !ModelAvailable(dir) {
		t.Error("ModelAvailable() = false with both files present")
	}
}

func TestEmbedBeforeInit(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.Embed("text"); err != ErrNotInitialized {
		t.Errorf("Embed() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitMissingModel(t *testing.T) {
	engine := NewEngine()
	if err := engine.Init(t.TempDir()); err == nil {
		t.Error("Init() with empty dir succeeded, want error")
	}
}
