package gemini

import (
	"context"
	"testing"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGenerateTextGuards(t *testing.T) {
	var g *Generator
	if _, err := g.GenerateText(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for nil generator")
	}

	uninitialized := &Generator{}
	if _, err := uninitialized.GenerateText(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}

func TestModel(t *testing.T) {
	var nilGen *Generator
	if got := nilGen.Model(); got != "" {
		t.Errorf("expected empty model for nil generator, got %q", got)
	}

	g := &Generator{modelName: "gemini-2.5-flash"}
	if got := g.Model(); got != "gemini-2.5-flash" {
		t.Errorf("unexpected model %q", got)
	}
}
