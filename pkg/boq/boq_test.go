package boq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogOrderedAndComplete(t *testing.T) {
	catalog := Catalog()
	assert.Len(t, catalog, 6)

	for i, m := range catalog {
		assert.Equal(t, i+1, m.ID)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.ArabicTitle)
		assert.NotEmpty(t, m.Instructions)
	}
}

func TestSampleItemsBelongToCatalog(t *testing.T) {
	titles := map[string]bool{}
	for _, m := range Catalog() {
		titles[m.ArabicTitle] = true
	}
	for _, it := range SampleItems() {
		assert.True(t, titles[it.Category], "category %q not in catalog", it.Category)
	}
}

func TestModelValidation(t *testing.T) {
	assert.True(t, ModelFlashLatest.Valid())
	assert.True(t, DefaultModel.Valid())
	assert.False(t, ModelName("gpt-o9").Valid())
}

func TestModelCapabilities(t *testing.T) {
	pro := ModelCapabilities(ModelGemini3Pro)
	assert.True(t, pro.SearchGrounding)
	assert.Equal(t, int32(4096), pro.ThinkingBudget)

	thinking := ModelCapabilities(ModelFlashThinking)
	assert.True(t, thinking.SearchGrounding)

	flash3 := ModelCapabilities(ModelGemini3Flash)
	assert.False(t, flash3.SearchGrounding)
	assert.Equal(t, int32(2048), flash3.ThinkingBudget)

	lite := ModelCapabilities(ModelFlashLiteLatest)
	assert.Equal(t, Capabilities{}, lite)
}
