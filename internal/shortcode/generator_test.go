package shortcode

import (
	"math/rand"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

func TestGenerate_Format(t *testing.T) {
	g := NewGenerator()

	for i := 0; i < 100; i++ {
		code := g.Generate()
		assert.Regexp(t, codePattern, code)
	}
}

func TestGenerate_SeededDeterminism(t *testing.T) {
	g1 := NewGeneratorWithSource(rand.NewSource(42))
	g2 := NewGeneratorWithSource(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		assert.Equal(t, g1.Generate(), g2.Generate())
	}
}

func TestGenerate_SparseCollisions(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		seen[g.Generate()] = true
	}
	// ~5.7e10 possible codes; 10k draws should essentially never collide.
	assert.GreaterOrEqual(t, len(seen), 9990)
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	g := NewGenerator()

	var wg sync.WaitGroup
	codes := make([][]string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				codes[n] = append(codes[n], g.Generate())
			}
		}(i)
	}
	wg.Wait()

	for _, batch := range codes {
		assert.Len(t, batch, 500)
		for _, code := range batch {
			assert.Regexp(t, codePattern, code)
		}
	}
}
