package scan

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	t "codegraph/internal/types"
)

// AnalysisCache memoizes oracle analysis results keyed by content hash, so
// rescans (watch mode, repeated runs in serve mode) never re-consult the
// oracle for unchanged file content.
type AnalysisCache struct {
	c *lru.Cache[string, t.FileFacts]
}

func NewAnalysisCache(size int) (*AnalysisCache, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[string, t.FileFacts](size)
	if err != nil {
		return nil, err
	}
	return &AnalysisCache{c: c}, nil
}

func key(code []byte) string {
	sum := sha256.Sum256(code)
	return hex.EncodeToString(sum[:])
}

func (a *AnalysisCache) Get(code []byte) (t.FileFacts, bool) {
	return a.c.Get(key(code))
}

func (a *AnalysisCache) Put(code []byte, facts t.FileFacts) {
	a.c.Add(key(code), facts)
}

// Len reports the number of cached analyses.
func (a *AnalysisCache) Len() int { return a.c.Len() }
