package scanner

import (
	"testing"

	"github.com/maxvaer/dirprobe/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Membership(t *testing.T) {
	sets := []config.StatusSet{
		config.NewStatusSet(200, 204, 301, 302, 307),
		config.NewStatusSet(403),
		config.NewStatusSet(),
	}
	for _, set := range sets {
		for code := 0; code <= 999; code++ {
			assert.Equal(t, set.Contains(code), Classify(code, set), "code %d in %s", code, set)
		}
	}
}

func TestClassify_NoRangeMatching(t *testing.T) {
	set := config.NewStatusSet(200)
	assert.False(t, Classify(201, set))
	assert.False(t, Classify(299, set))
	assert.True(t, Classify(200, set))
}
