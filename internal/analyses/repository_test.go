package analyses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maturis/maturis/internal/authz"
	_ "github.com/maturis/maturis/testing"
)

func TestListAnalysesRejectsUnexpectedConstraint(t *testing.T) {
	// The personal constraint is denied upstream and must never translate to
	// an unfiltered query here. The guard runs before any pool access.
	repo := NewRepository(nil)

	out, err := repo.ListAnalyses(context.Background(), authz.ByActor(14))
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "unsupported constraint kind")
}
