package key_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugehoo/yorkie-client/pkg/document/key"
)

func TestKey_Validate(t *testing.T) {
	assert.NoError(t, key.NewKey("doc-1").Validate())
	assert.NoError(t, key.NewKey("team/project.doc").Validate())
	assert.Error(t, key.NewKey("x").Validate())
	assert.Error(t, key.NewKey("Has-Upper-Case").Validate())
	assert.Error(t, key.NewKey("has space").Validate())
}
