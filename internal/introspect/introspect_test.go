package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod_IsPublic(t *testing.T) {
	assert.True(t, Method{Name: "testA", Visibility: Public}.IsPublic())
	assert.True(t, Method{Name: "testA"}.IsPublic())
	assert.False(t, Method{Name: "helper", Visibility: Protected}.IsPublic())
	assert.False(t, Method{Name: "helper", Visibility: Private}.IsPublic())
}
