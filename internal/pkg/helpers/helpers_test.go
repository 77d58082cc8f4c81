package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringOrDefault(t *testing.T) {
	master := " Master "
	blank := "  "

	assert.Equal(t, "Bachelor", StringOrDefault(nil, "Bachelor"))
	assert.Equal(t, "Bachelor", StringOrDefault(&blank, "Bachelor"))
	assert.Equal(t, "Master", StringOrDefault(&master, "Bachelor"))
}

func TestNullableString(t *testing.T) {
	branch := " Informatics "

	assert.Nil(t, NullableString(nil))
	assert.Equal(t, "Informatics", *NullableString(&branch))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("later", time.Minute))
}
