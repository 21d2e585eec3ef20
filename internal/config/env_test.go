package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallback(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("GHOSTWRITER_TEST_UNSET", "fallback"))

	t.Setenv("GHOSTWRITER_TEST_SET", "value")
	assert.Equal(t, "value", getEnv("GHOSTWRITER_TEST_SET", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	assert.Equal(t, 7, getEnvInt("GHOSTWRITER_TEST_UNSET", 7))

	t.Setenv("GHOSTWRITER_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("GHOSTWRITER_TEST_INT", 7))

	t.Setenv("GHOSTWRITER_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvInt("GHOSTWRITER_TEST_INT", 7))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:5173"}, splitList("http://localhost:5173"))
	assert.Equal(t,
		[]string{"https://app.example.com", "https://staging.example.com"},
		splitList("https://app.example.com, https://staging.example.com,"))
	assert.Nil(t, splitList(""))
}

func TestGetEnvDuration(t *testing.T) {
	assert.Equal(t, time.Minute, getEnvDuration("GHOSTWRITER_TEST_UNSET", time.Minute))

	t.Setenv("GHOSTWRITER_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("GHOSTWRITER_TEST_DUR", time.Minute))

	t.Setenv("GHOSTWRITER_TEST_DUR", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("GHOSTWRITER_TEST_DUR", time.Minute))
}
