package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomAccountNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^[1-9]\d{7}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, RandomAccountNumber())
	}
}

func TestRandomConfirmationNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, RandomConfirmationNumber())
	}
}

func TestRandomFlightNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^FLT-[1-9]\d{2}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, RandomFlightNumber())
	}
}
