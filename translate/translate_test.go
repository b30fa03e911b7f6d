package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(language.AmericanEnglish)

	assert.Equal("address 0xfffc", From("address %#x", uint32(0xfffc)))
	assert.Equal("1,234,567 steps", From("%d steps", 1234567))
}
