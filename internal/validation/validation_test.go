package validation

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestValidateUpload(t *testing.T) {
	mimeType, err := ValidateUpload("meal.png", pngHeader, ImageConstraints)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)

	pdf := []byte("%PDF-1.7\n1 0 obj\n")
	mimeType, err = ValidateUpload("report.pdf", pdf, ImageConstraints, DocumentConstraints)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)

	_, err = ValidateUpload("meal.pdf", pngHeader, ImageConstraints)
	assert.ErrorContains(t, err, "invalid file extension")

	_, err = ValidateUpload("notes.png", []byte("just some text"), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file type")

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 6<<20)...)
	_, err = ValidateUpload("big.png", big, ImageConstraints)
	assert.ErrorContains(t, err, "file too large")

	_, err = ValidateUpload("meal.png", pngHeader)
	assert.Error(t, err)
}

func TestValidateProfileFields(t *testing.T) {
	assert.NoError(t, ValidateWeight(72.5))
	assert.Error(t, ValidateWeight(0))
	assert.Error(t, ValidateWeight(900))
	assert.Error(t, ValidateWeight(math.NaN()))
	assert.Error(t, ValidateWeight(math.Inf(1)))

	assert.NoError(t, ValidateHeight(170))
	assert.Error(t, ValidateHeight(10))
	assert.Error(t, ValidateHeight(math.NaN()))

	assert.NoError(t, ValidateGender("Female"))
	assert.Error(t, ValidateGender(""))
	assert.Error(t, ValidateGender("robot"))

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateDOB(time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Error(t, ValidateDOB(now.AddDate(0, 0, 1), now))
	assert.Error(t, ValidateDOB(time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestValidateEmailAndPassword(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))

	assert.NoError(t, ValidatePassword("correct horse battery"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("mypassword123456"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Jane"))
	assert.Error(t, ValidateName("   "))
}

func TestValidationErrorsAreTyped(t *testing.T) {
	err := ValidateHeight(10)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "height must be between 50 and 272 cm", verr.Error())
}
