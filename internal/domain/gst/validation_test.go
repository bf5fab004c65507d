package gst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
)

func TestGetGstType(t *testing.T) {
	assert.Equal(t, gst.SupplyIntraState, gst.GetGstType("Assam", "assam "))
	assert.Equal(t, gst.SupplyInterState, gst.GetGstType("Assam", "Kerala"))
	assert.Equal(t, gst.SupplyIntraState, gst.GetGstType(" TAMIL NADU", "tamil nadu"))
	assert.True(t, gst.GetGstType("Goa", "Delhi").IsInterState())
	assert.False(t, gst.GetGstType("Goa", "goa").IsInterState())
}

func TestParseSupplyType(t *testing.T) {
	st, ok := gst.ParseSupplyType(" Inter ")
	assert.True(t, ok)
	assert.Equal(t, gst.SupplyInterState, st)

	_, ok = gst.ParseSupplyType("export")
	assert.False(t, ok)
}

func TestValidateGSTNumber(t *testing.T) {
	valid := []string{"29ABCDE1234F1Z5", "27AAPFU0939F1ZV", "29abcde1234f1z5", " 07AAACB2230M1ZX "}
	for _, v := range valid {
		assert.True(t, gst.ValidateGSTNumber(v), v)
	}
	invalid := []string{"", "29ABCDE1234F1Y5", "2ABCDE1234F1Z5", "29ABCDE1234F0Z5", "29ABCDE1234F1Z", "29ABCD31234F1Z5"}
	for _, v := range invalid {
		assert.False(t, gst.ValidateGSTNumber(v), v)
	}
}

func TestValidatePAN(t *testing.T) {
	assert.True(t, gst.ValidatePAN("ABCDE1234F"))
	assert.True(t, gst.ValidatePAN("abcde1234f"))
	assert.False(t, gst.ValidatePAN("ABCD1234F"))
	assert.False(t, gst.ValidatePAN("ABCDE12345"))
	assert.False(t, gst.ValidatePAN(""))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, gst.ValidatePhone("9876543210"))
	assert.True(t, gst.ValidatePhone("6000000000"))
	assert.False(t, gst.ValidatePhone("5876543210"))
	assert.False(t, gst.ValidatePhone("987654321"))
	assert.False(t, gst.ValidatePhone("+919876543210"))
}

func TestStateFromGSTIN(t *testing.T) {
	state, ok := gst.StateFromGSTIN("29ABCDE1234F1Z5")
	assert.True(t, ok)
	assert.Equal(t, "Karnataka", state)

	code, ok := gst.StateCodeFromGSTIN("27aapfu0939f1zv")
	assert.True(t, ok)
	assert.Equal(t, "27", code)

	_, ok = gst.StateFromGSTIN("99ABCDE1234F1Z5")
	assert.False(t, ok, "unknown state code")

	_, ok = gst.StateFromGSTIN("not-a-gstin")
	assert.False(t, ok)
}
