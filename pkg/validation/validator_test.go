package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Phone *string `json:"phoneNumber" binding:"omitempty,phone"`
}

func TestPhoneValidation(t *testing.T) {
	Init()
	cases := []struct {
		in string
		ok bool
	}{
		{"(555) 123-4567", true},
		{"+44 20 7946 0958", true},
		{"555.123.4567", true},
		{"", true},
		{"12345", false},
		{"call me maybe", false},
		{"+1 555 123 4567 8901 2345", false},
		{"555-123-4567 ext", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v := tc.in
			err := binding.Validator.ValidateStruct(phoneForm{Phone: &v})
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, map[string]string{"phoneNumber": "must be a valid phone number"}, ToDetails(err))
		})
	}

	assert.NoError(t, binding.Validator.ValidateStruct(phoneForm{}))
}

func TestPasswordAliasDetails(t *testing.T) {
	Init()
	type form struct {
		Password string `json:"password" binding:"required,pwd"`
	}
	err := binding.Validator.ValidateStruct(form{Password: "abc"})
	require.Error(t, err)
	assert.Equal(t, "must be between 5 and 72 characters long", ToDetails(err)["password"])
}
