package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveEmptyFields_DropsNilAndEmptyString(t *testing.T) {
	out := RemoveEmptyFields(map[string]interface{}{
		"nil":   nil,
		"empty": "",
		"name":  "Team",
	})

	assert.Equal(t, map[string]interface{}{"name": "Team"}, out)
}

func TestRemoveEmptyFields_KeepsFalsyValues(t *testing.T) {
	in := map[string]interface{}{
		"false":     false,
		"zero":      float64(0),
		"emptyList": []interface{}{},
		"emptyObj":  map[string]interface{}{},
	}

	out := RemoveEmptyFields(in)

	assert.Equal(t, in, out)
}

func TestRemoveEmptyFields_Nested(t *testing.T) {
	in := map[string]interface{}{
		"Braze": map[string]interface{}{
			"PublicKey": "pk",
			"BaseUrl":   "",
		},
		"CourtCash": map[string]interface{}{
			"Label": "",
			"Other": nil,
		},
		"BuyTabs": []interface{}{
			map[string]interface{}{"Label": "General", "GenreCode": ""},
			map[string]interface{}{"GenreCode": ""},
			"",
		},
		"Holes": []interface{}{nil, ""},
	}

	out := RemoveEmptyFields(in)

	assert.Equal(t, map[string]interface{}{
		"Braze": map[string]interface{}{"PublicKey": "pk"},
		"BuyTabs": []interface{}{
			map[string]interface{}{"Label": "General"},
		},
	}, out)
}

func TestRemoveEmptyFields_DoesNotMutateInput(t *testing.T) {
	nested := map[string]interface{}{"a": "", "b": "x"}
	in := map[string]interface{}{"nested": nested, "c": ""}

	_ = RemoveEmptyFields(in)

	assert.Equal(t, map[string]interface{}{"a": "", "b": "x"}, nested)
	assert.Contains(t, in, "c")
}

func TestRemoveEmptyFields_EmptyInput(t *testing.T) {
	assert.Empty(t, RemoveEmptyFields(map[string]interface{}{}))
	assert.Empty(t, RemoveEmptyFields(nil))
}

func TestIsProtected_IgnoresCase(t *testing.T) {
	for _, name := range []string{"OrganizationId", "organizationid", "ORGANIZATIONCONFIGTYPE", "__createdat", "__UpdatedAt", "__updatedby"} {
		assert.True(t, IsProtected(name), name)
	}
	for _, name := range []string{"Name", "organization", "__updated", "ExternalSsoProviderId"} {
		assert.False(t, IsProtected(name), name)
	}
}

func TestWithoutProtected(t *testing.T) {
	in := map[string]interface{}{
		"organizationid": "victim",
		"__updatedBy":    "spoofed",
		"Name":           "Team",
	}

	out := WithoutProtected(in)

	assert.Equal(t, map[string]interface{}{"Name": "Team"}, out)
	assert.Len(t, in, 3)
}

func TestPickFold(t *testing.T) {
	doc := map[string]interface{}{"TeamName": "Tigers", "Name": "Team", "Slug": "t"}

	out := PickFold(doc, map[string]interface{}{"teamname": "x", "Missing": "y"})

	assert.Equal(t, map[string]interface{}{"TeamName": "Tigers"}, out)
}
