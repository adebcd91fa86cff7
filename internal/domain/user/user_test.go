package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	all := []Summary{
		{UserID: "1", Username: "me"},
		{UserID: "2", Username: "ann", FirstName: "Ann", LastName: "Lee"},
		{UserID: "3", Username: "bo"},
		{UserID: ""},
		{UserID: "4", Username: "cy", FirstName: "Cy"},
		{UserID: "5", Username: "di"},
		{UserID: "6", Username: "ed"},
		{UserID: "7", Username: "fa"},
		{UserID: "8", Username: "gu"},
	}
	following := []Summary{{UserID: "3"}}

	got := Suggest(all, following, "1", 5)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.UserID
	}
	assert.Equal(t, []string{"2", "4", "5", "6", "7"}, ids)
	assert.Equal(t, "Ann Lee", got[0].Name)
	assert.Equal(t, "Cy", got[1].Name)
}

func TestSuggest_Empty(t *testing.T) {
	assert.Empty(t, Suggest(nil, nil, "1", 5))
	assert.Empty(t, Suggest([]Summary{{UserID: "1"}}, nil, "1", 5))
}
