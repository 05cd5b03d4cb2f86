package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMatch = `{
  "meta": {"data_version": "1.1.0"},
  "info": {
    "players": {"India": ["SR Tendulkar"], "Pakistan": ["Shoaib Akhtar"]},
    "player_of_match": ["SR Tendulkar"],
    "teams": ["India", "Pakistan"],
    "dates": ["2003-03-01"],
    "venue": "SuperSport Park",
    "outcome": {"winner": "India"}
  },
  "innings": [
    {"team": "India", "overs": [
      {"over": 0, "deliveries": [
        {"batter": "SR Tendulkar", "bowler": "Shoaib Akhtar", "runs": {"batter": 6, "extras": 0, "total": 6}}
      ]}
    ]}
  ]
}`

func TestValidateMatch_Valid(t *testing.T) {
	assert.NoError(t, ValidateMatch([]byte(validMatch)))
}

func TestValidateMatch_InfoWithoutPlayerOfMatch(t *testing.T) {
	// Matches with no award still pass so their rosters can be collected.
	doc := `{"info": {"teams": ["A", "B"], "players": {"A": ["x"]}}}`
	assert.NoError(t, ValidateMatch([]byte(doc)))
}

func TestValidateMatch_MissingInfo(t *testing.T) {
	err := ValidateMatch([]byte(`{"innings": []}`))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
	assert.Contains(t, verr.Errors[0].Message, "info")
}

func TestValidateMatch_WrongTypes(t *testing.T) {
	doc := `{
	  "info": {"teams": "India v Pakistan"},
	  "innings": [{"team": "India", "overs": [{"over": 0, "deliveries": [
	    {"batter": "a", "bowler": "b", "runs": {"batter": "four", "total": 4}}
	  ]}]}]
	}`
	err := ValidateMatch([]byte(doc))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Len(t, verr.Errors, 2)
	assert.Contains(t, err.Error(), "info.teams")
}

func TestValidateMatch_NotJSON(t *testing.T) {
	err := ValidateMatch([]byte(`{"info": `))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}
