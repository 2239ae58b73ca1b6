package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillGroups_UnmarshalObjectKeepsOrder(t *testing.T) {
	var groups SkillGroups
	err := json.Unmarshal([]byte(`{"programming":["Go","Python"],"ai_ml":["PyTorch"],"embedded":[]}`), &groups)
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, "programming", groups[0].Key)
	assert.Equal(t, "ai_ml", groups[1].Key)
	assert.Equal(t, "embedded", groups[2].Key)
	assert.Equal(t, []string{"Go", "Python"}, groups[0].Skills)
}

func TestSkillGroups_UnmarshalArray(t *testing.T) {
	var groups SkillGroups
	err := json.Unmarshal([]byte(`[{"key":"web","skills":["Next.js"]}]`), &groups)
	require.NoError(t, err)

	skills, ok := groups.Get("web")
	require.True(t, ok)
	assert.Equal(t, []string{"Next.js"}, skills)

	_, ok = groups.Get("missing")
	assert.False(t, ok)
}

func TestSkillGroups_UnmarshalErrors(t *testing.T) {
	var groups SkillGroups
	assert.Error(t, json.Unmarshal([]byte(`{"a":"not-a-list"}`), &groups))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &groups))
	assert.Nil(t, groups)
}

func TestSkillGroups_MarshalRoundTripOrder(t *testing.T) {
	groups := SkillGroups{{Key: "z", Skills: []string{"1"}}, {Key: "a", Skills: []string{"2"}}}

	data, err := json.Marshal(groups)
	require.NoError(t, err)
	assert.Equal(t, `{"z":["1"],"a":["2"]}`, string(data))
}

func TestKnowledgeBase_Validate(t *testing.T) {
	var nilKB *KnowledgeBase
	assert.ErrorIs(t, nilKB.Validate(), ErrInvalidInput)

	kb := &KnowledgeBase{Personal: Personal{Name: "Ana"}}
	assert.ErrorIs(t, kb.Validate(), ErrInvalidInput)

	kb.Personal.Title = "Ingeniera"
	assert.NoError(t, kb.Validate())

	kb.Skills = SkillGroups{{Key: ""}}
	assert.ErrorIs(t, kb.Validate(), ErrInvalidInput)
}
