package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiValueUnmarshalScalar(t *testing.T) {
	t.Parallel()

	var m MultiValue
	require.NoError(t, json.Unmarshal([]byte(`"臺灣警備總司令部"`), &m))

	assert.False(t, m.IsList())
	assert.Equal(t, []string{"臺灣警備總司令部"}, m.Values())
}

func TestMultiValueUnmarshalList(t *testing.T) {
	t.Parallel()

	var m MultiValue
	require.NoError(t, json.Unmarshal([]byte(`["甲", null, "乙"]`), &m))

	assert.True(t, m.IsList())
	assert.Equal(t, []string{"甲", "", "乙"}, m.Values())
	assert.Equal(t, "甲乙", m.Joined(""))
	assert.Equal(t, "甲、、乙", m.Format())
}

func TestMultiValueUnmarshalNull(t *testing.T) {
	t.Parallel()

	var m MultiValue
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))

	assert.Empty(t, m.Values())
	assert.True(t, m.IsEmpty())
}

func TestMultiValueRejectsOtherShapes(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`42`, `{"a": "b"}`, `[1, 2]`, `true`, `[["nested"]]`} {
		var m MultiValue
		assert.Error(t, json.Unmarshal([]byte(raw), &m), raw)
	}
}

func TestMultiValueMarshalPreservesShape(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Scalar("A1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"A1"`, string(out))

	out, err = json.Marshal(List("A1", "A2"))
	require.NoError(t, err)
	assert.JSONEq(t, `["A1","A2"]`, string(out))

	out, err = json.Marshal(MultiValue{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(out))
}

func TestMultiValueValuesIsCopy(t *testing.T) {
	t.Parallel()

	m := List("甲", "乙")
	values := m.Values()
	values[0] = "changed"

	assert.Equal(t, []string{"甲", "乙"}, m.Values())
}

func TestMultiValueScan(t *testing.T) {
	t.Parallel()

	var m MultiValue
	require.NoError(t, m.Scan([]byte(`["A1","A2"]`)))
	assert.Equal(t, List("A1", "A2"), m)

	require.NoError(t, m.Scan(`"A3"`))
	assert.Equal(t, Scalar("A3"), m)

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsEmpty())

	assert.Error(t, m.Scan(12))
}

func TestRevocationUnmarshal(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 17,
		"name": "甲",
		"category": 2,
		"court": ["國防部高等軍法庭", "臺灣警備總司令部"],
		"case_id": "46年度審字第12號",
		"crime": "叛亂",
		"sentence": ["死刑", "無期徒刑"],
		"linked_decision_id": "促轉司字第1號_json"
	}`

	var r Revocation
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, "17", r.ID)
	assert.Equal(t, "甲", r.Name)
	assert.Equal(t, CategoryCommission, r.Category)
	assert.Equal(t, []string{"國防部高等軍法庭", "臺灣警備總司令部"}, r.Court.Values())
	assert.Equal(t, "46年度審字第12號", r.CaseID.Joined(""))
	assert.True(t, r.HasDecision())
}

func TestRevocationUnmarshalRejectsMalformedCourt(t *testing.T) {
	t.Parallel()

	var r Revocation
	err := json.Unmarshal([]byte(`{"id": "1", "name": "甲", "category": 1, "court": {"name": "x"}}`), &r)
	assert.Error(t, err)
}

func TestRevocationWithoutLinkedDecision(t *testing.T) {
	t.Parallel()

	var r Revocation
	require.NoError(t, json.Unmarshal([]byte(`{"id": "1", "name": "甲", "category": 1}`), &r))
	assert.False(t, r.HasDecision())
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "第一類：賠補償", CategoryCompensation.Label())
	assert.Equal(t, "第二類：促轉會", CategoryCommission.Label())
	assert.Equal(t, "第3類", RevocationCategory(3).Label())
}
