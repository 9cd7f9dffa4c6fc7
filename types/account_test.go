package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"teacher":   RoleTeacher,
		" Student ": RoleStudent,
		"ADMIN":     RoleAdmin,
	}
	for raw, want := range cases {
		role, ok := ParseRole(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, role)
	}

	for _, raw := range []string{"", "parent", "faculty"} {
		_, ok := ParseRole(raw)
		require.False(t, ok, raw)
	}
}

func TestRoleCollection(t *testing.T) {
	require.Equal(t, CollectionTeachers, RoleTeacher.Collection())
	require.Equal(t, CollectionTeachers, RoleAdmin.Collection())
	require.Equal(t, CollectionStudents, RoleStudent.Collection())
	require.Equal(t, "FACULTY", RoleTeacher.Tag())
}

func TestFlexStringAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 3, "b": " 12 ", "c": null}`), &payload))

	require.Equal(t, "3", payload.A.String())
	require.Equal(t, "12", payload.B.String())
	require.Empty(t, payload.C.String())

	id, ok := payload.B.Int64()
	require.True(t, ok)
	require.Equal(t, int64(12), id)

	_, ok = FlexString("0").Int64()
	require.False(t, ok)
	_, ok = FlexString("abc").Int64()
	require.False(t, ok)

	require.Error(t, json.Unmarshal([]byte(`{"a": true}`), &payload))
}

func TestTeacherPasswordIsNotSerialized(t *testing.T) {
	raw, err := json.Marshal(Teacher{ID: 1, FullName: "B", Email: "b@x.com", Password: "secret"})
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret")
}
