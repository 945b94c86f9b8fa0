package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"15m"`, want: 15 * time.Minute},
		{name: "nanoseconds", in: `3000000000`, want: 3 * time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestTime_UnmarshalBackendLayouts(t *testing.T) {
	for _, s := range []string{
		`"2024-05-01T10:20:30"`,
		`"2024-05-01T10:20:30.123456"`,
		`"2024-05-01T10:20:30Z"`,
	} {
		var ts Time
		require.NoError(t, json.Unmarshal([]byte(s), &ts), s)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, 30, ts.Second())
	}

	var date Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01"`), &date))
	assert.Equal(t, time.May, date.Month())
}

func TestTime_NullAndEmpty(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	b, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
	assert.Equal(t, "-", Time{}.String())
}

func TestTime_MarshalWireLayout(t *testing.T) {
	ts := NewTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T03:04:05"`, string(b))
}

func TestParseTime_Rejects(t *testing.T) {
	_, err := ParseTime("yesterday")
	require.Error(t, err)
}
