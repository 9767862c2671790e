package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeString
		wantErr bool
	}{
		{input: "09:00", want: "09:00"},
		{input: " 23:59 ", want: "23:59"},
		{input: "10:30:00", want: "10:30"},
		{input: "9:00", wantErr: true},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "", wantErr: true},
		{input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddMinutes(t *testing.T) {
	end, err := MustTimeString("09:30").AddMinutes(40)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:10"), end)

	_, err = MustTimeString("23:30").AddMinutes(40)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(40)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestCompare(t *testing.T) {
	assert.True(t, MustTimeString("08:00").IsBefore("09:15"))
	assert.True(t, MustTimeString("18:00").IsAfter("09:15"))
	assert.False(t, MustTimeString("09:15").IsBefore("09:15"))
}

func TestScanAndValue(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("14:20:00")))
	assert.Equal(t, TimeString("14:20"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))

	v, err := TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = MustTimeString("11:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "11:00", v)
}
