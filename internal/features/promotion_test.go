package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePromoInterval(t *testing.T) {
	tests := []struct {
		interval string
		ok       bool
		months   []time.Month
	}{
		{"Jan,Apr,Jul,Oct", true, []time.Month{time.January, time.April, time.July, time.October}},
		{"Feb,May,Aug,Nov", true, []time.Month{time.February, time.May, time.August, time.November}},
		{"Mar,Jun,Sept,Dec", true, []time.Month{time.March, time.June, time.September, time.December}},
		{"january, APRIL ,july", true, []time.Month{time.January, time.April, time.July}},
		{"None", false, nil},
		{"", false, nil},
		{"Jan,,Apr", false, nil},
		{"Jan,Foo", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			set, ok := ParsePromoInterval(tt.interval)
			require.Equal(t, tt.ok, ok)

			want := make(map[time.Month]bool)
			for _, m := range tt.months {
				want[m] = true
			}
			for m := time.January; m <= time.December; m++ {
				assert.Equal(t, want[m], set.Has(m), m.String())
			}
		})
	}
}

func TestIsPromo2Active(t *testing.T) {
	july := day(2015, time.July, 31)
	august := day(2015, time.August, 3)
	interval := str("Jan,Apr,Jul,Oct")

	assert.True(t, IsPromo2Active(f64(1), interval, july))
	assert.False(t, IsPromo2Active(f64(1), interval, august))

	// promo2 off means inactive regardless of the interval
	assert.False(t, IsPromo2Active(f64(0), interval, july))
	assert.False(t, IsPromo2Active(nil, interval, july))

	assert.False(t, IsPromo2Active(f64(1), nil, july))
	assert.False(t, IsPromo2Active(f64(1), str("None"), july))
}
