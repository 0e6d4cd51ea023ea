package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionOpenDate(t *testing.T) {
	open := CompetitionOpenDate(f64(2008), f64(9))
	require.NotNil(t, open)
	assert.Equal(t, day(2008, time.September, 1), *open)

	assert.Nil(t, CompetitionOpenDate(nil, f64(9)))
	assert.Nil(t, CompetitionOpenDate(f64(2008), nil))
	assert.Nil(t, CompetitionOpenDate(f64(2008.5), f64(9)))
	assert.Nil(t, CompetitionOpenDate(f64(2008), f64(13)))
	assert.Nil(t, CompetitionOpenDate(f64(2008), f64(0)))
	assert.Nil(t, CompetitionOpenDate(f64(0), f64(1)))
	assert.Nil(t, CompetitionOpenDate(f64(10000), f64(1)))
}

func TestCompetitionAgeDays(t *testing.T) {
	date := day(2015, time.July, 31)

	assert.Equal(t, 2524, CompetitionAgeDays(date, CompetitionOpenDate(f64(2008), f64(9))))
	assert.Equal(t, 2829, CompetitionAgeDays(date, CompetitionOpenDate(f64(2007), f64(11))))
	assert.Equal(t, 0, CompetitionAgeDays(date, nil))

	// a competitor opening after the observation counts as zero days
	assert.Equal(t, 0, CompetitionAgeDays(date, CompetitionOpenDate(f64(2016), f64(1))))

	// far apart dates do not overflow
	assert.Equal(t, 0, CompetitionAgeDays(day(1, time.January, 1), CompetitionOpenDate(f64(9999), f64(12))))
	assert.Positive(t, CompetitionAgeDays(day(9999, time.December, 31), CompetitionOpenDate(f64(1), f64(1))))
}
